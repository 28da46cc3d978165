package debug

import (
    "context"
    "testing"

    chip8 "github.com/kazzmir/chip8/lib"
)

func makeCPU(test *testing.T) chip8.CPUState {
    cpu := chip8.StartupState()
    /* 0x200: add v0, 1  0x202: jp 0x200 */
    err := cpu.LoadRom([]byte{0x70, 0x01, 0x12, 0x00})
    if err != nil {
        test.Fatalf("could not load rom: %v", err)
    }
    return cpu
}

func TestStep(test *testing.T){
    debugger := MakeDebugger()
    cpu := makeCPU(test)
    quit := context.Background()

    debugger.Step()
    err := debugger.Handle(quit, &cpu)
    if err != nil {
        test.Fatalf("handle failed: %v", err)
    }

    stop := <-debugger.Stops
    if stop.PC != 0x200 {
        test.Fatalf("expected a snapshot at 0x200 but got 0x%x", stop.PC)
    }

    if !debugger.IsStopped() {
        test.Fatalf("debugger should still be stopped after a step")
    }
}

func TestBreakpoint(test *testing.T){
    debugger := MakeDebugger()
    cpu := makeCPU(test)
    quit := context.Background()

    breakpoint := debugger.AddPCBreakpoint(0x202)
    if breakpoint.Id != 1 {
        test.Fatalf("expected the first breakpoint to have id 1 but was %v", breakpoint.Id)
    }

    debugger.Continue()
    err := debugger.Handle(quit, &cpu)
    if err != nil {
        test.Fatalf("handle failed: %v", err)
    }
    if debugger.IsStopped() {
        test.Fatalf("debugger should run after continue")
    }

    err = cpu.Step()
    if err != nil {
        test.Fatalf("step failed: %v", err)
    }

    /* now at 0x202, the breakpoint stops execution and waits for a command */
    debugger.Step()
    err = debugger.Handle(quit, &cpu)
    if err != nil {
        test.Fatalf("handle failed: %v", err)
    }
    if !debugger.IsStopped() {
        test.Fatalf("expected the breakpoint to stop the debugger")
    }

    debugger.RemoveBreakpoint(breakpoint.Id)
    if len(debugger.GetBreakpoints()) != 0 {
        test.Fatalf("breakpoint was not removed")
    }
}

func TestQuitWhileStopped(test *testing.T){
    debugger := MakeDebugger()
    cpu := makeCPU(test)

    quit, cancel := context.WithCancel(context.Background())
    cancel()

    err := debugger.Handle(quit, &cpu)
    if err == nil {
        test.Fatalf("expected an error once quit is cancelled")
    }
}
