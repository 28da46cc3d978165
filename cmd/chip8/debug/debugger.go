package debug

import (
    "context"
    "log"
    "sync"

    chip8 "github.com/kazzmir/chip8/lib"
)

type DebugCommand interface {
    Name() string
}

type DebugCommandSimple struct {
    name string
}

func (command *DebugCommandSimple) Name() string {
    return command.name
}

func makeCommand(name string) DebugCommand {
    return &DebugCommandSimple{name: name}
}

var DebugCommandStep DebugCommand = makeCommand("step")
var DebugCommandContinue DebugCommand = makeCommand("continue")

// break when the cpu's PC is at a specific value
type Breakpoint struct {
    PC uint16
    Id uint64
}

func (breakpoint *Breakpoint) Hit(cpu *chip8.CPUState) bool {
    return breakpoint.PC == cpu.PC
}

/* Handle is called by the emulator before each instruction. While the debugger
 * is stopped it blocks until it is told to step or continue, or quit is cancelled.
 */
type Debugger interface {
    Handle(quit context.Context, cpu *chip8.CPUState) error
    Step()
    Continue()
    Stop()
    AddPCBreakpoint(pc uint16) Breakpoint
    RemoveBreakpoint(id uint64)
    GetBreakpoints() []Breakpoint
    IsStopped() bool
}

type DefaultDebugger struct {
    Commands chan DebugCommand
    /* receives a snapshot of the machine every time execution stops */
    Stops chan chip8.CPUState

    lock sync.Mutex
    stopped bool
    breakpoints []Breakpoint
    breakpointId uint64
}

func (debugger *DefaultDebugger) IsStopped() bool {
    debugger.lock.Lock()
    defer debugger.lock.Unlock()
    return debugger.stopped
}

func (debugger *DefaultDebugger) setStopped(stopped bool){
    debugger.lock.Lock()
    defer debugger.lock.Unlock()
    debugger.stopped = stopped
}

func (debugger *DefaultDebugger) AddPCBreakpoint(pc uint16) Breakpoint {
    debugger.lock.Lock()
    defer debugger.lock.Unlock()

    breakpoint := Breakpoint{
        PC: pc,
        Id: debugger.breakpointId,
    }
    debugger.breakpoints = append(debugger.breakpoints, breakpoint)
    debugger.breakpointId += 1
    return breakpoint
}

func (debugger *DefaultDebugger) RemoveBreakpoint(id uint64){
    debugger.lock.Lock()
    defer debugger.lock.Unlock()

    var out []Breakpoint
    for _, breakpoint := range debugger.breakpoints {
        if breakpoint.Id != id {
            out = append(out, breakpoint)
        }
    }
    debugger.breakpoints = out
}

func (debugger *DefaultDebugger) GetBreakpoints() []Breakpoint {
    debugger.lock.Lock()
    defer debugger.lock.Unlock()
    return append([]Breakpoint(nil), debugger.breakpoints...)
}

func (debugger *DefaultDebugger) hitBreakpoint(cpu *chip8.CPUState) bool {
    debugger.lock.Lock()
    defer debugger.lock.Unlock()
    for _, breakpoint := range debugger.breakpoints {
        if breakpoint.Hit(cpu) {
            return true
        }
    }
    return false
}

func (debugger *DefaultDebugger) Step(){
    select {
        case debugger.Commands <- DebugCommandStep:
        default:
    }
}

/* run until the next breakpoint */
func (debugger *DefaultDebugger) Continue(){
    select {
        case debugger.Commands <- DebugCommandContinue:
        default:
    }
}

func (debugger *DefaultDebugger) Stop(){
    debugger.setStopped(true)
}

func (debugger *DefaultDebugger) publish(cpu *chip8.CPUState){
    if debugger.Stops == nil {
        return
    }
    snapshot := cpu.Copy()
    select {
        case debugger.Stops <- snapshot:
        default:
            /* drop the stale snapshot so the ui sees the latest one */
            select {
                case <-debugger.Stops:
                default:
            }
            select {
                case debugger.Stops <- snapshot:
                default:
            }
    }
}

func (debugger *DefaultDebugger) Handle(quit context.Context, cpu *chip8.CPUState) error {
    if !debugger.IsStopped() && debugger.hitBreakpoint(cpu) {
        log.Printf("[debug] breakpoint at 0x%03x", cpu.PC)
        debugger.Stop()
    }

    if !debugger.IsStopped() {
        return nil
    }

    debugger.publish(cpu)

    select {
        case <-quit.Done():
            return quit.Err()
        case command := <-debugger.Commands:
            if command == DebugCommandStep {
                log.Printf("[debug] step")
            }
            if command == DebugCommandContinue {
                log.Printf("[debug] continue")
                debugger.setStopped(false)
            }
    }

    return nil
}

/* the debugger starts out stopped at the first instruction */
func MakeDebugger() *DefaultDebugger {
    return &DefaultDebugger{
        Commands: make(chan DebugCommand, 5),
        Stops: make(chan chip8.CPUState, 1),
        stopped: true,
        breakpointId: 1,
    }
}
