package common

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/kazzmir/chip8/data"
    chip8 "github.com/kazzmir/chip8/lib"
)

func loadRom(test *testing.T, name string) []byte {
    rom, err := chip8.ParseRomFS(data.RomsFS, name)
    if err != nil {
        test.Fatalf("could not load %v: %v", name, err)
    }
    return rom.Data
}

func TestRunSelfTest(test *testing.T){
    program := loadRom(test, "roms/alu.ch8")
    settings := EmulatorSettings{
        CyclesPerFrame: 100,
        MaxCycles: 300,
        Seed: 1,
    }

    cpu, err := SetupCPU(program, settings)
    if err != nil {
        test.Fatalf("setup failed: %v", err)
    }

    quit, cancel := context.WithTimeout(context.Background(), 5 * time.Second)
    defer cancel()

    err = RunChip8(quit, &cpu, program, settings, nil, nil, nil, nil, nil, 0)
    if !errors.Is(err, MaxCyclesReached) {
        test.Fatalf("expected the run to stop at max cycles but got %v", err)
    }

    if cpu.V[0xe] != 1 {
        test.Fatalf("alu self test failed at check %v", cpu.V[0xd])
    }
}

func TestRunKeysAndFrames(test *testing.T){
    program := loadRom(test, data.DemoRom)
    settings := EmulatorSettings{
        CyclesPerFrame: 50,
        MaxCycles: 200,
        Seed: 1,
    }

    cpu, err := SetupCPU(program, settings)
    if err != nil {
        test.Fatalf("setup failed: %v", err)
    }

    keys := make(chan chip8.KeyEvent, 4)
    keys <- chip8.KeyEvent{Key: 0x5, Pressed: true}
    toDraw := make(chan chip8.Display, 1)
    tone := make(chan bool, 1)

    quit, cancel := context.WithTimeout(context.Background(), 5 * time.Second)
    defer cancel()

    err = RunChip8(quit, &cpu, program, settings, keys, toDraw, tone, nil, nil, 0)
    if !errors.Is(err, MaxCyclesReached) {
        test.Fatalf("expected the run to stop at max cycles but got %v", err)
    }

    if cpu.V[0x5] != 0x5 {
        test.Fatalf("expected the demo to record key 5 but V5 was %v", cpu.V[0x5])
    }

    select {
        case frame := <-toDraw:
            if frame.CountLit() == 0 {
                test.Fatalf("expected the published frame to show a glyph")
            }
        default:
            test.Fatalf("no frame was published")
    }

    select {
        case on := <-tone:
            if !on {
                test.Fatalf("expected the tone to be on after a key press")
            }
        default:
            test.Fatalf("no tone state was published")
    }
}

func TestRunCancel(test *testing.T){
    program := loadRom(test, data.DemoRom)
    settings := DefaultEmulatorSettings()
    cpu, err := SetupCPU(program, settings)
    if err != nil {
        test.Fatalf("setup failed: %v", err)
    }

    quit, cancel := context.WithCancel(context.Background())
    actions := make(chan EmulatorAction, 2)
    actions <- EmulatorSetPause
    actions <- EmulatorHardReset

    done := make(chan error, 1)
    go func(){
        done <- RunChip8(quit, &cpu, program, settings, nil, nil, nil, actions, nil, 0)
    }()

    time.Sleep(50 * time.Millisecond)
    cancel()

    select {
        case err := <-done:
            if err != nil {
                test.Fatalf("expected a clean exit but got %v", err)
            }
        case <-time.After(5 * time.Second):
            test.Fatalf("emulator did not stop after cancel")
    }

    if cpu.Cycle != 0 {
        test.Fatalf("paused emulator ran %v cycles", cpu.Cycle)
    }
}

func TestRunError(test *testing.T){
    /* ret with nothing on the stack */
    program := []byte{0x00, 0xee}
    settings := DefaultEmulatorSettings()
    cpu, err := SetupCPU(program, settings)
    if err != nil {
        test.Fatalf("setup failed: %v", err)
    }

    quit, cancel := context.WithTimeout(context.Background(), 5 * time.Second)
    defer cancel()

    err = RunChip8(quit, &cpu, program, settings, nil, nil, nil, nil, nil, 0)
    if !errors.Is(err, chip8.ErrStackUnderflow) {
        test.Fatalf("expected a stack underflow but got %v", err)
    }
}

func TestShortKeyTap(test *testing.T){
    program := []byte{
        0x60, 0x05, // LD V0, $05
        0xe0, 0x9e, // SKP V0
        0x12, 0x04, // JP $204
        0x6e, 0x01, // LD VE, $01
        0x12, 0x08, // JP $208
    }
    settings := EmulatorSettings{
        CyclesPerFrame: 10,
        MaxCycles: 50,
        Seed: 1,
    }

    cpu, err := SetupCPU(program, settings)
    if err != nil {
        test.Fatalf("setup failed: %v", err)
    }

    /* pressed and released within the same frame */
    keys := make(chan chip8.KeyEvent, 2)
    keys <- chip8.KeyEvent{Key: 0x5, Pressed: true}
    keys <- chip8.KeyEvent{Key: 0x5, Pressed: false}

    quit, cancel := context.WithTimeout(context.Background(), 5 * time.Second)
    defer cancel()

    err = RunChip8(quit, &cpu, program, settings, keys, nil, nil, nil, nil, 0)
    if !errors.Is(err, MaxCyclesReached) {
        test.Fatalf("expected the run to stop at max cycles but got %v", err)
    }

    if cpu.V[0xe] != 1 {
        test.Fatalf("SKP did not see the key tap")
    }
    if cpu.Keypad.IsPressed(0x5) {
        test.Fatalf("key 5 is still down after it was read")
    }
}

func TestKeyLatch(test *testing.T){
    cpu := chip8.StartupState()
    var latch keyLatch

    /* a key that was already seen is released right away */
    cpu.Keypad.Press(0x3)
    latch.apply(&cpu, chip8.KeyEvent{Key: 0x3, Pressed: false})
    if cpu.Keypad.IsPressed(0x3) {
        test.Fatalf("key 3 should be released")
    }

    latch.apply(&cpu, chip8.KeyEvent{Key: 0x7, Pressed: true})
    latch.apply(&cpu, chip8.KeyEvent{Key: 0x7, Pressed: false})
    if !cpu.Keypad.IsPressed(0x7) {
        test.Fatalf("key 7 was released before anything read it")
    }

    latch.settle(&cpu)
    if cpu.Keypad.IsPressed(0x7) {
        test.Fatalf("key 7 should be released once the keypad was read")
    }

    /* pressed again after the release, so it stays down */
    latch.apply(&cpu, chip8.KeyEvent{Key: 0x9, Pressed: true})
    latch.apply(&cpu, chip8.KeyEvent{Key: 0x9, Pressed: false})
    latch.apply(&cpu, chip8.KeyEvent{Key: 0x9, Pressed: true})
    latch.settle(&cpu)
    if !cpu.Keypad.IsPressed(0x9) {
        test.Fatalf("key 9 should still be down")
    }
}

func TestResetAfterError(test *testing.T){
    program := []byte{0x00, 0xee}
    settings := DefaultEmulatorSettings()
    cpu, err := SetupCPU(program, settings)
    if err != nil {
        test.Fatalf("setup failed: %v", err)
    }

    quit, cancel := context.WithCancel(context.Background())
    defer cancel()

    actions := make(chan EmulatorAction, 2)
    failures := make(chan error, 1)
    done := make(chan error, 1)
    go func(){
        done <- RunChip8UntilQuit(quit, &cpu, program, settings, nil, nil, nil, actions, failures, 0)
    }()

    expectFailure := func(){
        select {
            case err := <-failures:
                if !errors.Is(err, chip8.ErrStackUnderflow) {
                    test.Fatalf("expected a stack underflow but got %v", err)
                }
            case <-time.After(5 * time.Second):
                test.Fatalf("no failure was reported")
        }
    }

    expectFailure()

    /* anything but a reset is ignored while stopped */
    actions <- EmulatorUnpause
    actions <- EmulatorHardReset

    /* the reset reloads the program, which fails again */
    expectFailure()

    if len(actions) != 0 {
        test.Fatalf("hard reset was not read, %v actions queued", len(actions))
    }

    cancel()
    select {
        case err := <-done:
            if err != nil {
                test.Fatalf("expected a clean exit but got %v", err)
            }
        case <-time.After(5 * time.Second):
            test.Fatalf("emulator did not stop after cancel")
    }
}

func TestSendLatest(test *testing.T){
    channel := make(chan int, 1)
    sendLatest(channel, 1)
    sendLatest(channel, 2)
    if value := <-channel; value != 2 {
        test.Fatalf("expected the latest value 2 but got %v", value)
    }
}
