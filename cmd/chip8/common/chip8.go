package common

import (
    "errors"
    "context"
    "log"
    "time"

    "github.com/kazzmir/chip8/cmd/chip8/debug"
    chip8 "github.com/kazzmir/chip8/lib"
)

type EmulatorAction int
const (
    EmulatorNothing EmulatorAction = iota // just a default value that has no behavior
    EmulatorNormal
    EmulatorTurbo
    EmulatorTogglePause
    EmulatorSetPause
    EmulatorUnpause
    EmulatorStepFrame
    EmulatorHardReset
)

/* how much faster the machine runs in turbo mode */
const TurboMultiplier = 4

type EmulatorSettings struct {
    CyclesPerFrame int
    Quirks chip8.Quirks
    /* stop with MaxCyclesReached after this many cycles, 0 means never stop */
    MaxCycles uint64
    Debug bool
    /* seed for the random number instruction, 0 means use the clock */
    Seed uint64
}

func DefaultEmulatorSettings() EmulatorSettings {
    return EmulatorSettings{
        CyclesPerFrame: DefaultCyclesPerFrame,
    }
}

func SetupCPU(program []byte, settings EmulatorSettings) (chip8.CPUState, error) {
    cpu := chip8.StartupState()

    err := cpu.LoadRom(program)
    if err != nil {
        return cpu, err
    }

    cpu.Quirks = settings.Quirks
    if settings.Seed != 0 {
        cpu.SetSeed(settings.Seed)
    }

    if settings.Debug {
        cpu.Debug = 1
    }

    return cpu, nil
}

/* send value, replacing whatever the reader has not picked up yet. Only safe
 * when the caller is the only writer to the channel.
 */
func sendLatest[T any](channel chan T, value T){
    if channel == nil {
        return
    }

    select {
        case channel <- value:
            return
        default:
    }

    select {
        case <-channel:
        default:
    }

    select {
        case channel <- value:
        default:
    }
}

/* Holds back the release of a key until an instruction has had a chance to see
 * that it was pressed, so a tap shorter than a frame is not lost.
 */
type keyLatch struct {
    /* pressed since the keypad was last read */
    fresh [chip8.KeyCount]bool
    /* released while still fresh */
    released [chip8.KeyCount]bool
}

func (latch *keyLatch) apply(cpu *chip8.CPUState, event chip8.KeyEvent){
    key := event.Key & 0xf
    if event.Pressed {
        cpu.Keypad.Press(key)
        latch.fresh[key] = true
        latch.released[key] = false
        return
    }

    if latch.fresh[key] {
        latch.released[key] = true
    } else {
        cpu.Keypad.Release(key)
    }
}

/* the keypad was read, so held back releases can happen now */
func (latch *keyLatch) settle(cpu *chip8.CPUState){
    for key := range latch.released {
        if latch.released[key] {
            cpu.Keypad.Release(chip8.Key(key))
        }
    }
    *latch = keyLatch{}
}

/* true if the next step will look at the keypad */
func readsKeypad(cpu *chip8.CPUState) bool {
    if cpu.Keypad.Awaiting {
        return true
    }
    instruction, err := cpu.Fetch()
    return err == nil && instruction.ReadsKeypad()
}

/* apply all key events that arrived since the last frame */
func applyKeys(cpu *chip8.CPUState, keys <-chan chip8.KeyEvent, latch *keyLatch){
    for {
        select {
            case event := <-keys:
                latch.apply(cpu, event)
            default:
                return
        }
    }
}

var MaxCyclesReached error = errors.New("maximum cycles reached")

/* Run the machine at 60 frames per second until quit is cancelled or the machine fails.
 * Each frame applies pending key events, executes CyclesPerFrame instructions, ticks the
 * timers once and then publishes the tone state and, if it changed, the screen.
 * The machine is only touched by the goroutine running this function.
 */
func RunChip8(quit context.Context, cpu *chip8.CPUState, program []byte, settings EmulatorSettings,
              keys <-chan chip8.KeyEvent, toDraw chan chip8.Display, tone chan bool,
              emulatorActions <-chan EmulatorAction, debugger debug.Debugger, verbose int) error {

    if settings.CyclesPerFrame <= 0 {
        return ErrInvalidCycles
    }

    frameTimer := time.NewTicker(time.Second / chip8.TimerFrequency)
    defer frameTimer.Stop()

    turbo := 1
    paused := false
    var latch keyLatch
    stepFrame := false

    /* show whatever is on the screen right away */
    sendLatest(toDraw, cpu.Display.Copy())

    for quit.Err() == nil {
        select {
            case <-quit.Done():
                return nil
            case action := <-emulatorActions:
                switch action {
                    case EmulatorNothing:
                        /* nothing */
                    case EmulatorNormal:
                        turbo = 1
                        if verbose > 0 {
                            log.Printf("Emulator speed set to %v", turbo)
                        }
                    case EmulatorTurbo:
                        turbo = TurboMultiplier
                        if verbose > 0 {
                            log.Printf("Emulator speed set to %v", turbo)
                        }
                    case EmulatorTogglePause:
                        paused = !paused
                    case EmulatorSetPause:
                        paused = true
                    case EmulatorUnpause:
                        paused = false
                    case EmulatorStepFrame:
                        paused = true
                        stepFrame = true
                    case EmulatorHardReset:
                        fresh, err := SetupCPU(program, settings)
                        if err != nil {
                            return err
                        }
                        *cpu = fresh
                        latch = keyLatch{}
                        sendLatest(toDraw, cpu.Display.Copy())
                        sendLatest(tone, false)
                        if verbose > 0 {
                            log.Printf("Hard reset")
                        }
                }
                continue
            case <-frameTimer.C:
        }

        applyKeys(cpu, keys, &latch)

        if paused && !stepFrame {
            continue
        }
        stepFrame = false

        for i := 0; i < settings.CyclesPerFrame * turbo; i++ {
            if settings.MaxCycles > 0 && cpu.Cycle >= settings.MaxCycles {
                if verbose > 0 {
                    log.Printf("Maximum cycles %v reached", settings.MaxCycles)
                }
                return MaxCyclesReached
            }

            if debugger != nil {
                err := debugger.Handle(quit, cpu)
                if err != nil {
                    /* quit was cancelled while the debugger was stopped */
                    return nil
                }
                /* keys pressed while stopped in the debugger */
                applyKeys(cpu, keys, &latch)
            }

            reads := readsKeypad(cpu)
            err := cpu.Step()
            if err != nil {
                return err
            }
            if reads {
                latch.settle(cpu)
            }
        }

        sendLatest(tone, cpu.Timers.Tick())

        if cpu.Display.ConsumeRedraw() {
            sendLatest(toDraw, cpu.Display.Copy())
        }
    }

    return nil
}

/* Run the machine like RunChip8, but a failure does not end the emulator. The error is
 * reported on failures and the machine stays stopped until a hard reset arrives, which
 * reloads the program and starts over. Returns when quit is cancelled or the maximum
 * number of cycles is reached.
 */
func RunChip8UntilQuit(quit context.Context, cpu *chip8.CPUState, program []byte, settings EmulatorSettings,
                       keys <-chan chip8.KeyEvent, toDraw chan chip8.Display, tone chan bool,
                       emulatorActions <-chan EmulatorAction, failures chan<- error, verbose int) error {
    for {
        err := RunChip8(quit, cpu, program, settings, keys, toDraw, tone, emulatorActions, nil, verbose)
        if err == nil || errors.Is(err, MaxCyclesReached) || errors.Is(err, ErrInvalidCycles) {
            return err
        }

        sendLatest(tone, false)
        select {
            case failures <- err:
            case <-quit.Done():
                return nil
        }

        if !waitForReset(quit, emulatorActions) {
            return nil
        }

        fresh, err := SetupCPU(program, settings)
        if err != nil {
            return err
        }
        *cpu = fresh
        if verbose > 0 {
            log.Printf("Hard reset")
        }
    }
}

/* drop every action except a hard reset. false if quit happened first */
func waitForReset(quit context.Context, emulatorActions <-chan EmulatorAction) bool {
    for {
        select {
            case <-quit.Done():
                return false
            case action := <-emulatorActions:
                if action == EmulatorHardReset {
                    return true
                }
        }
    }
}
