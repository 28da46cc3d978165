package main

/* Terminal debugger for chip-8 roms. The machine starts stopped at the first
 * instruction and can be single stepped or run until a breakpoint.
 */

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "log"
    "os"
    "strconv"
    "time"

    "github.com/kazzmir/chip8/cmd/chip8/common"
    "github.com/kazzmir/chip8/cmd/chip8/debug"
    "github.com/kazzmir/chip8/cmd/chip8/thread"
    "github.com/kazzmir/chip8/data"
    chip8 "github.com/kazzmir/chip8/lib"

    "github.com/jroimartin/gocui"
)

/* keypad layout of the emulator window, as typed in a terminal */
var keypadRunes = map[rune]chip8.Key{
    '1': 0x1, '2': 0x2, '3': 0x3, '4': 0xc,
    'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xd,
    'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xe,
    'z': 0xa, 'x': 0x0, 'c': 0xb, 'v': 0xf,
}

/* terminals only report key presses, so each press is released after a short while */
const keyTapDuration = 150 * time.Millisecond

func bindKeys(gui *gocui.Gui, view *DebugView, debugger debug.Debugger, keys chan<- chip8.KeyEvent, cancel context.CancelFunc) error {
    bind := func(key interface{}, handler func(*gocui.Gui, *gocui.View) error) error {
        return gui.SetKeybinding("", key, gocui.ModNone, handler)
    }

    err := bind(gocui.KeyCtrlC, func(gui *gocui.Gui, _ *gocui.View) error {
        cancel()
        return gocui.ErrQuit
    })
    if err != nil {
        return err
    }

    err = bind(gocui.KeyF10, func(gui *gocui.Gui, _ *gocui.View) error {
        debugger.Step()
        view.SetMessage("")
        return nil
    })
    if err != nil {
        return err
    }

    err = bind(gocui.KeyF5, func(gui *gocui.Gui, _ *gocui.View) error {
        debugger.Continue()
        view.SetMessage("running")
        return nil
    })
    if err != nil {
        return err
    }

    err = bind(gocui.KeyF6, func(gui *gocui.Gui, _ *gocui.View) error {
        debugger.Stop()
        view.SetMessage("")
        return nil
    })
    if err != nil {
        return err
    }

    err = bind(gocui.KeyF9, func(gui *gocui.Gui, _ *gocui.View) error {
        view.lock.Lock()
        pc := view.state.PC
        view.lock.Unlock()

        for _, breakpoint := range debugger.GetBreakpoints() {
            if breakpoint.PC == pc {
                debugger.RemoveBreakpoint(breakpoint.Id)
                view.SetMessage(fmt.Sprintf("Removed breakpoint %v at 0x%03x", breakpoint.Id, pc))
                return nil
            }
        }

        breakpoint := debugger.AddPCBreakpoint(pc)
        view.SetMessage(fmt.Sprintf("Breakpoint %v added at 0x%03x", breakpoint.Id, breakpoint.PC))
        return nil
    })
    if err != nil {
        return err
    }

    for letter, key := range keypadRunes {
        err = bind(letter, func(gui *gocui.Gui, _ *gocui.View) error {
            select {
                case keys <- chip8.KeyEvent{Key: key, Pressed: true}:
                default:
            }
            time.AfterFunc(keyTapDuration, func(){
                select {
                    case keys <- chip8.KeyEvent{Key: key, Pressed: false}:
                    default:
                }
            })
            return nil
        })
        if err != nil {
            return err
        }
    }

    return nil
}

func Run(rom chip8.RomFile, settings common.EmulatorSettings, breakpoints []uint16) error {
    cpu, err := common.SetupCPU(rom.Data, settings)
    if err != nil {
        return err
    }

    gui, err := gocui.NewGui(gocui.OutputNormal)
    if err != nil {
        return err
    }
    defer gui.Close()

    debugger := debug.MakeDebugger()
    for _, pc := range breakpoints {
        debugger.AddPCBreakpoint(pc)
    }

    view := &DebugView{
        debugger: debugger,
    }
    view.SetState(cpu.Copy())
    gui.SetManagerFunc(view.Layout)

    group := thread.NewThreadGroup(context.Background())
    defer group.Cancel()

    keys := make(chan chip8.KeyEvent, 32)
    toDraw := make(chan chip8.Display, 1)

    err = bindKeys(gui, view, debugger, keys, group.Cancel)
    if err != nil {
        return err
    }

    group.SpawnError(func(quit context.Context) error {
        err := common.RunChip8(quit, &cpu, rom.Data, settings, keys, toDraw, nil, nil, debugger, 0)
        if err != nil && !errors.Is(err, common.MaxCyclesReached) {
            view.SetMessage(fmt.Sprintf("Error: %v", err))
            gui.Update(func(*gocui.Gui) error { return nil })
            return err
        }
        return nil
    })

    /* refresh the terminal when the machine stops or draws, at most 30 times a second */
    group.Spawn(func(){
        refresh := time.NewTicker(time.Second / 30)
        defer refresh.Stop()
        dirty := false
        for {
            select {
                case <-group.Done():
                    return
                case state := <-debugger.Stops:
                    view.SetState(state)
                    dirty = true
                case display := <-toDraw:
                    view.SetDisplay(display)
                    dirty = true
                case <-refresh.C:
                    if dirty {
                        gui.Update(func(*gocui.Gui) error { return nil })
                        dirty = false
                    }
            }
        }
    })

    err = gui.MainLoop()
    group.Cancel()
    waitErr := group.Wait()

    if err != nil && err != gocui.ErrQuit {
        return err
    }
    return waitErr
}

func parseAddresses(list []string) ([]uint16, error) {
    var out []uint16
    for _, value := range list {
        address, err := strconv.ParseUint(value, 0, 16)
        if err != nil {
            return nil, fmt.Errorf("invalid breakpoint address '%v': %w", value, err)
        }
        if address > uint64(chip8.MaxAddress) {
            return nil, fmt.Errorf("breakpoint address 0x%x: %w", address, chip8.ErrAddressOutOfRange)
        }
        out = append(out, uint16(address))
    }
    return out, nil
}

type breakpointFlag []string

func (flags *breakpointFlag) String() string {
    return fmt.Sprint(*flags)
}

func (flags *breakpointFlag) Set(value string) error {
    *flags = append(*flags, value)
    return nil
}

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds | log.Ldate)

    var breakpoints breakpointFlag
    flag.Var(&breakpoints, "break", "Add a breakpoint at the given address, such as 0x20a. Can be given more than once")
    speed := flag.Int("speed", common.DefaultCyclesPerFrame, "Instructions per 60hz frame")
    seed := flag.Uint64("seed", 0, "Seed for the random number instruction")
    wrap := flag.Bool("wrap", false, "Wrap sprites around the edges of the screen")
    shiftVY := flag.Bool("shift-vy", false, "Shift instructions read vy")
    logPath := flag.String("log", "chip8-debug.log", "Write log messages to this file")

    flag.Parse()

    /* the terminal belongs to gocui, so logging goes to a file */
    logFile, err := os.Create(*logPath)
    if err != nil {
        fmt.Printf("Could not open log file: %v\n", err)
        return
    }
    defer logFile.Close()
    log.SetOutput(logFile)

    var rom chip8.RomFile
    if flag.NArg() > 0 {
        rom, err = chip8.ParseRomFile(flag.Arg(0))
    } else {
        rom, err = chip8.ParseRomFS(data.RomsFS, data.DemoRom)
    }
    if err != nil {
        fmt.Printf("Error: %v\n", err)
        return
    }

    addresses, err := parseAddresses(breakpoints)
    if err != nil {
        fmt.Printf("Error: %v\n", err)
        return
    }

    settings := common.EmulatorSettings{
        CyclesPerFrame: *speed,
        Quirks: chip8.Quirks{
            WrapSprites: *wrap,
            ShiftUsesVY: *shiftVY,
        },
        Seed: *seed,
    }

    err = Run(rom, settings, addresses)
    if err != nil {
        fmt.Printf("Error: %v\n", err)
    }
}
