package main

import (
    "fmt"
    "strings"
    "sync"

    "github.com/kazzmir/chip8/cmd/chip8/debug"
    chip8 "github.com/kazzmir/chip8/lib"

    "github.com/jroimartin/gocui"
)

/* what the terminal shows. The emulator goroutine fills it in, gocui reads it in layout */
type DebugView struct {
    lock sync.Mutex
    state chip8.CPUState
    display chip8.Display
    haveState bool
    message string
    debugger debug.Debugger
}

func (view *DebugView) SetState(state chip8.CPUState){
    view.lock.Lock()
    defer view.lock.Unlock()
    view.state = state
    view.display = state.Display
    view.haveState = true
}

func (view *DebugView) SetDisplay(display chip8.Display){
    view.lock.Lock()
    defer view.lock.Unlock()
    view.display = display
}

func (view *DebugView) SetMessage(message string){
    view.lock.Lock()
    defer view.lock.Unlock()
    view.message = message
}

func registerText(state *chip8.CPUState, running bool) string {
    var out strings.Builder
    status := "stopped"
    if running {
        status = "running"
    }
    fmt.Fprintf(&out, "%v\n", status)
    fmt.Fprintf(&out, "PC  %03X   I  %03X\n", state.PC, state.I)
    for i := 0; i < 16; i += 2 {
        fmt.Fprintf(&out, "V%X  %02X    V%X %02X\n", i, state.V[i], i + 1, state.V[i + 1])
    }
    fmt.Fprintf(&out, "DT  %02X    ST %02X\n", state.Timers.Delay, state.Timers.Sound)
    fmt.Fprintf(&out, "cycle %v\n", state.Cycle)
    if state.Timers.SoundActive() {
        fmt.Fprintf(&out, "tone on\n")
    }
    if state.Keypad.Awaiting {
        fmt.Fprintf(&out, "waiting for key -> V%X\n", state.Keypad.AwaitRegister)
    }
    return out.String()
}

func stackText(state *chip8.CPUState) string {
    var out strings.Builder
    frames := state.Stack.Frames()
    for i := len(frames) - 1; i >= 0; i-- {
        fmt.Fprintf(&out, "%2d  %03X\n", i, frames[i])
    }
    return out.String()
}

/* disassemble lines instructions starting a little before the pc. The current
 * instruction is marked with '>' and breakpoints with '*'
 */
func disassemblyText(state *chip8.CPUState, breakpoints []debug.Breakpoint, lines int) string {
    isBreakpoint := make(map[uint16]bool)
    for _, breakpoint := range breakpoints {
        isBreakpoint[breakpoint.PC] = true
    }

    start := int(state.PC) - 2 * (lines / 3)
    if start < 0 {
        start = int(state.PC) % 2
    }

    var out strings.Builder
    for i := 0; i < lines; i++ {
        address := uint16(start + i * 2)
        opcode, err := state.Memory.LoadOpcode(address)
        if err != nil {
            break
        }
        instruction := chip8.Decode(opcode)

        marker := " "
        if address == state.PC {
            marker = ">"
        }
        mark := " "
        if isBreakpoint[address] {
            mark = "*"
        }
        fmt.Fprintf(&out, "%v%v %03X: %04X  %v\n", mark, marker, address, opcode, instruction.String())
    }

    return out.String()
}

const helpText = "F10 step  F5 continue  F6 stop  F9 breakpoint  1234 qwer asdf zxcv keypad  ctrl-c quit"

func setView(gui *gocui.Gui, name string, x0, y0, x1, y1 int, title string) (*gocui.View, error) {
    view, err := gui.SetView(name, x0, y0, x1, y1)
    if err != nil && err != gocui.ErrUnknownView {
        return nil, err
    }
    view.Title = title
    view.Clear()
    return view, nil
}

func (view *DebugView) Layout(gui *gocui.Gui) error {
    view.lock.Lock()
    defer view.lock.Unlock()

    maxX, maxY := gui.Size()
    running := !view.debugger.IsStopped()

    screenWidth := chip8.DisplayWidth + 1
    screenHeight := chip8.DisplayHeight / 2 + 1

    if maxX < screenWidth + 24 || maxY < screenHeight + 8 {
        return fmt.Errorf("terminal is %vx%v, need at least %vx%v", maxX, maxY, screenWidth + 24, screenHeight + 8)
    }

    screen, err := setView(gui, "screen", 0, 0, screenWidth, screenHeight, "screen")
    if err != nil {
        return err
    }
    fmt.Fprint(screen, view.display.String())

    registers, err := setView(gui, "registers", screenWidth + 1, 0, maxX - 1, screenHeight, "registers")
    if err != nil {
        return err
    }

    codeBottom := maxY - 4
    if codeBottom <= screenHeight + 2 {
        codeBottom = screenHeight + 3
    }

    code, err := setView(gui, "code", 0, screenHeight + 1, screenWidth, codeBottom, "code")
    if err != nil {
        return err
    }

    stack, err := setView(gui, "stack", screenWidth + 1, screenHeight + 1, maxX - 1, codeBottom, "stack")
    if err != nil {
        return err
    }

    if view.haveState {
        fmt.Fprint(registers, registerText(&view.state, running))
        fmt.Fprint(stack, stackText(&view.state))
        _, codeLines := code.Size()
        fmt.Fprint(code, disassemblyText(&view.state, view.debugger.GetBreakpoints(), codeLines))
    }

    help, err := setView(gui, "help", 0, codeBottom + 1, maxX - 1, codeBottom + 3, "")
    if err != nil {
        return err
    }
    if view.message != "" {
        fmt.Fprint(help, view.message)
    } else {
        fmt.Fprint(help, helpText)
    }

    return nil
}
