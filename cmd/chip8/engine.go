package main

import (
    "context"
    "fmt"
    "image/color"
    "image/png"
    "log"
    "os"
    "time"

    "github.com/kazzmir/chip8/cmd/chip8/common"
    chip8 "github.com/kazzmir/chip8/lib"

    "github.com/hajimehoshi/ebiten/v2"
    "github.com/hajimehoshi/ebiten/v2/inpututil"
)

var PixelOn = color.RGBA{R: 0xe0, G: 0xf0, B: 0xe0, A: 0xff}
var PixelOff = color.RGBA{R: 0x10, G: 0x18, B: 0x10, A: 0xff}

/* The ebiten side of the emulator. It never touches the machine directly: key
 * presses go out on the keys channel, finished frames come back on toDraw.
 */
type Chip8Engine struct {
    quit context.Context
    cancel context.CancelFunc

    keyMapping KeyMapping
    keys chan<- chip8.KeyEvent
    emulatorActions chan<- common.EmulatorAction
    toDraw <-chan chip8.Display
    failures <-chan error

    scale int
    display chip8.Display
    image *ebiten.Image
    pixels []byte

    overlay *Overlay
    paused bool
    err error

    pressed []ebiten.Key
    released []ebiten.Key
}

func MakeChip8Engine(quit context.Context, cancel context.CancelFunc, keyMapping KeyMapping, scale int,
                     keys chan<- chip8.KeyEvent, emulatorActions chan<- common.EmulatorAction,
                     toDraw <-chan chip8.Display, failures <-chan error, overlay *Overlay) *Chip8Engine {
    return &Chip8Engine{
        quit: quit,
        cancel: cancel,
        keyMapping: keyMapping,
        keys: keys,
        emulatorActions: emulatorActions,
        toDraw: toDraw,
        failures: failures,
        scale: scale,
        image: ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight),
        pixels: make([]byte, chip8.DisplayWidth * chip8.DisplayHeight * 4),
        overlay: overlay,
    }
}

func (engine *Chip8Engine) sendAction(action common.EmulatorAction){
    select {
        case engine.emulatorActions <- action:
        default:
            log.Printf("Warning: emulator action %v dropped", action)
    }
}

func (engine *Chip8Engine) saveScreenshot() error {
    path := fmt.Sprintf("chip8-%v.png", time.Now().Unix())
    file, err := os.Create(path)
    if err != nil {
        return err
    }
    defer file.Close()

    err = png.Encode(file, engine.display.ToImage(PixelOn, PixelOff))
    if err != nil {
        return err
    }

    log.Printf("Saved screenshot to %v", path)
    return nil
}

func (engine *Chip8Engine) doAction(event HostEvent) error {
    if !event.Pressed {
        if event.Action == HostActionTurbo {
            engine.sendAction(common.EmulatorNormal)
        }
        return nil
    }

    switch event.Action {
        case HostActionQuit:
            engine.cancel()
            return ebiten.Termination
        case HostActionTurbo:
            engine.sendAction(common.EmulatorTurbo)
        case HostActionPause:
            engine.paused = !engine.paused
            engine.sendAction(common.EmulatorTogglePause)
        case HostActionStepFrame:
            engine.paused = true
            engine.sendAction(common.EmulatorStepFrame)
        case HostActionHardReset:
            if engine.err != nil {
                /* the emulator restarts from scratch after a failure */
                engine.err = nil
                engine.paused = false
            }
            engine.sendAction(common.EmulatorHardReset)
        case HostActionScreenshot:
            err := engine.saveScreenshot()
            if err != nil {
                log.Printf("Could not save screenshot: %v", err)
            }
    }

    return nil
}

func (engine *Chip8Engine) Update() error {
    if engine.quit.Err() != nil {
        return ebiten.Termination
    }

    select {
        case display := <-engine.toDraw:
            engine.display = display
            engine.display.FillRGBA(engine.pixels,
                                    [4]byte{PixelOn.R, PixelOn.G, PixelOn.B, PixelOn.A},
                                    [4]byte{PixelOff.R, PixelOff.G, PixelOff.B, PixelOff.A})
            engine.image.WritePixels(engine.pixels)
        default:
    }

    select {
        case err := <-engine.failures:
            log.Printf("Emulator stopped: %v", err)
            engine.err = err
        default:
    }

    engine.pressed = inpututil.AppendJustPressedKeys(engine.pressed[:0])
    engine.released = inpututil.AppendJustReleasedKeys(engine.released[:0])

    for _, event := range engine.keyMapping.KeypadEvents(engine.pressed, engine.released) {
        select {
            case engine.keys <- event:
            default:
                log.Printf("Warning: key event dropped")
        }
    }

    for _, event := range engine.keyMapping.HostEvents(engine.pressed, engine.released) {
        err := engine.doAction(event)
        if err != nil {
            return err
        }
    }

    return nil
}

func (engine *Chip8Engine) statusLines() []string {
    if engine.err != nil {
        return []string{"Error", engine.err.Error()}
    }
    if engine.paused {
        return []string{"Paused"}
    }
    return nil
}

func (engine *Chip8Engine) Draw(screen *ebiten.Image) {
    var options ebiten.DrawImageOptions
    options.GeoM.Scale(float64(engine.scale), float64(engine.scale))
    screen.DrawImage(engine.image, &options)

    background := color.NRGBA{R: 0, G: 0, B: 0, A: 180}
    if engine.err != nil {
        background = color.NRGBA{R: 200, G: 0, B: 0, A: 200}
    }
    engine.overlay.Draw(screen, engine.statusLines(), background)
}

func (engine *Chip8Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
    return chip8.DisplayWidth * engine.scale, chip8.DisplayHeight * engine.scale
}
