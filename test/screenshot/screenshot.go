package screenshot

import (
    "image"
    "image/color"
    "io/fs"

    chip8 "github.com/kazzmir/chip8/lib"
)

/* instructions per timer tick when running headless */
const CyclesPerFrame = 10

func ScreenToImage(display chip8.Display) image.Image {
    white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
    black := color.RGBA{R: 0, G: 0, B: 0, A: 255}
    return display.ToImage(white, black)
}

/* Run a rom for maxCycles without any input and return the machine. The random
 * number generator is seeded with a fixed value so the result is repeatable.
 */
func RunMachine(filesystem fs.FS, rom string, maxCycles uint64) (chip8.CPUState, error) {
    romFile, err := chip8.ParseRomFS(filesystem, rom)
    if err != nil {
        return chip8.CPUState{}, err
    }

    cpu := chip8.StartupState()
    cpu.SetSeed(1)
    err = cpu.LoadRom(romFile.Data)
    if err != nil {
        return chip8.CPUState{}, err
    }

    for cpu.Cycle < maxCycles {
        err := cpu.Step()
        if err != nil {
            return cpu, err
        }

        if cpu.Cycle % CyclesPerFrame == 0 {
            cpu.Timers.Tick()
        }
    }

    return cpu, nil
}

/* Run a rom for maxCycles and return the screen */
func Run(filesystem fs.FS, rom string, maxCycles uint64) (chip8.Display, error) {
    cpu, err := RunMachine(filesystem, rom, maxCycles)
    if err != nil {
        return chip8.Display{}, err
    }
    return cpu.Display, nil
}
