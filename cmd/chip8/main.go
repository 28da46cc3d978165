package main

import (
    "context"
    "errors"
    "fmt"
    "io/fs"
    "log"
    "os"
    "path"
    "strconv"
    "strings"

    "github.com/kazzmir/chip8/cmd/chip8/common"
    "github.com/kazzmir/chip8/cmd/chip8/thread"
    "github.com/kazzmir/chip8/data"
    chip8 "github.com/kazzmir/chip8/lib"
    "github.com/kazzmir/chip8/util"

    "github.com/hajimehoshi/ebiten/v2"
    audiolib "github.com/hajimehoshi/ebiten/v2/audio"
)

/* the embedded rom called name, with or without the .ch8 extension */
func findEmbeddedRom(name string) (string, bool) {
    names, err := data.RomNames()
    if err != nil {
        return "", false
    }
    for _, rom := range names {
        base := path.Base(rom)
        if base == name || strings.TrimSuffix(base, path.Ext(base)) == name {
            return rom, true
        }
    }
    return "", false
}

func embeddedRomList() string {
    names, err := data.RomNames()
    if err != nil {
        return ""
    }
    var out []string
    for _, rom := range names {
        base := path.Base(rom)
        out = append(out, strings.TrimSuffix(base, path.Ext(base)))
    }
    return strings.Join(out, " ")
}

func loadProgram(romPath string) (chip8.RomFile, error) {
    if romPath == "" {
        log.Printf("No rom given, running the demo. Press 1-4, q-r, a-f or z-v")
        return chip8.ParseRomFS(data.RomsFS, data.DemoRom)
    }

    file := common.FindFile(romPath)
    if !common.FileExists(file) {
        if embedded, ok := findEmbeddedRom(romPath); ok {
            log.Printf("Running the built in rom %v", embedded)
            return chip8.ParseRomFS(data.RomsFS, embedded)
        }
    }

    return chip8.ParseRomFile(file)
}

/* pass each frame on to the window, and to the recorder if there is one.
 * Neither side is allowed to block the emulator.
 */
func teeFrames(quit context.Context, frames <-chan chip8.Display, toDraw chan chip8.Display, record chan chip8.Display){
    for {
        select {
            case <-quit.Done():
                return
            case display := <-frames:
                select {
                    case toDraw <- display:
                    default:
                        select {
                            case <-toDraw:
                            default:
                        }
                        toDraw <- display
                }
                if record != nil {
                    select {
                        case record <- display:
                        default:
                            log.Printf("Recorder is behind, dropping a frame")
                    }
                }
        }
    }
}

func Run(romPath string, config common.ConfigData, settings common.EmulatorSettings, recordPath string) error {
    rom, err := loadProgram(romPath)
    if err != nil {
        return err
    }

    keyMapping, err := MakeKeyMapping(config.Keys)
    if err != nil {
        return err
    }

    cpu, err := common.SetupCPU(rom.Data, settings)
    if err != nil {
        return err
    }

    fontSource, err := loadFontSource()
    if err != nil {
        return err
    }

    group := thread.NewThreadGroup(context.Background())
    defer group.Cancel()

    keys := make(chan chip8.KeyEvent, 32)
    emulatorActions := make(chan common.EmulatorAction, 5)
    frames := make(chan chip8.Display, 1)
    toDraw := make(chan chip8.Display, 1)
    tone := make(chan bool, 1)
    failures := make(chan error, 1)

    verbose := 0
    if settings.Debug {
        verbose = 1
    }

    group.SpawnWithCancel(func(quit context.Context, cancel context.CancelFunc){
        err := common.RunChip8UntilQuit(quit, &cpu, rom.Data, settings, keys, frames, tone, emulatorActions, failures, verbose)
        if errors.Is(err, common.MaxCyclesReached) {
            cancel()
            return
        }
        if err != nil {
            log.Printf("Emulator error: %v", err)
            cancel()
        }
    })

    var record chan chip8.Display
    if recordPath != "" {
        record = make(chan chip8.Display, 30)
        group.Spawn(func(){
            err := util.RecordVideo(group.Context(), recordPath, config.Scale, record)
            if err != nil {
                log.Printf("Could not record: %v", err)
            }
        })
    }

    group.Spawn(func(){
        teeFrames(group.Context(), frames, toDraw, record)
    })

    audio := audiolib.NewContext(AudioSampleRate)
    stream := MakeToneStream(AudioSampleRate, ToneFrequency)
    group.Spawn(func(){
        runAudio(group.Context(), audio, stream, tone)
    })

    engine := MakeChip8Engine(group.Context(), group.Cancel, keyMapping, config.Scale, keys, emulatorActions, toDraw, failures, MakeOverlay(fontSource, float64(config.Scale) * 1.6))

    ebiten.SetWindowTitle(fmt.Sprintf("chip8 - %v", rom.Name))
    ebiten.SetWindowSize(chip8.DisplayWidth * config.Scale, chip8.DisplayHeight * config.Scale)
    ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
    ebiten.SetTPS(chip8.TimerFrequency)

    err = ebiten.RunGame(engine)

    group.Cancel()
    group.Wait()

    return err
}

func parseIntArgument(name string, argIndex int) int {
    if argIndex >= len(os.Args) {
        log.Fatalf("Expected an integer argument for %v", name)
    }
    value, err := strconv.ParseInt(os.Args[argIndex], 10, 64)
    if err != nil {
        log.Fatalf("Error reading %v argument: %v", name, err)
    }
    return int(value)
}

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds | log.Ldate)

    config, err := common.LoadConfigData()
    if err != nil && !errors.Is(err, fs.ErrNotExist) {
        log.Printf("Using the default config: %v", err)
    }

    var romPath string
    var debug bool
    var maxCycles uint64
    var seed uint64
    var saveConfig bool
    var recordPath string

    argIndex := 1
    for argIndex < len(os.Args) {
        arg := os.Args[argIndex]
        switch arg {
            case "-debug", "--debug":
                debug = true
            case "-size", "--size":
                argIndex += 1
                config.Scale = parseIntArgument("-size", argIndex)
            case "-speed", "--speed":
                argIndex += 1
                config.CyclesPerFrame = parseIntArgument("-speed", argIndex)
            case "-cycles", "--cycles":
                argIndex += 1
                if argIndex >= len(os.Args) {
                    log.Fatalf("Expected a number of cycles")
                }
                maxCycles, err = strconv.ParseUint(os.Args[argIndex], 10, 64)
                if err != nil {
                    log.Fatalf("Error parsing cycles: %v", err)
                }
            case "-seed", "--seed":
                argIndex += 1
                if argIndex >= len(os.Args) {
                    log.Fatalf("Expected a seed")
                }
                seed, err = strconv.ParseUint(os.Args[argIndex], 10, 64)
                if err != nil {
                    log.Fatalf("Error parsing seed: %v", err)
                }
            case "-wrap", "--wrap":
                config.Quirks.WrapSprites = true
            case "-shift-vy", "--shift-vy":
                config.Quirks.ShiftUsesVY = true
            case "-record", "--record":
                argIndex += 1
                if argIndex >= len(os.Args) {
                    log.Fatalf("Expected a path to record to")
                }
                recordPath = os.Args[argIndex]
            case "-save-config", "--save-config":
                saveConfig = true
            case "-h", "-help", "--help":
                fmt.Printf("chip8 [-size n] [-speed cycles-per-frame] [-cycles max] [-seed n] [-wrap] [-shift-vy] [-debug] [-record out.mp4] [-save-config] [rom.ch8]\n")
                fmt.Printf("Built in roms: %v\n", embeddedRomList())
                return
            default:
                romPath = arg
        }

        argIndex += 1
    }

    err = config.Validate()
    if err != nil {
        log.Fatalf("Error: %v", err)
    }

    if saveConfig {
        err = common.SaveConfigData(config)
        if err != nil {
            log.Printf("Could not save config: %v", err)
        }
    }

    settings := common.EmulatorSettings{
        CyclesPerFrame: config.CyclesPerFrame,
        Quirks: config.Quirks,
        MaxCycles: maxCycles,
        Debug: debug,
        Seed: seed,
    }

    err = Run(romPath, config, settings, recordPath)
    if err != nil {
        log.Printf("Error: %v", err)
    }
    log.Printf("Bye")
}
