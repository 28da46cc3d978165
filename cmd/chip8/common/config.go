package common

import (
    "os"
    "log"
    "fmt"
    "errors"
    "encoding/json"
    "path/filepath"

    chip8 "github.com/kazzmir/chip8/lib"
)

const CurrentVersion = 1

const DefaultScale = 10
const DefaultCyclesPerFrame = 10

var ErrInvalidScale error = errors.New("scale must be a positive integer")
var ErrInvalidCycles error = errors.New("cycles per frame must be a positive integer")
var ErrInvalidKeymap error = errors.New("invalid keymap")

/* key names are the names ebiten gives its keys, such as "Digit1", "Q", "Space" or "F5" */
type ConfigKeys struct {
    Turbo string `json:"turbo,omitempty"`
    Pause string `json:"pause,omitempty"`
    HardReset string `json:"hard-reset,omitempty"`
    StepFrame string `json:"step-frame,omitempty"`
    Screenshot string `json:"screenshot,omitempty"`
    Quit string `json:"quit,omitempty"`

    /* Keypad[n] is the keyboard key for chip-8 key n */
    Keypad [chip8.KeyCount]string `json:"keypad"`
}

type ConfigData struct {
    Version int `json:"version,omitempty"`
    Keys ConfigKeys `json:"keys"`
    Scale int `json:"scale,omitempty"`
    CyclesPerFrame int `json:"cycles-per-frame,omitempty"`
    Quirks chip8.Quirks `json:"quirks"`
}

/* The hex keypad
 *   1 2 3 C
 *   4 5 6 D
 *   7 8 9 E
 *   A 0 B F
 * sits on the left side of a qwerty keyboard
 *   1 2 3 4
 *   Q W E R
 *   A S D F
 *   Z X C V
 */
func DefaultKeypad() [chip8.KeyCount]string {
    var keypad [chip8.KeyCount]string
    keypad[0x1] = "Digit1"
    keypad[0x2] = "Digit2"
    keypad[0x3] = "Digit3"
    keypad[0xc] = "Digit4"
    keypad[0x4] = "Q"
    keypad[0x5] = "W"
    keypad[0x6] = "E"
    keypad[0xd] = "R"
    keypad[0x7] = "A"
    keypad[0x8] = "S"
    keypad[0x9] = "D"
    keypad[0xe] = "F"
    keypad[0xa] = "Z"
    keypad[0x0] = "X"
    keypad[0xb] = "C"
    keypad[0xf] = "V"
    return keypad
}

func DefaultKeys() ConfigKeys {
    return ConfigKeys{
        Turbo: "Backquote",
        Pause: "Space",
        HardReset: "F5",
        StepFrame: "F6",
        Screenshot: "F12",
        Quit: "Escape",
        Keypad: DefaultKeypad(),
    }
}

/* every key name in the config, mapped to what it does, so duplicates can be found */
func (keys *ConfigKeys) AllKeys() map[string]string {
    out := make(map[string]string)
    add := func(name string, action string){
        if name != "" {
            out[name] = action
        }
    }
    add(keys.Turbo, "turbo")
    add(keys.Pause, "pause")
    add(keys.HardReset, "hard-reset")
    add(keys.StepFrame, "step-frame")
    add(keys.Screenshot, "screenshot")
    add(keys.Quit, "quit")
    for i, name := range keys.Keypad {
        add(name, fmt.Sprintf("keypad %X", i))
    }
    return out
}

func (config *ConfigData) Validate() error {
    if config.Scale <= 0 {
        return fmt.Errorf("%w: %v", ErrInvalidScale, config.Scale)
    }
    if config.CyclesPerFrame <= 0 {
        return fmt.Errorf("%w: %v", ErrInvalidCycles, config.CyclesPerFrame)
    }

    seen := make(map[string]int)
    for i, name := range config.Keys.Keypad {
        if name == "" {
            return fmt.Errorf("%w: no key for keypad %X", ErrInvalidKeymap, i)
        }
        if other, ok := seen[name]; ok {
            return fmt.Errorf("%w: key %v used for keypad %X and %X", ErrInvalidKeymap, name, other, i)
        }
        seen[name] = i
    }

    return nil
}

/* make the directory where the config file lives, which is ~/.config/chip8 on linux */
func GetOrCreateConfigDir() (string, error) {
    configDir, err := os.UserConfigDir()
    if err != nil {
        return "", err
    }
    configPath := filepath.Join(configDir, "chip8")
    err = os.MkdirAll(configPath, 0755)
    if err != nil {
        return "", err
    }

    return configPath, nil
}

func DefaultConfigData() ConfigData {
    return ConfigData{
        Version: CurrentVersion,
        Keys: DefaultKeys(),
        Scale: DefaultScale,
        CyclesPerFrame: DefaultCyclesPerFrame,
    }
}

/* fill in anything an older or hand written config left out */
func (config *ConfigData) fillDefaults() {
    defaults := DefaultConfigData()
    if config.Scale == 0 {
        config.Scale = defaults.Scale
    }
    if config.CyclesPerFrame == 0 {
        config.CyclesPerFrame = defaults.CyclesPerFrame
    }

    keys := &config.Keys
    if keys.Turbo == "" {
        keys.Turbo = defaults.Keys.Turbo
    }
    if keys.Pause == "" {
        keys.Pause = defaults.Keys.Pause
    }
    if keys.HardReset == "" {
        keys.HardReset = defaults.Keys.HardReset
    }
    if keys.StepFrame == "" {
        keys.StepFrame = defaults.Keys.StepFrame
    }
    if keys.Screenshot == "" {
        keys.Screenshot = defaults.Keys.Screenshot
    }
    if keys.Quit == "" {
        keys.Quit = defaults.Keys.Quit
    }
    if keys.Keypad == [chip8.KeyCount]string{} {
        keys.Keypad = defaults.Keys.Keypad
    }
}

func LoadConfigData() (ConfigData, error) {
    configPath, err := GetOrCreateConfigDir()
    if err != nil {
        return DefaultConfigData(), err
    }
    config := filepath.Join(configPath, "config.json")
    file, err := os.Open(config)
    if err != nil {
        return DefaultConfigData(), err
    }
    defer file.Close()

    var data ConfigData
    decoder := json.NewDecoder(file)
    err = decoder.Decode(&data)
    if err != nil {
        log.Printf("Could not load config data: %v", err)
        return DefaultConfigData(), err
    }

    if data.Version != CurrentVersion {
        return DefaultConfigData(), nil
    }

    data.fillDefaults()

    err = data.Validate()
    if err != nil {
        log.Printf("Ignoring config %v: %v", config, err)
        return DefaultConfigData(), err
    }

    return data, nil
}

/* write config.json in the config dir */
func SaveConfigData(data ConfigData) error {
    configPath, err := GetOrCreateConfigDir()
    if err != nil {
        return err
    }
    config := filepath.Join(configPath, "config.json")

    file, err := os.Create(config)
    if err != nil {
        return err
    }
    defer file.Close()

    encoder := json.NewEncoder(file)
    encoder.SetIndent("", "  ")
    return encoder.Encode(data)
}
