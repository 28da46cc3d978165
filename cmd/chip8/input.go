package main

import (
    "fmt"
    "strings"

    "github.com/kazzmir/chip8/cmd/chip8/common"
    chip8 "github.com/kazzmir/chip8/lib"

    "github.com/hajimehoshi/ebiten/v2"
)

/* things the host keyboard can do besides pressing chip-8 keys */
type HostAction int
const (
    HostActionTurbo HostAction = iota
    HostActionPause
    HostActionHardReset
    HostActionStepFrame
    HostActionScreenshot
    HostActionQuit
)

/* a host action key going down or coming back up */
type HostEvent struct {
    Action HostAction
    Pressed bool
}

type KeyMapping struct {
    Keypad map[ebiten.Key]chip8.Key
    Actions map[ebiten.Key]HostAction
}

/* find the ebiten key with the given name, ignoring case. "KeyA" and "A" both work */
func ParseKeyName(name string) (ebiten.Key, error) {
    search := func(name string) (ebiten.Key, bool) {
        for key := ebiten.Key(0); key <= ebiten.KeyMax; key++ {
            if strings.EqualFold(key.String(), name) {
                return key, true
            }
        }
        return 0, false
    }

    if key, ok := search(name); ok {
        return key, nil
    }

    if len(name) > 3 && strings.EqualFold(name[:3], "key") {
        if key, ok := search(name[3:]); ok {
            return key, nil
        }
    }

    return 0, fmt.Errorf("%w: unknown key name '%v'", common.ErrInvalidKeymap, name)
}

func MakeKeyMapping(keys common.ConfigKeys) (KeyMapping, error) {
    mapping := KeyMapping{
        Keypad: make(map[ebiten.Key]chip8.Key),
        Actions: make(map[ebiten.Key]HostAction),
    }

    for i, name := range keys.Keypad {
        key, err := ParseKeyName(name)
        if err != nil {
            return KeyMapping{}, err
        }
        mapping.Keypad[key] = chip8.Key(i)
    }

    actions := []struct {
        name string
        action HostAction
    }{
        {keys.Turbo, HostActionTurbo},
        {keys.Pause, HostActionPause},
        {keys.HardReset, HostActionHardReset},
        {keys.StepFrame, HostActionStepFrame},
        {keys.Screenshot, HostActionScreenshot},
        {keys.Quit, HostActionQuit},
    }

    for _, action := range actions {
        if action.name == "" {
            continue
        }
        key, err := ParseKeyName(action.name)
        if err != nil {
            return KeyMapping{}, err
        }
        if _, ok := mapping.Keypad[key]; ok {
            return KeyMapping{}, fmt.Errorf("%w: %v is bound to the keypad", common.ErrInvalidKeymap, action.name)
        }
        mapping.Actions[key] = action.action
    }

    return mapping, nil
}

/* translate host key transitions into keypad events. Keys that are not mapped are ignored */
func (mapping *KeyMapping) KeypadEvents(pressed []ebiten.Key, released []ebiten.Key) []chip8.KeyEvent {
    var out []chip8.KeyEvent
    for _, key := range pressed {
        if value, ok := mapping.Keypad[key]; ok {
            out = append(out, chip8.KeyEvent{Key: value, Pressed: true})
        }
    }
    for _, key := range released {
        if value, ok := mapping.Keypad[key]; ok {
            out = append(out, chip8.KeyEvent{Key: value, Pressed: false})
        }
    }
    return out
}

/* translate host key transitions into action events. Only turbo cares about releases,
 * it lasts as long as its key is held down.
 */
func (mapping *KeyMapping) HostEvents(pressed []ebiten.Key, released []ebiten.Key) []HostEvent {
    var out []HostEvent
    for _, key := range pressed {
        if action, ok := mapping.Actions[key]; ok {
            out = append(out, HostEvent{Action: action, Pressed: true})
        }
    }
    for _, key := range released {
        if action, ok := mapping.Actions[key]; ok && action == HostActionTurbo {
            out = append(out, HostEvent{Action: action, Pressed: false})
        }
    }
    return out
}
