package main

import (
    "errors"
    "testing"

    "github.com/kazzmir/chip8/cmd/chip8/common"
    chip8 "github.com/kazzmir/chip8/lib"

    "github.com/hajimehoshi/ebiten/v2"
)

func TestParseKeyName(test *testing.T){
    tests := []struct {
        name string
        key ebiten.Key
    }{
        {"A", ebiten.KeyA},
        {"q", ebiten.KeyQ},
        {"KeyV", ebiten.KeyV},
        {"Digit1", ebiten.KeyDigit1},
        {"space", ebiten.KeySpace},
        {"F5", ebiten.KeyF5},
        {"Escape", ebiten.KeyEscape},
    }

    for _, check := range tests {
        key, err := ParseKeyName(check.name)
        if err != nil {
            test.Fatalf("could not parse '%v': %v", check.name, err)
        }
        if key != check.key {
            test.Fatalf("'%v' parsed as %v instead of %v", check.name, key, check.key)
        }
    }

    _, err := ParseKeyName("NotAKey")
    if !errors.Is(err, common.ErrInvalidKeymap) {
        test.Fatalf("expected an invalid keymap error but got %v", err)
    }
}

func TestDefaultKeyMapping(test *testing.T){
    mapping, err := MakeKeyMapping(common.DefaultKeys())
    if err != nil {
        test.Fatalf("could not make the default key mapping: %v", err)
    }

    if len(mapping.Keypad) != chip8.KeyCount {
        test.Fatalf("expected %v keypad keys but got %v", chip8.KeyCount, len(mapping.Keypad))
    }

    if mapping.Keypad[ebiten.KeyX] != 0x0 || mapping.Keypad[ebiten.KeyDigit4] != 0xc || mapping.Keypad[ebiten.KeyV] != 0xf {
        test.Fatalf("unexpected keypad mapping %v", mapping.Keypad)
    }

    if mapping.Actions[ebiten.KeyEscape] != HostActionQuit {
        test.Fatalf("escape should quit")
    }

    events := mapping.KeypadEvents([]ebiten.Key{ebiten.KeyW, ebiten.KeyEnter}, []ebiten.Key{ebiten.KeyA})
    if len(events) != 2 {
        test.Fatalf("expected 2 keypad events but got %v", events)
    }
    if events[0] != (chip8.KeyEvent{Key: 0x5, Pressed: true}) {
        test.Fatalf("expected key 5 pressed but got %+v", events[0])
    }
    if events[1] != (chip8.KeyEvent{Key: 0x7, Pressed: false}) {
        test.Fatalf("expected key 7 released but got %+v", events[1])
    }
}

func TestKeyMappingConflict(test *testing.T){
    keys := common.DefaultKeys()
    keys.Pause = "Q"
    _, err := MakeKeyMapping(keys)
    if !errors.Is(err, common.ErrInvalidKeymap) {
        test.Fatalf("expected a conflict between pause and the keypad but got %v", err)
    }
}

func TestTurboIsHeld(test *testing.T){
    mapping, err := MakeKeyMapping(common.DefaultKeys())
    if err != nil {
        test.Fatalf("default keys failed: %v", err)
    }

    events := mapping.HostEvents([]ebiten.Key{ebiten.KeyBackquote, ebiten.KeySpace, ebiten.KeyQ}, nil)
    if len(events) != 2 {
        test.Fatalf("expected 2 action events but got %v", events)
    }
    if events[0] != (HostEvent{Action: HostActionTurbo, Pressed: true}) {
        test.Fatalf("expected turbo to start but got %v", events[0])
    }
    if events[1] != (HostEvent{Action: HostActionPause, Pressed: true}) {
        test.Fatalf("expected pause but got %v", events[1])
    }

    /* letting go of turbo ends it, letting go of pause does nothing */
    events = mapping.HostEvents(nil, []ebiten.Key{ebiten.KeyBackquote, ebiten.KeySpace})
    if len(events) != 1 || events[0] != (HostEvent{Action: HostActionTurbo, Pressed: false}) {
        test.Fatalf("expected only the turbo release but got %v", events)
    }
}
