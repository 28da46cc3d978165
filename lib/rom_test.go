package lib

import (
    "errors"
    "testing"
    "testing/fstest"
)

func TestParseRomFS(test *testing.T){
    filesystem := fstest.MapFS{
        "ok.ch8": &fstest.MapFile{Data: []byte{0x12, 0x00}},
        "empty.ch8": &fstest.MapFile{Data: nil},
        "big.ch8": &fstest.MapFile{Data: make([]byte, MaxRomSize + 1)},
        "max.ch8": &fstest.MapFile{Data: make([]byte, MaxRomSize)},
    }

    rom, err := ParseRomFS(filesystem, "ok.ch8")
    if err != nil {
        test.Fatalf("could not parse rom: %v", err)
    }
    if len(rom.Data) != 2 || rom.Name != "ok.ch8" {
        test.Fatalf("unexpected rom %v %v", rom.Name, rom.Data)
    }
    if len(rom.Hash()) != 64 {
        test.Fatalf("expected a sha256 hex hash but got %v", rom.Hash())
    }

    _, err = ParseRomFS(filesystem, "empty.ch8")
    if err == nil {
        test.Fatalf("empty rom should fail")
    }

    _, err = ParseRomFS(filesystem, "big.ch8")
    if !errors.Is(err, ErrRomTooLarge) {
        test.Fatalf("expected rom too large but got %v", err)
    }

    /* 3586 bytes at 0x200 would run past the end of memory */
    rom, err = ParseRomFS(filesystem, "max.ch8")
    if err != nil {
        test.Fatalf("could not parse rom: %v", err)
    }
    cpu := StartupState()
    err = cpu.LoadRom(rom.Data)
    if !errors.Is(err, ErrRomTooLarge) {
        test.Fatalf("expected rom too large loading %v bytes but got %v", len(rom.Data), err)
    }
}

func TestKeypad(test *testing.T){
    var keypad Keypad
    if _, ok := keypad.LowestPressed(); ok {
        test.Fatalf("no keys should be pressed")
    }

    keypad.Apply(KeyEvent{Key: 0xe, Pressed: true})
    keypad.Apply(KeyEvent{Key: 0x3, Pressed: true})
    key, ok := keypad.LowestPressed()
    if !ok || key != 0x3 {
        test.Fatalf("expected key 3 but got %v %v", key, ok)
    }

    keypad.Apply(KeyEvent{Key: 0x3, Pressed: false})
    if keypad.IsPressed(0x3) || !keypad.IsPressed(0xe) {
        test.Fatalf("release did not update the keypad")
    }

    keypad.ReleaseAll()
    if keypad.IsPressed(0xe) {
        test.Fatalf("release all left a key down")
    }
}

func TestStack(test *testing.T){
    var stack Stack
    for i := 0; i < StackSize; i++ {
        err := stack.Push(uint16(0x200 + i * 2))
        if err != nil {
            test.Fatalf("push %v failed: %v", i, err)
        }
    }

    err := stack.Push(0x400)
    if !errors.Is(err, ErrStackOverflow) {
        test.Fatalf("expected overflow but got %v", err)
    }

    frames := stack.Frames()
    if len(frames) != StackSize || frames[0] != 0x200 {
        test.Fatalf("unexpected frames %v", frames)
    }

    for i := StackSize - 1; i >= 0; i-- {
        address, err := stack.Pop()
        if err != nil {
            test.Fatalf("pop failed: %v", err)
        }
        if address != uint16(0x200 + i * 2) {
            test.Fatalf("expected 0x%x but popped 0x%x", 0x200 + i * 2, address)
        }
    }

    _, err = stack.Pop()
    if !errors.Is(err, ErrStackUnderflow) {
        test.Fatalf("expected underflow but got %v", err)
    }
}
