package main

import (
    "bytes"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/fatih/color"
)

func TestDisassemble(test *testing.T){
    color.NoColor = true

    var output bytes.Buffer
    err := disassemble(&output, []byte{0x00, 0xe0, 0xa2, 0x2a, 0xd0, 0x15, 0x12, 0x00, 0x80})
    if err != nil {
        test.Fatalf("disassemble failed: %v", err)
    }

    expected := []string{
        "200: 00E0  cls",
        "202: A22A  ld I, $22A",
        "204: D015  drw V0, V1, $5",
        "206: 1200  jp $200",
        "208: 80",
    }

    lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
    if len(lines) != len(expected) {
        test.Fatalf("expected %v lines but got %v:\n%v", len(expected), len(lines), output.String())
    }
    for i := range expected {
        if lines[i] != expected[i] {
            test.Fatalf("line %v: expected '%v' but got '%v'", i, expected[i], lines[i])
        }
    }
}

func TestFindRoms(test *testing.T){
    root := test.TempDir()
    os.MkdirAll(filepath.Join(root, "games"), 0755)
    os.WriteFile(filepath.Join(root, "games", "pong.ch8"), []byte{0x12, 0x00}, 0644)
    os.WriteFile(filepath.Join(root, "games", "brix.CH8"), []byte{0x12, 0x00, 0x00, 0xe0}, 0644)
    os.WriteFile(filepath.Join(root, "readme.txt"), []byte("hi"), 0644)
    os.WriteFile(filepath.Join(root, "empty.ch8"), nil, 0644)

    roms, err := getRoms(root)
    if err != nil {
        test.Fatalf("could not find roms: %v", err)
    }
    if roms.Size() != 2 {
        test.Fatalf("expected 2 roms but found %v", roms.Size())
    }

    var output bytes.Buffer
    err = displayRoms(&output, root, "PONG")
    if err != nil {
        test.Fatalf("display failed: %v", err)
    }
    if !strings.Contains(output.String(), "Found 1 ROMs") || !strings.Contains(output.String(), "pong.ch8 2 bytes") {
        test.Fatalf("unexpected output:\n%v", output.String())
    }
}
