//go:build !windows

package util

import (
    "testing"

    chip8 "github.com/kazzmir/chip8/lib"
)

func TestDisplayToGray(test *testing.T){
    var display chip8.Display
    display.DrawSprite([]byte{0x80}, 3, 1, false)

    gray := DisplayToGray(&display, nil)
    if len(gray) != chip8.DisplayWidth * chip8.DisplayHeight {
        test.Fatalf("expected %v bytes but got %v", chip8.DisplayWidth * chip8.DisplayHeight, len(gray))
    }

    for i, value := range gray {
        expected := byte(0)
        if i == 1 * chip8.DisplayWidth + 3 {
            expected = 255
        }
        if value != expected {
            test.Fatalf("byte %v: expected %v but got %v", i, expected, value)
        }
    }

    /* the buffer is reused */
    again := DisplayToGray(&display, gray)
    if &again[0] != &gray[0] {
        test.Fatalf("buffer was not reused")
    }
}
