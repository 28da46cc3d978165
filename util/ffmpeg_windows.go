package util

import (
    "errors"
    "context"

    chip8 "github.com/kazzmir/chip8/lib"
)

var UnsupportedError = errors.New("Unsupported")

func RecordVideo(mainQuit context.Context, videoPath string, scale int, frames <-chan chip8.Display) error {
    return UnsupportedError
}
