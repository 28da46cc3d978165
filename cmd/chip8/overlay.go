package main

import (
    "bytes"
    "image/color"

    "github.com/hajimehoshi/ebiten/v2"
    "github.com/hajimehoshi/ebiten/v2/text/v2"
    "github.com/hajimehoshi/ebiten/v2/vector"
    "golang.org/x/image/font/gofont/goregular"
)

func loadFontSource() (*text.GoTextFaceSource, error) {
    return text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
}

/* draws a few lines of status text, such as 'Paused', over the screen */
type Overlay struct {
    font text.Face
}

func MakeOverlay(source *text.GoTextFaceSource, size float64) *Overlay {
    return &Overlay{
        font: &text.GoTextFace{
            Source: source,
            Size: size,
        },
    }
}

func (overlay *Overlay) Draw(screen *ebiten.Image, lines []string, background color.Color) {
    if len(lines) == 0 {
        return
    }

    _, fontHeight := text.Measure("A", overlay.font, 1)

    height := float32((fontHeight + 2) * float64(len(lines)) + 4)
    vector.FillRect(screen, 0, 0, float32(screen.Bounds().Dx()), height, background, false)
    vector.StrokeLine(screen, 0, height, float32(screen.Bounds().Dx()), height, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 200}, false)

    var textOptions text.DrawOptions
    textOptions.GeoM.Translate(3, 2)
    for _, line := range lines {
        text.Draw(screen, line, overlay.font, &textOptions)
        textOptions.GeoM.Translate(0, fontHeight + 2)
    }
}
