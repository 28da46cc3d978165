package lib

import (
    "image"
    "image/color"
    "strings"
)

const DisplayWidth = 64
const DisplayHeight = 32

type Display struct {
    Pixels [DisplayWidth * DisplayHeight]bool
    Redraw bool
}

func (display *Display) Clear() {
    display.Pixels = [DisplayWidth * DisplayHeight]bool{}
    display.Redraw = true
}

func (display *Display) Pixel(x int, y int) bool {
    if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
        return false
    }
    return display.Pixels[y * DisplayWidth + x]
}

/* xor the sprite onto the screen with its top left corner at (x, y). Each byte of
 * the sprite is one row of 8 pixels, most significant bit leftmost.
 * The origin always wraps. Pixels that run off the right or bottom edge are
 * either wrapped around to the other side or dropped.
 * Returns true if any pixel that was on got turned off.
 */
func (display *Display) DrawSprite(sprite []byte, x byte, y byte, wrap bool) bool {
    originX := int(x) % DisplayWidth
    originY := int(y) % DisplayHeight
    collision := false

    for row, data := range sprite {
        py := originY + row
        if py >= DisplayHeight {
            if !wrap {
                break
            }
            py = py % DisplayHeight
        }

        for column := 0; column < 8; column++ {
            if data & (0x80 >> column) == 0 {
                continue
            }

            px := originX + column
            if px >= DisplayWidth {
                if !wrap {
                    break
                }
                px = px % DisplayWidth
            }

            index := py * DisplayWidth + px
            if display.Pixels[index] {
                collision = true
            }
            display.Pixels[index] = !display.Pixels[index]
        }
    }

    display.Redraw = true
    return collision
}

func (display *Display) NeedsRedraw() bool {
    return display.Redraw
}

/* called by the renderer once it has taken a frame */
func (display *Display) ConsumeRedraw() bool {
    redraw := display.Redraw
    display.Redraw = false
    return redraw
}

func (display *Display) Copy() Display {
    return *display
}

func (display *Display) CountLit() int {
    count := 0
    for _, on := range display.Pixels {
        if on {
            count += 1
        }
    }
    return count
}

/* write the screen as RGBA bytes, 4 bytes per pixel, into pixels */
func (display *Display) FillRGBA(pixels []byte, on [4]byte, off [4]byte) {
    for i, lit := range display.Pixels {
        use := off
        if lit {
            use = on
        }
        copy(pixels[i*4:i*4+4], use[:])
    }
}

/* convert the screen to an image with one image pixel per screen pixel */
func (display *Display) ToImage(on color.RGBA, off color.RGBA) *image.RGBA {
    out := image.NewRGBA(image.Rect(0, 0, DisplayWidth, DisplayHeight))
    display.FillRGBA(out.Pix, [4]byte{on.R, on.G, on.B, on.A}, [4]byte{off.R, off.G, off.B, off.A})
    return out
}

/* render the screen as text, two pixel rows per line using half block characters */
func (display *Display) String() string {
    var out strings.Builder
    for y := 0; y < DisplayHeight; y += 2 {
        for x := 0; x < DisplayWidth; x++ {
            top := display.Pixel(x, y)
            bottom := display.Pixel(x, y + 1)
            switch {
                case top && bottom: out.WriteRune('█')
                case top: out.WriteRune('▀')
                case bottom: out.WriteRune('▄')
                default: out.WriteRune(' ')
            }
        }
        out.WriteRune('\n')
    }
    return out.String()
}
