package data

import (
    "embed"
    "io/fs"
)

/* roms/ holds the demo rom that runs when no rom is given and the self test roms.
 * screenshots/ holds the expected text rendering of the screen for some of those
 * roms, named <rom>-<cycles>.txt
 */

//go:embed roms/*
var RomsFS embed.FS

//go:embed screenshots/*
var ScreenshotFS embed.FS

const DemoRom = "roms/demo.ch8"

/* names of all the embedded roms, relative to RomsFS */
func RomNames() ([]string, error) {
    return fs.Glob(RomsFS, "roms/*.ch8")
}
