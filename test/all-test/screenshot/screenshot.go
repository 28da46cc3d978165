package screenshot

import (
    get_screenshot "github.com/kazzmir/chip8/test/screenshot"
    "github.com/kazzmir/chip8/data"
    "io/fs"
    "path"
    "regexp"
    "strconv"
    "log"

    test_utils "github.com/kazzmir/chip8/test/all-test/utils"
)

/* every screenshots/<rom>-<cycles>.txt holds the screen that roms/<rom>.ch8 shows after running for <cycles> */

func findScreenshots() ([]string, error) {
    return fs.Glob(data.ScreenshotFS, "screenshots/*.txt")
}

func testScreenshot(screenshot string) (bool, error) {
    pattern := "(.*)-(\\d+)\\.txt"
    regex := regexp.MustCompile(pattern)
    matches := regex.FindStringSubmatch(path.Base(screenshot))
    if matches == nil {
        return true, nil
    }

    romName := matches[1]
    cycles, err := strconv.ParseUint(matches[2], 10, 64)
    if err != nil {
        return false, err
    }

    expected, err := fs.ReadFile(data.ScreenshotFS, screenshot)
    if err != nil {
        return false, err
    }

    log.Printf("Test rom %v cycles %v", romName, cycles)

    display, err := get_screenshot.Run(data.RomsFS, "roms/" + romName + ".ch8", cycles)
    if err != nil {
        return false, err
    }

    ok := display.String() == string(expected)
    if !ok {
        log.Printf("Got\n%v", display.String())
    }
    log.Print(test_utils.Result(screenshot, ok))

    return ok, nil
}

func Run(debug bool) (bool, error) {
    screenshots, err := findScreenshots()
    if err != nil {
        return false, err
    }

    allOk := true
    for _, screenshot := range screenshots {
        ok, err := testScreenshot(screenshot)
        if err != nil {
            return false, err
        }
        if !ok {
            allOk = false
        }
    }

    return allOk, nil
}
