package main

/* Run a rom headless and write what the screen shows, as the text the screenshot
 * tests compare against and optionally as a png.
 */

import (
    "os"
    "log"
    "fmt"
    "flag"
    "path/filepath"

    "github.com/kazzmir/chip8/test/screenshot"
    chip8 "github.com/kazzmir/chip8/lib"

    "image/png"
)

func removeExtension(path string) string {
    extension := filepath.Ext(path)
    return path[0:len(path)-len(extension)]
}

func saveScreen(directory string, rom string, maxCycles uint64, display chip8.Display, savePng bool) error {
    romName := removeExtension(filepath.Base(rom))
    textPath := filepath.Join(directory, fmt.Sprintf("%v-%v.txt", romName, maxCycles))

    err := os.WriteFile(textPath, []byte(display.String()), 0644)
    if err != nil {
        return err
    }
    log.Printf("Saved screen to %v", textPath)

    if !savePng {
        return nil
    }

    imagePath := filepath.Join(directory, fmt.Sprintf("%v-%v.png", romName, maxCycles))
    out, err := os.Create(imagePath)
    if err != nil {
        return err
    }
    defer out.Close()

    err = png.Encode(out, screenshot.ScreenToImage(display))
    if err != nil {
        return err
    }

    log.Printf("Saved screenshot to %v", imagePath)

    return nil
}

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds)

    cycles := flag.Uint64("cycles", 1000, "Number of instructions to run")
    directory := flag.String("out", "data/screenshots", "Directory to write the screen to")
    savePng := flag.Bool("png", false, "Also write a png")
    flag.Parse()

    if flag.NArg() == 0 {
        log.Printf("Give a .ch8 file")
        return
    }

    if *cycles == 0 {
        log.Printf("Give a positive number of cycles")
        return
    }

    path := flag.Arg(0)
    display, err := screenshot.Run(os.DirFS(filepath.Dir(path)), filepath.Base(path), *cycles)
    if err != nil {
        log.Printf("Error: %v", err)
        return
    }

    err = saveScreen(*directory, path, *cycles, display, *savePng)
    if err != nil {
        log.Printf("Could not save screenshot: %v", err)
    }
}
