package lib

import (
    "fmt"
    "io"
    "io/fs"
    "os"
    "log"
    "crypto/sha256"
)

type RomFile struct {
    Name string
    Data []byte
}

/* hex encoded sha256 of the rom contents, used to identify roms in logs */
func (rom *RomFile) Hash() string {
    return fmt.Sprintf("%x", sha256.Sum256(rom.Data))
}

func readRom(name string, reader io.Reader) (RomFile, error) {
    /* read one byte past the limit so oversized roms can be detected without reading all of them */
    data, err := io.ReadAll(io.LimitReader(reader, MaxRomSize + 1))
    if err != nil {
        return RomFile{}, err
    }

    if len(data) > MaxRomSize {
        return RomFile{}, fmt.Errorf("%w: %v is larger than %v bytes", ErrRomTooLarge, name, MaxRomSize)
    }

    if len(data) == 0 {
        return RomFile{}, fmt.Errorf("%v is empty", name)
    }

    return RomFile{
        Name: name,
        Data: data,
    }, nil
}

func ParseRomFile(path string) (RomFile, error) {
    file, err := os.Open(path)
    if err != nil {
        return RomFile{}, err
    }
    defer file.Close()

    rom, err := readRom(path, file)
    if err != nil {
        return RomFile{}, err
    }

    log.Printf("Loaded %v: %v bytes sha256 %v", path, len(rom.Data), rom.Hash())
    return rom, nil
}

/* load a rom out of a filesystem, such as the embedded roms in the data package */
func ParseRomFS(filesystem fs.FS, path string) (RomFile, error) {
    file, err := filesystem.Open(path)
    if err != nil {
        return RomFile{}, err
    }
    defer file.Close()

    return readRom(path, file)
}
