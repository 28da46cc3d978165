package main

/* CLI utility that disassembles chip-8 roms, and finds roms on disk */

import (
    "errors"
    "flag"
    "fmt"
    "io"
    "io/fs"
    "os"
    "path/filepath"
    "strings"

    "github.com/kazzmir/chip8/util/filterlist"
    chip8 "github.com/kazzmir/chip8/lib"

    "github.com/fatih/color"
)

type RomEntry struct {
    Path string
    Size int
    Hash string
}

func (entry *RomEntry) Contains(s string) bool {
    return strings.Contains(strings.ToLower(entry.Path), strings.ToLower(s))
}

func (entry *RomEntry) Less(other *RomEntry) bool {
    return entry.Path < other.Path
}

/* walk filesystem looking for .ch8 files that load as roms */
func getRoms(root string) (filterlist.List[*RomEntry], error) {
    var out filterlist.List[*RomEntry]

    err := filepath.WalkDir(root, func(path string, info fs.DirEntry, err error) error {
        if err != nil {
            return err
        }

        if !info.IsDir() && strings.ToLower(filepath.Ext(path)) == ".ch8" {
            rom, err := chip8.ParseRomFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
            if err == nil {
                out.Add(&RomEntry{
                    Path: path,
                    Size: len(rom.Data),
                    Hash: rom.Hash(),
                })
            }
        }

        return nil
    })

    return out, err
}

func displayRoms(output io.Writer, root string, filter string) error {
    roms, err := getRoms(root)
    if err != nil {
        return err
    }
    roms.SetFilter(filter)

    fmt.Fprintf(output, "Found %d ROMs\n", len(roms.Filtered()))
    for _, rom := range roms.Filtered() {
        fmt.Fprintf(output, "%s %v bytes %v\n", rom.Path, rom.Size, rom.Hash[:12])
    }
    return nil
}

/* print address, raw opcode and mnemonic for each instruction in the rom */
func disassemble(output io.Writer, data []byte) error {
    addressColor := color.New(color.FgCyan).SprintFunc()
    flowColor := color.New(color.FgYellow).SprintFunc()
    unknownColor := color.New(color.FgRed).SprintFunc()

    reader := chip8.NewInstructionReader(data)
    for {
        offset := reader.Offset()
        instruction, err := reader.ReadInstruction()
        if err == io.EOF {
            return nil
        }

        address := int(chip8.ProgramStart) + offset

        if errors.Is(err, io.ErrUnexpectedEOF) {
            fmt.Fprintf(output, "%v: %02X\n", addressColor(fmt.Sprintf("%03X", address)), data[len(data)-1])
            return nil
        }
        if err != nil {
            return err
        }

        text := instruction.String()
        switch {
            case instruction.Kind == chip8.Instruction_Unknown:
                text = unknownColor(text)
            case instruction.IsControlFlow():
                text = flowColor(text)
        }

        fmt.Fprintf(output, "%v: %04X  %v\n", addressColor(fmt.Sprintf("%03X", address)), instruction.Opcode, text)
    }
}

func main(){
    find := flag.String("find", "", "Find all ROMs under the given directory")
    filter := flag.String("filter", "", "Only show found ROMs whose path contains this string")
    noColor := flag.Bool("no-color", false, "Disable colors")

    flag.Parse()

    if *noColor {
        color.NoColor = true
    }

    if *find != "" {
        err := displayRoms(os.Stdout, *find, *filter)
        if err != nil {
            fmt.Printf("Error: %v\n", err)
            os.Exit(1)
        }
        return
    }

    if flag.NArg() == 0 {
        fmt.Printf("Give a .ch8 file to disassemble, or -find <dir>\n")
        os.Exit(1)
    }

    for _, path := range flag.Args() {
        rom, err := chip8.ParseRomFile(path)
        if err != nil {
            fmt.Printf("Error: %v\n", err)
            os.Exit(1)
        }

        if flag.NArg() > 1 {
            fmt.Printf("%v:\n", path)
        }

        err = disassemble(os.Stdout, rom.Data)
        if err != nil {
            fmt.Printf("Error: %v\n", err)
            os.Exit(1)
        }
    }
}
