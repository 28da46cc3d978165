package selftest

import (
    "fmt"
    "log"
    "path"

    "github.com/kazzmir/chip8/data"
    "github.com/kazzmir/chip8/test/screenshot"
    test_utils "github.com/kazzmir/chip8/test/all-test/utils"
)

/* The self test roms check the interpreter from the inside. Each one runs a list
 * of checks, putting the number of the current check in VD. When every check
 * passes it sets VE to 1 and loops forever, a failing check sets VE to 0xff.
 */

const ResultRegister = 0xe
const CheckRegister = 0xd
const MaxCycles = 2000

var Roms = []string{
    "roms/alu.ch8",
    "roms/calls.ch8",
}

func doTest(rom string) (bool, error) {
    cpu, err := screenshot.RunMachine(data.RomsFS, rom, MaxCycles)
    if err != nil {
        return false, err
    }

    switch cpu.V[ResultRegister] {
        case 1:
            return true, nil
        case 0xff:
            log.Printf("%v failed check %v", rom, cpu.V[CheckRegister])
            return false, nil
        default:
            return false, fmt.Errorf("%v did not finish in %v cycles, last check %v", rom, MaxCycles, cpu.V[CheckRegister])
    }
}

func Run(debug bool) (bool, error) {
    allOk := true
    for _, rom := range Roms {
        ok, err := doTest(rom)
        if err != nil {
            return false, err
        }
        log.Print(test_utils.Result(path.Base(rom), ok))
        if !ok {
            allOk = false
        }
    }

    return allOk, nil
}
