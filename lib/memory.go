package lib

import (
    "errors"
    "fmt"
)

const MemorySize = 0x1000
const MaxAddress uint16 = 0xfff

/* programs are loaded here and execution starts here */
const ProgramStart uint16 = 0x200

/* the largest rom the loader accepts when loading at ProgramStart */
const MaxRomSize = 3586

var ErrAddressOutOfRange error = errors.New("address out of range")
var ErrRomTooLarge error = errors.New("rom too large")

type Memory struct {
    Data [MemorySize]byte
}

func MakeMemory() Memory {
    var memory Memory
    copy(memory.Data[FontAddress:], FontData[:])
    return memory
}

func checkAddress(address uint16) error {
    if address > MaxAddress {
        return fmt.Errorf("%w: 0x%x", ErrAddressOutOfRange, address)
    }
    return nil
}

/* check that the block [address, address+length) lies inside memory */
func checkRange(address uint16, length int) error {
    if length == 0 {
        return checkAddress(address)
    }
    if int(address) + length - 1 > int(MaxAddress) {
        return fmt.Errorf("%w: 0x%x-0x%x", ErrAddressOutOfRange, address, int(address) + length - 1)
    }
    return nil
}

func (memory *Memory) Load(address uint16) (byte, error) {
    if err := checkAddress(address); err != nil {
        return 0, err
    }
    return memory.Data[address], nil
}

func (memory *Memory) Store(address uint16, value byte) error {
    if err := checkAddress(address); err != nil {
        return err
    }
    memory.Data[address] = value
    return nil
}

/* returns a view of length bytes starting at address */
func (memory *Memory) Slice(address uint16, length int) ([]byte, error) {
    if err := checkRange(address, length); err != nil {
        return nil, err
    }
    return memory.Data[address:int(address) + length], nil
}

/* big-endian 16-bit opcode at address */
func (memory *Memory) LoadOpcode(address uint16) (uint16, error) {
    data, err := memory.Slice(address, 2)
    if err != nil {
        return 0, err
    }
    return uint16(data[0]) << 8 | uint16(data[1]), nil
}

/* copy a program into memory starting at origin */
func (memory *Memory) LoadProgram(program []byte, origin uint16) error {
    if int(origin) + len(program) > MemorySize {
        return fmt.Errorf("%w: %v bytes at 0x%x does not fit below 0x%x", ErrRomTooLarge, len(program), origin, MemorySize)
    }

    if origin == ProgramStart && len(program) > MaxRomSize {
        return fmt.Errorf("%w: %v bytes, maximum is %v", ErrRomTooLarge, len(program), MaxRomSize)
    }

    copy(memory.Data[origin:], program)
    return nil
}
