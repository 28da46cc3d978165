package lib

import (
    "fmt"
    "log"
    "time"
    "math/rand/v2"
)

/* the flag register, used for carry, borrow and sprite collision */
const FlagRegister = 0xf

/* Behaviors that differ between historical interpreters. The zero value
 * is the default: shifts operate on Vx alone and sprites are clipped
 * at the edges of the screen.
 */
type Quirks struct {
    /* 8xy6 and 8xyE shift Vy and store the result in Vx */
    ShiftUsesVY bool `json:"shift-uses-vy,omitempty"`
    /* sprite pixels that go past an edge wrap around to the other side */
    WrapSprites bool `json:"wrap-sprites,omitempty"`
}

type CPUState struct {
    V [16]byte
    I uint16
    PC uint16

    Memory Memory
    Stack Stack
    Timers Timers
    Keypad Keypad
    Display Display

    Quirks Quirks

    /* number of instructions executed, including cycles spent waiting for a key */
    Cycle uint64
    Debug uint

    Random *rand.Rand
}

func (cpu *CPUState) Copy() CPUState {
    out := *cpu
    out.Random = nil
    return out
}

func (cpu *CPUState) Equals(other CPUState) bool {
    return cpu.V == other.V &&
           cpu.I == other.I &&
           cpu.PC == other.PC &&
           cpu.Stack == other.Stack &&
           cpu.Timers == other.Timers
}

func (cpu *CPUState) String() string {
    return fmt.Sprintf("PC:0x%03X I:0x%03X V:%X SP:%v DT:%v ST:%v Cycle:%v", cpu.PC, cpu.I, cpu.V[:], cpu.Stack.SP, cpu.Timers.Delay, cpu.Timers.Sound, cpu.Cycle)
}

/* use a fixed seed for Cxkk so that runs are reproducible */
func (cpu *CPUState) SetSeed(seed uint64) {
    cpu.Random = rand.New(rand.NewPCG(seed, seed ^ 0x9e3779b97f4a7c15))
}

func (cpu *CPUState) LoadRom(program []byte) error {
    return cpu.Memory.LoadProgram(program, ProgramStart)
}

func (cpu *CPUState) Fetch() (Instruction, error) {
    opcode, err := cpu.Memory.LoadOpcode(cpu.PC)
    if err != nil {
        return Instruction{}, fmt.Errorf("fetch at pc 0x%x: %w", cpu.PC, err)
    }
    return Decode(opcode), nil
}

/* run one cycle. If a previous Fx0A is still waiting for a key then this
 * only checks the keypad, otherwise the instruction at pc is executed.
 */
func (cpu *CPUState) Step() error {
    if cpu.Keypad.Awaiting {
        cpu.Cycle += 1
        if key, ok := cpu.Keypad.LowestPressed(); ok {
            cpu.V[cpu.Keypad.AwaitRegister] = byte(key)
            cpu.Keypad.Awaiting = false
            cpu.PC += 2
        }
        return nil
    }

    instruction, err := cpu.Fetch()
    if err != nil {
        return err
    }

    if cpu.Debug > 0 {
        log.Printf("PC: 0x%03X Execute %04X %v I:%03X V:%X", cpu.PC, instruction.Opcode, instruction.String(), cpu.I, cpu.V[:])
    }

    return cpu.Execute(instruction)
}

/* execute some number of instructions followed by one timer tick, which is
 * what happens in one 60hz frame. Returns whether the tone is on for the frame.
 */
func (cpu *CPUState) RunFrame(cycles int) (bool, error) {
    for i := 0; i < cycles; i++ {
        err := cpu.Step()
        if err != nil {
            return false, err
        }
    }

    return cpu.Timers.Tick(), nil
}

func (cpu *CPUState) randomByte() byte {
    if cpu.Random == nil {
        cpu.SetSeed(uint64(time.Now().UnixNano()))
    }
    return byte(cpu.Random.Uint32())
}

func boolByte(value bool) byte {
    if value {
        return 1
    }
    return 0
}

func (cpu *CPUState) shiftSource(instruction Instruction) byte {
    if cpu.Quirks.ShiftUsesVY {
        return cpu.V[instruction.Y]
    }
    return cpu.V[instruction.X]
}

/* Execute mutates the machine for one decoded instruction. Every failure is
 * detected before any state is written, so an error leaves the machine as it
 * was before the instruction.
 */
func (cpu *CPUState) Execute(instruction Instruction) error {
    x := instruction.X
    y := instruction.Y
    next := cpu.PC + 2

    switch instruction.Kind {
        case Instruction_CLS:
            cpu.Display.Clear()
        case Instruction_RET:
            address, err := cpu.Stack.Pop()
            if err != nil {
                return fmt.Errorf("ret at pc 0x%x: %w", cpu.PC, err)
            }
            next = address
        case Instruction_JP:
            next = instruction.NNN
        case Instruction_CALL:
            err := cpu.Stack.Push(next)
            if err != nil {
                return fmt.Errorf("call at pc 0x%x: %w", cpu.PC, err)
            }
            next = instruction.NNN
        case Instruction_SE_byte:
            if cpu.V[x] == instruction.KK {
                next += 2
            }
        case Instruction_SNE_byte:
            if cpu.V[x] != instruction.KK {
                next += 2
            }
        case Instruction_SE_register:
            if cpu.V[x] == cpu.V[y] {
                next += 2
            }
        case Instruction_LD_byte:
            cpu.V[x] = instruction.KK
        case Instruction_ADD_byte:
            cpu.V[x] += instruction.KK
        case Instruction_LD_register:
            cpu.V[x] = cpu.V[y]
        case Instruction_OR:
            cpu.V[x] |= cpu.V[y]
        case Instruction_AND:
            cpu.V[x] &= cpu.V[y]
        case Instruction_XOR:
            cpu.V[x] ^= cpu.V[y]
        case Instruction_ADD_register:
            sum := uint16(cpu.V[x]) + uint16(cpu.V[y])
            cpu.V[x] = byte(sum)
            cpu.V[FlagRegister] = boolByte(sum > 0xff)
        case Instruction_SUB:
            noBorrow := cpu.V[x] > cpu.V[y]
            cpu.V[x] = cpu.V[x] - cpu.V[y]
            cpu.V[FlagRegister] = boolByte(noBorrow)
        case Instruction_SUBN:
            noBorrow := cpu.V[y] > cpu.V[x]
            cpu.V[x] = cpu.V[y] - cpu.V[x]
            cpu.V[FlagRegister] = boolByte(noBorrow)
        case Instruction_SHR:
            value := cpu.shiftSource(instruction)
            cpu.V[x] = value >> 1
            cpu.V[FlagRegister] = value & 0x1
        case Instruction_SHL:
            value := cpu.shiftSource(instruction)
            cpu.V[x] = value << 1
            cpu.V[FlagRegister] = value >> 7
        case Instruction_SNE_register:
            if cpu.V[x] != cpu.V[y] {
                next += 2
            }
        case Instruction_LD_I:
            cpu.I = instruction.NNN
        case Instruction_JP_V0:
            next = instruction.NNN + uint16(cpu.V[0])
        case Instruction_RND:
            cpu.V[x] = cpu.randomByte() & instruction.KK
        case Instruction_DRW:
            sprite, err := cpu.Memory.Slice(cpu.I, int(instruction.N))
            if err != nil {
                return fmt.Errorf("drw at pc 0x%x: %w", cpu.PC, err)
            }
            collision := cpu.Display.DrawSprite(sprite, cpu.V[x], cpu.V[y], cpu.Quirks.WrapSprites)
            cpu.V[FlagRegister] = boolByte(collision)
        case Instruction_SKP:
            if cpu.Keypad.IsPressed(Key(cpu.V[x])) {
                next += 2
            }
        case Instruction_SKNP:
            if !cpu.Keypad.IsPressed(Key(cpu.V[x])) {
                next += 2
            }
        case Instruction_LD_from_delay:
            cpu.V[x] = cpu.Timers.Delay
        case Instruction_LD_key:
            key, ok := cpu.Keypad.LowestPressed()
            if ok {
                cpu.V[x] = byte(key)
            } else {
                /* stay on this instruction until a key shows up */
                cpu.Keypad.AwaitKey(x)
                next = cpu.PC
            }
        case Instruction_LD_delay:
            cpu.Timers.Delay = cpu.V[x]
        case Instruction_LD_sound:
            cpu.Timers.Sound = cpu.V[x]
        case Instruction_ADD_I:
            sum := uint32(cpu.I) + uint32(cpu.V[x])
            if sum > 0xffff {
                return fmt.Errorf("add i at pc 0x%x: %w: 0x%x", cpu.PC, ErrAddressOutOfRange, sum)
            }
            cpu.I = uint16(sum)
        case Instruction_LD_font:
            cpu.I = GlyphAddress(cpu.V[x])
        case Instruction_LD_bcd:
            digits, err := cpu.Memory.Slice(cpu.I, 3)
            if err != nil {
                return fmt.Errorf("bcd at pc 0x%x: %w", cpu.PC, err)
            }
            value := cpu.V[x]
            digits[0] = value / 100
            digits[1] = (value / 10) % 10
            digits[2] = value % 10
        case Instruction_LD_store:
            block, err := cpu.Memory.Slice(cpu.I, int(x) + 1)
            if err != nil {
                return fmt.Errorf("store registers at pc 0x%x: %w", cpu.PC, err)
            }
            copy(block, cpu.V[:int(x) + 1])
        case Instruction_LD_load:
            block, err := cpu.Memory.Slice(cpu.I, int(x) + 1)
            if err != nil {
                return fmt.Errorf("load registers at pc 0x%x: %w", cpu.PC, err)
            }
            copy(cpu.V[:int(x) + 1], block)
        case Instruction_Unknown:
            /* unused encodings are skipped */
            if cpu.Debug > 0 {
                log.Printf("Warning: ignoring unknown opcode 0x%04X at pc 0x%x", instruction.Opcode, cpu.PC)
            }
    }

    cpu.PC = next
    cpu.Cycle += 1
    return nil
}

func StartupState() CPUState {
    cpu := CPUState{
        PC: ProgramStart,
        Memory: MakeMemory(),
    }
    cpu.SetSeed(uint64(time.Now().UnixNano()))
    return cpu
}
