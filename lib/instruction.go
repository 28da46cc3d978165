package lib

import (
    "fmt"
    "io"
)

/* opcode references
 * http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
 * https://tobiasvl.github.io/blog/write-a-chip-8-emulator/
 *
 * nnn = 12-bit address, kk = 8-bit immediate, x/y = register index, n = 4-bit literal
 */

type InstructionType int

const (
    Instruction_Unknown InstructionType = iota
    Instruction_CLS         // 00E0
    Instruction_RET         // 00EE
    Instruction_JP          // 1nnn
    Instruction_CALL        // 2nnn
    Instruction_SE_byte     // 3xkk
    Instruction_SNE_byte    // 4xkk
    Instruction_SE_register // 5xy0
    Instruction_LD_byte     // 6xkk
    Instruction_ADD_byte    // 7xkk
    Instruction_LD_register // 8xy0
    Instruction_OR          // 8xy1
    Instruction_AND         // 8xy2
    Instruction_XOR         // 8xy3
    Instruction_ADD_register // 8xy4
    Instruction_SUB         // 8xy5
    Instruction_SHR         // 8xy6
    Instruction_SUBN        // 8xy7
    Instruction_SHL         // 8xyE
    Instruction_SNE_register // 9xy0
    Instruction_LD_I        // Annn
    Instruction_JP_V0       // Bnnn
    Instruction_RND         // Cxkk
    Instruction_DRW         // Dxyn
    Instruction_SKP         // Ex9E
    Instruction_SKNP        // ExA1
    Instruction_LD_from_delay // Fx07
    Instruction_LD_key      // Fx0A
    Instruction_LD_delay    // Fx15
    Instruction_LD_sound    // Fx18
    Instruction_ADD_I       // Fx1E
    Instruction_LD_font     // Fx29
    Instruction_LD_bcd      // Fx33
    Instruction_LD_store    // Fx55
    Instruction_LD_load     // Fx65
)

var instructionNames = map[InstructionType]string{
    Instruction_Unknown: "???",
    Instruction_CLS: "cls",
    Instruction_RET: "ret",
    Instruction_JP: "jp",
    Instruction_CALL: "call",
    Instruction_SE_byte: "se",
    Instruction_SNE_byte: "sne",
    Instruction_SE_register: "se",
    Instruction_LD_byte: "ld",
    Instruction_ADD_byte: "add",
    Instruction_LD_register: "ld",
    Instruction_OR: "or",
    Instruction_AND: "and",
    Instruction_XOR: "xor",
    Instruction_ADD_register: "add",
    Instruction_SUB: "sub",
    Instruction_SHR: "shr",
    Instruction_SUBN: "subn",
    Instruction_SHL: "shl",
    Instruction_SNE_register: "sne",
    Instruction_LD_I: "ld",
    Instruction_JP_V0: "jp",
    Instruction_RND: "rnd",
    Instruction_DRW: "drw",
    Instruction_SKP: "skp",
    Instruction_SKNP: "sknp",
    Instruction_LD_from_delay: "ld",
    Instruction_LD_key: "ld",
    Instruction_LD_delay: "ld",
    Instruction_LD_sound: "ld",
    Instruction_ADD_I: "add",
    Instruction_LD_font: "ld",
    Instruction_LD_bcd: "ld",
    Instruction_LD_store: "ld",
    Instruction_LD_load: "ld",
}

/* a decoded opcode. Only the fields that the kind uses are meaningful */
type Instruction struct {
    Kind InstructionType
    Opcode uint16
    X byte
    Y byte
    N byte
    KK byte
    NNN uint16
}

func (instruction *Instruction) Name() string {
    return instructionNames[instruction.Kind]
}

func (instruction *Instruction) Equals(other Instruction) bool {
    return instruction.Kind == other.Kind && instruction.Opcode == other.Opcode
}

/* true for instructions that can change the pc to something other than the next instruction */
func (instruction *Instruction) IsControlFlow() bool {
    switch instruction.Kind {
        case Instruction_RET, Instruction_JP, Instruction_CALL, Instruction_JP_V0,
             Instruction_SE_byte, Instruction_SNE_byte, Instruction_SE_register, Instruction_SNE_register,
             Instruction_SKP, Instruction_SKNP:
            return true
    }
    return false
}

/* true for the instructions that look at the keypad */
func (instruction *Instruction) ReadsKeypad() bool {
    switch instruction.Kind {
        case Instruction_SKP, Instruction_SKNP, Instruction_LD_key:
            return true
    }
    return false
}

func (instruction *Instruction) operands() string {
    x := instruction.X
    y := instruction.Y
    switch instruction.Kind {
        case Instruction_JP, Instruction_CALL:
            return fmt.Sprintf("$%03X", instruction.NNN)
        case Instruction_JP_V0:
            return fmt.Sprintf("V0, $%03X", instruction.NNN)
        case Instruction_SE_byte, Instruction_SNE_byte, Instruction_LD_byte, Instruction_ADD_byte, Instruction_RND:
            return fmt.Sprintf("V%X, $%02X", x, instruction.KK)
        case Instruction_SE_register, Instruction_SNE_register, Instruction_LD_register,
             Instruction_OR, Instruction_AND, Instruction_XOR, Instruction_ADD_register,
             Instruction_SUB, Instruction_SUBN:
            return fmt.Sprintf("V%X, V%X", x, y)
        case Instruction_SHR, Instruction_SHL, Instruction_SKP, Instruction_SKNP:
            return fmt.Sprintf("V%X", x)
        case Instruction_LD_I:
            return fmt.Sprintf("I, $%03X", instruction.NNN)
        case Instruction_DRW:
            return fmt.Sprintf("V%X, V%X, $%X", x, y, instruction.N)
        case Instruction_LD_from_delay:
            return fmt.Sprintf("V%X, DT", x)
        case Instruction_LD_key:
            return fmt.Sprintf("V%X, K", x)
        case Instruction_LD_delay:
            return fmt.Sprintf("DT, V%X", x)
        case Instruction_LD_sound:
            return fmt.Sprintf("ST, V%X", x)
        case Instruction_ADD_I:
            return fmt.Sprintf("I, V%X", x)
        case Instruction_LD_font:
            return fmt.Sprintf("F, V%X", x)
        case Instruction_LD_bcd:
            return fmt.Sprintf("B, V%X", x)
        case Instruction_LD_store:
            return fmt.Sprintf("[I], V%X", x)
        case Instruction_LD_load:
            return fmt.Sprintf("V%X, [I]", x)
        case Instruction_Unknown:
            return fmt.Sprintf("$%04X", instruction.Opcode)
    }
    return ""
}

func (instruction *Instruction) String() string {
    operands := instruction.operands()
    if operands == "" {
        return instruction.Name()
    }
    return instruction.Name() + " " + operands
}

/* split an opcode into its fields and work out which instruction it is. The top nibble
 * picks the family, then the low nibble or low byte picks the instruction within the family.
 * Encodings that don't match anything decode as Instruction_Unknown.
 */
func Decode(opcode uint16) Instruction {
    out := Instruction{
        Kind: Instruction_Unknown,
        Opcode: opcode,
        X: byte(opcode >> 8) & 0xf,
        Y: byte(opcode >> 4) & 0xf,
        N: byte(opcode) & 0xf,
        KK: byte(opcode),
        NNN: opcode & 0xfff,
    }

    switch opcode & 0xf000 {
        case 0x0000:
            switch opcode {
                case 0x00e0: out.Kind = Instruction_CLS
                case 0x00ee: out.Kind = Instruction_RET
            }
        case 0x1000: out.Kind = Instruction_JP
        case 0x2000: out.Kind = Instruction_CALL
        case 0x3000: out.Kind = Instruction_SE_byte
        case 0x4000: out.Kind = Instruction_SNE_byte
        case 0x5000:
            if out.N == 0 {
                out.Kind = Instruction_SE_register
            }
        case 0x6000: out.Kind = Instruction_LD_byte
        case 0x7000: out.Kind = Instruction_ADD_byte
        case 0x8000:
            switch out.N {
                case 0x0: out.Kind = Instruction_LD_register
                case 0x1: out.Kind = Instruction_OR
                case 0x2: out.Kind = Instruction_AND
                case 0x3: out.Kind = Instruction_XOR
                case 0x4: out.Kind = Instruction_ADD_register
                case 0x5: out.Kind = Instruction_SUB
                case 0x6: out.Kind = Instruction_SHR
                case 0x7: out.Kind = Instruction_SUBN
                case 0xe: out.Kind = Instruction_SHL
            }
        case 0x9000:
            if out.N == 0 {
                out.Kind = Instruction_SNE_register
            }
        case 0xa000: out.Kind = Instruction_LD_I
        case 0xb000: out.Kind = Instruction_JP_V0
        case 0xc000: out.Kind = Instruction_RND
        case 0xd000: out.Kind = Instruction_DRW
        case 0xe000:
            switch out.KK {
                case 0x9e: out.Kind = Instruction_SKP
                case 0xa1: out.Kind = Instruction_SKNP
            }
        case 0xf000:
            switch out.KK {
                case 0x07: out.Kind = Instruction_LD_from_delay
                case 0x0a: out.Kind = Instruction_LD_key
                case 0x15: out.Kind = Instruction_LD_delay
                case 0x18: out.Kind = Instruction_LD_sound
                case 0x1e: out.Kind = Instruction_ADD_I
                case 0x29: out.Kind = Instruction_LD_font
                case 0x33: out.Kind = Instruction_LD_bcd
                case 0x55: out.Kind = Instruction_LD_store
                case 0x65: out.Kind = Instruction_LD_load
            }
    }

    return out
}

/* decodes a sequence of opcodes, such as a rom image */
type InstructionReader struct {
    data []byte
    position int
}

func NewInstructionReader(data []byte) *InstructionReader {
    return &InstructionReader{
        data: data,
        position: 0,
    }
}

/* offset of the next instruction relative to the start of the data */
func (reader *InstructionReader) Offset() int {
    return reader.position
}

func (reader *InstructionReader) ReadInstruction() (Instruction, error) {
    remaining := len(reader.data) - reader.position
    if remaining == 0 {
        return Instruction{}, io.EOF
    }
    if remaining < 2 {
        reader.position = len(reader.data)
        return Instruction{}, fmt.Errorf("odd trailing byte 0x%x: %w", reader.data[len(reader.data)-1], io.ErrUnexpectedEOF)
    }

    opcode := uint16(reader.data[reader.position]) << 8 | uint16(reader.data[reader.position+1])
    reader.position += 2
    return Decode(opcode), nil
}
