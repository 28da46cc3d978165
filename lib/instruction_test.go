package lib

import (
    "errors"
    "io"
    "testing"
)

func TestDecode(test *testing.T){
    tests := []struct {
        opcode uint16
        kind InstructionType
        text string
    }{
        {0x00e0, Instruction_CLS, "cls"},
        {0x00ee, Instruction_RET, "ret"},
        {0x0123, Instruction_Unknown, "??? $0123"},
        {0x1abc, Instruction_JP, "jp $ABC"},
        {0x2300, Instruction_CALL, "call $300"},
        {0x3a42, Instruction_SE_byte, "se VA, $42"},
        {0x4a42, Instruction_SNE_byte, "sne VA, $42"},
        {0x5120, Instruction_SE_register, "se V1, V2"},
        {0x5121, Instruction_Unknown, "??? $5121"},
        {0x612a, Instruction_LD_byte, "ld V1, $2A"},
        {0x7f01, Instruction_ADD_byte, "add VF, $01"},
        {0x8120, Instruction_LD_register, "ld V1, V2"},
        {0x8121, Instruction_OR, "or V1, V2"},
        {0x8122, Instruction_AND, "and V1, V2"},
        {0x8123, Instruction_XOR, "xor V1, V2"},
        {0x8124, Instruction_ADD_register, "add V1, V2"},
        {0x8125, Instruction_SUB, "sub V1, V2"},
        {0x8126, Instruction_SHR, "shr V1"},
        {0x8127, Instruction_SUBN, "subn V1, V2"},
        {0x812e, Instruction_SHL, "shl V1"},
        {0x8128, Instruction_Unknown, "??? $8128"},
        {0x9120, Instruction_SNE_register, "sne V1, V2"},
        {0x9121, Instruction_Unknown, "??? $9121"},
        {0xa123, Instruction_LD_I, "ld I, $123"},
        {0xb300, Instruction_JP_V0, "jp V0, $300"},
        {0xc30f, Instruction_RND, "rnd V3, $0F"},
        {0xd015, Instruction_DRW, "drw V0, V1, $5"},
        {0xe39e, Instruction_SKP, "skp V3"},
        {0xe3a1, Instruction_SKNP, "sknp V3"},
        {0xe300, Instruction_Unknown, "??? $E300"},
        {0xf307, Instruction_LD_from_delay, "ld V3, DT"},
        {0xf30a, Instruction_LD_key, "ld V3, K"},
        {0xf315, Instruction_LD_delay, "ld DT, V3"},
        {0xf318, Instruction_LD_sound, "ld ST, V3"},
        {0xf31e, Instruction_ADD_I, "add I, V3"},
        {0xf329, Instruction_LD_font, "ld F, V3"},
        {0xf333, Instruction_LD_bcd, "ld B, V3"},
        {0xf355, Instruction_LD_store, "ld [I], V3"},
        {0xf365, Instruction_LD_load, "ld V3, [I]"},
        {0xf3ff, Instruction_Unknown, "??? $F3FF"},
    }

    for _, check := range tests {
        instruction := Decode(check.opcode)
        if instruction.Kind != check.kind {
            test.Fatalf("opcode 0x%04x: expected kind %v but got %v", check.opcode, check.kind, instruction.Kind)
        }
        if instruction.String() != check.text {
            test.Fatalf("opcode 0x%04x: expected '%v' but got '%v'", check.opcode, check.text, instruction.String())
        }
        if instruction.Opcode != check.opcode {
            test.Fatalf("opcode 0x%04x: raw opcode not kept", check.opcode)
        }
    }
}

func TestDecodeFields(test *testing.T){
    instruction := Decode(0xd7a3)
    if instruction.X != 7 || instruction.Y != 0xa || instruction.N != 3 || instruction.KK != 0xa3 || instruction.NNN != 0x7a3 {
        test.Fatalf("bad fields: %+v", instruction)
    }
}

/* decoding is pure, every opcode decodes the same way every time */
func TestDecodeAllOpcodes(test *testing.T){
    known := 0
    for opcode := 0; opcode <= 0xffff; opcode++ {
        first := Decode(uint16(opcode))
        second := Decode(uint16(opcode))
        if !first.Equals(second) {
            test.Fatalf("opcode 0x%04x decoded differently", opcode)
        }
        if first.Kind != Instruction_Unknown {
            known += 1
        }
    }

    if known == 0 {
        test.Fatalf("no opcodes decoded")
    }
}

func TestInstructionReader(test *testing.T){
    reader := NewInstructionReader([]byte{0x60, 0x01, 0x12, 0x00, 0xff})

    first, err := reader.ReadInstruction()
    if err != nil {
        test.Fatalf("read failed: %v", err)
    }
    if first.Kind != Instruction_LD_byte {
        test.Fatalf("expected ld but got %v", first.String())
    }

    second, err := reader.ReadInstruction()
    if err != nil {
        test.Fatalf("read failed: %v", err)
    }
    if second.Kind != Instruction_JP || second.NNN != 0x200 {
        test.Fatalf("expected jp $200 but got %v", second.String())
    }
    if reader.Offset() != 4 {
        test.Fatalf("expected offset 4 but was %v", reader.Offset())
    }

    _, err = reader.ReadInstruction()
    if !errors.Is(err, io.ErrUnexpectedEOF) {
        test.Fatalf("expected an unexpected eof for the trailing byte but got %v", err)
    }

    _, err = reader.ReadInstruction()
    if err != io.EOF {
        test.Fatalf("expected eof but got %v", err)
    }
}

func TestControlFlow(test *testing.T){
    jump := Decode(0x1200)
    if !jump.IsControlFlow() {
        test.Fatalf("jp should be control flow")
    }
    load := Decode(0x6000)
    if load.IsControlFlow() {
        test.Fatalf("ld should not be control flow")
    }
}

func TestReadsKeypad(test *testing.T){
    for _, opcode := range []uint16{0xe39e, 0xe3a1, 0xf30a} {
        instruction := Decode(opcode)
        if !instruction.ReadsKeypad() {
            test.Fatalf("%v should read the keypad", instruction.String())
        }
    }
    for _, opcode := range []uint16{0xf307, 0x3300, 0xd125} {
        instruction := Decode(opcode)
        if instruction.ReadsKeypad() {
            test.Fatalf("%v should not read the keypad", instruction.String())
        }
    }
}
