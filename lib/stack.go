package lib

import (
    "errors"
    "fmt"
)

const StackSize = 16

var ErrStackOverflow error = errors.New("stack overflow")
var ErrStackUnderflow error = errors.New("stack underflow")

/* SP is the number of return addresses currently held, so the top entry is Entries[SP-1] */
type Stack struct {
    Entries [StackSize]uint16
    SP int
}

func (stack *Stack) Push(address uint16) error {
    if stack.SP >= StackSize {
        return fmt.Errorf("%w: cannot push 0x%x, depth %v", ErrStackOverflow, address, stack.SP)
    }
    stack.Entries[stack.SP] = address
    stack.SP += 1
    return nil
}

func (stack *Stack) Pop() (uint16, error) {
    if stack.SP <= 0 {
        return 0, ErrStackUnderflow
    }
    stack.SP -= 1
    return stack.Entries[stack.SP], nil
}

func (stack *Stack) Depth() int {
    return stack.SP
}

/* the return addresses from bottom to top */
func (stack *Stack) Frames() []uint16 {
    out := make([]uint16, stack.SP)
    copy(out, stack.Entries[:stack.SP])
    return out
}
