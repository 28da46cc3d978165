package lib

const KeyCount = 16

type Key byte

type Keypad struct {
    Keys [KeyCount]bool

    /* set while Fx0A is waiting for a key; the register that receives the key */
    Awaiting bool
    AwaitRegister byte
}

/* a key transition delivered by an input source */
type KeyEvent struct {
    Key Key
    Pressed bool
}

func (keypad *Keypad) Press(key Key) {
    keypad.Keys[key & 0xf] = true
}

func (keypad *Keypad) Release(key Key) {
    keypad.Keys[key & 0xf] = false
}

func (keypad *Keypad) Apply(event KeyEvent) {
    if event.Pressed {
        keypad.Press(event.Key)
    } else {
        keypad.Release(event.Key)
    }
}

func (keypad *Keypad) IsPressed(key Key) bool {
    return keypad.Keys[key & 0xf]
}

/* returns the lowest numbered key that is down */
func (keypad *Keypad) LowestPressed() (Key, bool) {
    for i, pressed := range keypad.Keys {
        if pressed {
            return Key(i), true
        }
    }
    return 0, false
}

func (keypad *Keypad) AwaitKey(register byte) {
    keypad.Awaiting = true
    keypad.AwaitRegister = register & 0xf
}

func (keypad *Keypad) ReleaseAll() {
    keypad.Keys = [KeyCount]bool{}
}
