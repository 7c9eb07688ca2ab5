package vm

import "testing"

func TestDecodeOperandLiteral(t *testing.T) {
	for _, w := range []uint16{0, 1, 32767} {
		o, err := DecodeOperand(w)
		assert(t, err == nil, "unexpected error for %d: %v", w, err)
		assert(t, o.Resolve(New()) == w, "literal %d did not resolve to itself", w)
	}
}

func TestDecodeOperandRegister(t *testing.T) {
	m := New()
	m.Reg[3] = 42
	o, err := DecodeOperand(32768 + 3)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, o.Resolve(m) == 42, "register operand resolved to %d, want 42", o.Resolve(m))
}

func TestDecodeOperandIllegal(t *testing.T) {
	for _, w := range []uint16{32776, 40000, 65535} {
		_, err := DecodeOperand(w)
		assert(t, err == ErrIllegalOperand, "word %d: got %v, want ErrIllegalOperand", w, err)
	}
}

func TestDecodeRegisterBoundaries(t *testing.T) {
	for r := uint16(0); r < NumRegisters; r++ {
		idx, err := DecodeRegister(RegisterBase + r)
		assert(t, err == nil, "unexpected error for register %d: %v", r, err)
		assert(t, idx == r, "got index %d, want %d", idx, r)
	}
	for _, w := range []uint16{0, 32767, 32776} {
		_, err := DecodeRegister(w)
		assert(t, err == ErrIllegalOperand, "word %d: got %v, want ErrIllegalOperand", w, err)
	}
}
