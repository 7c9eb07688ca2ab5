package vm

// Operand is a decoded operand word: either a literal or a reference to
// one of the eight registers. It is built once by DecodeOperand and then
// consumed by Resolve, rather than re-checked against the address-space
// convention every time it is used.
type Operand struct {
	isRegister bool
	reg        uint16 // valid only when isRegister
	literal    uint16 // valid only when !isRegister
}

// DecodeOperand resolves an operand word per §4.1: 0..32767 is a literal,
// 32768..32775 names register w-32768, anything else is illegal.
func DecodeOperand(w uint16) (Operand, error) {
	switch {
	case w < RegisterBase:
		return Operand{literal: w}, nil
	case w <= MaxOperand:
		return Operand{isRegister: true, reg: w - RegisterBase}, nil
	default:
		return Operand{}, ErrIllegalOperand
	}
}

// Resolve returns the operand's current value: the literal, or the live
// contents of the register it names.
func (o Operand) Resolve(vm *VM) uint16 {
	if o.isRegister {
		return vm.Reg[o.reg]
	}
	return o.literal
}

// DecodeRegister decodes an operand word as a register index only. It
// requires 32768 <= w <= 32775 and returns w-32768; any other value is
// illegal. This is the decoder's second entry point from §4.1, used for
// destination operands (e.g. the "r" in SET r, a).
func DecodeRegister(w uint16) (uint16, error) {
	if w < RegisterBase || w > MaxOperand {
		return 0, ErrIllegalOperand
	}
	return w - RegisterBase, nil
}
