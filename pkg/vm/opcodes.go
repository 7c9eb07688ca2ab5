package vm

import "strconv"

// The following constants enumerate the fixed opcode set. Opcode words
// outside Noop (21) are illegal; see Step.
const (
	Halt uint16 = iota
	Set
	Push
	Pop
	Eq
	Gt
	Jmp
	Jt
	Jf
	Add
	Mult
	Mod
	And
	Or
	Not
	Rmem
	Wmem
	Call
	Ret
	Out
	In
	Noop
)

// NumArgs gives the number of operand words following each opcode. GT is
// present here with 3 operands per §9's redesign flag — the source this
// VM is modeled on omits GT from its NARGS table despite implementing it
// with three operands, which is treated as a bug and fixed here.
var NumArgs = [...]int{
	Halt: 0,
	Set:  2,
	Push: 1,
	Pop:  1,
	Eq:   3,
	Gt:   3,
	Jmp:  1,
	Jt:   2,
	Jf:   2,
	Add:  3,
	Mult: 3,
	Mod:  3,
	And:  3,
	Or:   3,
	Not:  2,
	Rmem: 2,
	Wmem: 2,
	Call: 1,
	Ret:  0,
	Out:  1,
	In:   1,
	Noop: 0,
}

var mnemonic = [...]string{
	Halt: "halt",
	Set:  "set",
	Push: "push",
	Pop:  "pop",
	Eq:   "eq",
	Gt:   "gt",
	Jmp:  "jmp",
	Jt:   "jt",
	Jf:   "jf",
	Add:  "add",
	Mult: "mult",
	Mod:  "mod",
	And:  "and",
	Or:   "or",
	Not:  "not",
	Rmem: "rmem",
	Wmem: "wmem",
	Call: "call",
	Ret:  "ret",
	Out:  "out",
	In:   "in",
	Noop: "noop",
}

// isValidOpcode reports whether op is a known opcode.
func isValidOpcode(op uint16) bool {
	return int(op) < len(mnemonic)
}

// Disassemble renders the instruction starting at addr in vm's memory as
// one line of assembly-ish text: the mnemonic followed by its operand
// words, register references as r0..r7 and every other word as a decimal
// number. It never advances vm.PC and is safe to call purely for
// tracing (the -v flag) without perturbing execution.
func Disassemble(vm *VM, addr uint16) string {
	op := vm.Mem[addr]
	if !isValidOpcode(op) {
		return "<unknown instruction>"
	}
	s := mnemonic[op]
	n := NumArgs[op]
	for i := 0; i < n; i++ {
		w := vm.Mem[(int(addr)+1+i)%MemSize]
		if w >= RegisterBase && w <= MaxOperand {
			s += " r" + strconv.Itoa(int(w-RegisterBase))
		} else {
			s += " " + strconv.Itoa(int(w))
		}
	}
	return s
}
