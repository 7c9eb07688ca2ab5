package vm

import "context"

// Step executes exactly one instruction: it fetches the opcode word at
// PC, reads NumArgs[op] operand words (advancing PC once per word, as
// the decoder requires), runs the opcode's handler, and finally leaves
// PC pointing at the next opcode — except for JMP, taken JT/JF, CALL,
// and RET, which set PC themselves.
//
// Step returns ErrHalted (unwrapped, not a *Fault) on a clean halt, and
// a *Fault on any fatal condition, wrapping one of the sentinel errors in
// errors.go or, for OUT/IN, the console's own error. On a fault PC is put
// back on the faulting instruction, so a snapshot saved afterwards
// resumes at the fault site. ctx is checked once before the fetch, never
// mid-instruction, so an in-flight instruction always completes (§5); a
// done ctx yields ctx.Err() as is.
func (vm *VM) Step(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	startPC := vm.PC
	defer func() {
		if _, ok := err.(*Fault); ok {
			vm.PC = startPC
		}
	}()
	op := vm.Mem[vm.PC]
	if !isValidOpcode(op) {
		return vm.fault(startPC, ErrIllegalOpcode, op)
	}

	if vm.Trace != nil {
		vm.Trace(startPC, Disassemble(vm, startPC))
	}

	args := make([]uint16, NumArgs[op])
	for i := range args {
		vm.PC++
		args[i] = vm.Mem[vm.PC%MemSize]
	}

	switch op {
	case Halt:
		return ErrHalted

	case Set:
		r, err := DecodeRegister(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		a, err := vm.resolve(args[1])
		if err != nil {
			return vm.fault(startPC, err, args[1])
		}
		vm.Reg[r] = a
		vm.PC++

	case Push:
		a, err := vm.resolve(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		vm.push(a)
		vm.PC++

	case Pop:
		r, err := DecodeRegister(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		v, ok := vm.pop()
		if !ok {
			return vm.fault(startPC, ErrStackUnderflow, args[0])
		}
		vm.Reg[r] = v
		vm.PC++

	case Eq, Gt:
		r, err := DecodeRegister(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		a, err := vm.resolve(args[1])
		if err != nil {
			return vm.fault(startPC, err, args[1])
		}
		b, err := vm.resolve(args[2])
		if err != nil {
			return vm.fault(startPC, err, args[2])
		}
		var result uint16
		if op == Eq && a == b {
			result = 1
		} else if op == Gt && a > b {
			result = 1
		}
		vm.Reg[r] = result
		vm.PC++

	case Jmp:
		a, err := vm.resolve(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		if err := vm.checkAddr(startPC, a, args[0]); err != nil {
			return err
		}
		vm.PC = a

	case Jt, Jf:
		a, err := vm.resolve(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		b, err := vm.resolve(args[1])
		if err != nil {
			return vm.fault(startPC, err, args[1])
		}
		taken := (op == Jt && a != 0) || (op == Jf && a == 0)
		if taken {
			if err := vm.checkAddr(startPC, b, args[1]); err != nil {
				return err
			}
			vm.PC = b
		} else {
			vm.PC++
		}

	case Add, Mult, Mod, And, Or:
		r, err := DecodeRegister(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		a, err := vm.resolve(args[1])
		if err != nil {
			return vm.fault(startPC, err, args[1])
		}
		b, err := vm.resolve(args[2])
		if err != nil {
			return vm.fault(startPC, err, args[2])
		}
		var result uint16
		switch op {
		case Add:
			result = uint16((uint32(a) + uint32(b)) % modulus)
		case Mult:
			// At least 32-bit arithmetic before the modulo, per §4.3's
			// overflow note; uint32 comfortably holds 15-bit * 15-bit.
			result = uint16((uint32(a) * uint32(b)) % modulus)
		case Mod:
			if b == 0 {
				return vm.fault(startPC, ErrDivByZero, args[2])
			}
			result = a % b
		case And:
			result = a & b
		case Or:
			result = a | b
		}
		vm.Reg[r] = result
		vm.PC++

	case Not:
		r, err := DecodeRegister(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		a, err := vm.resolve(args[1])
		if err != nil {
			return vm.fault(startPC, err, args[1])
		}
		vm.Reg[r] = a ^ wordMask
		vm.PC++

	case Rmem:
		r, err := DecodeRegister(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		a, err := vm.resolve(args[1])
		if err != nil {
			return vm.fault(startPC, err, args[1])
		}
		if err := vm.checkAddr(startPC, a, args[1]); err != nil {
			return err
		}
		vm.Reg[r] = vm.Mem[a]
		vm.PC++

	case Wmem:
		a, err := vm.resolve(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		b, err := vm.resolve(args[1])
		if err != nil {
			return vm.fault(startPC, err, args[1])
		}
		if err := vm.checkAddr(startPC, a, args[0]); err != nil {
			return err
		}
		// Write before advancing PC: a write through address a=PC must
		// not disturb the PC itself, so the next fetch observes the new
		// value at the old address rather than at an address shifted by
		// our own bookkeeping.
		vm.Mem[a] = b
		vm.PC++

	case Call:
		a, err := vm.resolve(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		if err := vm.checkAddr(startPC, a, args[0]); err != nil {
			return err
		}
		vm.push(vm.PC + 1)
		vm.PC = a

	case Ret:
		target, ok := vm.pop()
		if !ok {
			return ErrHalted
		}
		if err := vm.checkAddr(startPC, target, target); err != nil {
			vm.push(target) // leave the stack as it was before the RET
			return err
		}
		vm.PC = target

	case Out:
		a, err := vm.resolve(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		if vm.Console == nil {
			return vm.fault(startPC, ErrNoConsole, args[0])
		}
		if err := vm.Console.WriteChar(byte(a)); err != nil {
			return vm.fault(startPC, err, args[0])
		}
		vm.PC++

	case In:
		r, err := DecodeRegister(args[0])
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		if vm.Console == nil {
			return vm.fault(startPC, ErrNoConsole, args[0])
		}
		c, err := vm.Console.ReadChar()
		if err != nil {
			return vm.fault(startPC, err, args[0])
		}
		vm.Reg[r] = uint16(c)
		vm.PC++

	case Noop:
		vm.PC++
	}

	return nil
}

// resolve decodes w as a generic operand (literal-or-register) and
// returns its current value.
func (vm *VM) resolve(w uint16) (uint16, error) {
	o, err := DecodeOperand(w)
	if err != nil {
		return 0, err
	}
	return o.Resolve(vm), nil
}

// checkAddr faults if a is not a valid memory address. resolve only
// validates the instruction-stream operand word (<=32775); a register
// can still carry a value >32767 if it was loaded from a crafted data
// word via RMEM, so JMP/JT/JF/CALL/RMEM/WMEM must re-check the resolved
// value before using it to index memory or set PC.
func (vm *VM) checkAddr(pc, a, word uint16) error {
	if a >= MemSize {
		return vm.fault(pc, ErrIllegalOperand, word)
	}
	return nil
}

// Run steps the VM until it halts or faults. It returns nil on a clean
// halt (HALT, or RET with an empty stack) and the fault error otherwise.
func (vm *VM) Run(ctx context.Context) error {
	for {
		err := vm.Step(ctx)
		if err == nil {
			continue
		}
		if err == ErrHalted {
			return nil
		}
		return err
	}
}
