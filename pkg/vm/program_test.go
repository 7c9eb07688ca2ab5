package vm

import (
	"bytes"
	"errors"
	"testing"
)

func TestLoadProgramFillsFromZero(t *testing.T) {
	m, err := LoadProgram(bytes.NewReader(program(Out, 65, Halt)))
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, m.Mem[0] == Out, "mem[0] = %d, want Out", m.Mem[0])
	assert(t, m.Mem[1] == 65, "mem[1] = %d, want 65", m.Mem[1])
	assert(t, m.Mem[2] == Halt, "mem[2] = %d, want Halt", m.Mem[2])
	assert(t, m.Mem[3] == 0, "mem[3] = %d, want 0 (untouched)", m.Mem[3])
}

func TestLoadProgramRejectsOddLength(t *testing.T) {
	_, err := LoadProgram(bytes.NewReader([]byte{0x01, 0x00, 0xFF}))
	assert(t, errors.Is(err, ErrProgramMalformed), "got %v, want ErrProgramMalformed", err)
}

func TestLoadProgramRejectsOversize(t *testing.T) {
	_, err := LoadProgram(bytes.NewReader(make([]byte, maxProgramBytes+2)))
	assert(t, errors.Is(err, ErrProgramTooLarge), "got %v, want ErrProgramTooLarge", err)
}
