package vm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxProgramBytes is the largest program image this VM will load: every
// memory cell filled, two bytes per little-endian word.
const maxProgramBytes = MemSize * 2

// LoadProgram reads a sequence of little-endian 16-bit words from r into
// a fresh VM starting at address 0; any cells beyond the file's length
// are left zero. The file must be at most 65536 bytes (32768 words); a
// longer file is ErrProgramTooLarge. An odd-length file is rejected: a
// half-word at the end cannot be part of a well-formed image.
func LoadProgram(r io.Reader) (*VM, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxProgramBytes+1))
	if err != nil {
		return nil, fmt.Errorf("vm: reading program: %w", err)
	}
	if len(raw) > maxProgramBytes {
		return nil, ErrProgramTooLarge
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%w: odd-length program file", ErrProgramMalformed)
	}

	m := New()
	for i := 0; i+1 < len(raw); i += 2 {
		m.Mem[i/2] = binary.LittleEndian.Uint16(raw[i:])
	}
	return m, nil
}
