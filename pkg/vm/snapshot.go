package vm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Save serialises the complete architectural state to w per §4.5:
// little-endian 16-bit words, in order: PC, stack depth, stack entries
// (bottom first), the eight registers, then the full memory image.
// Console and Trace are not part of the architectural state and are not
// saved; a resumed VM has neither attached until the caller sets them.
func (vm *VM) Save(w io.Writer) error {
	bw := newWordWriter(w)
	bw.put(vm.PC)
	bw.put(uint16(len(vm.Stack)))
	for _, v := range vm.Stack {
		bw.put(v)
	}
	for _, v := range vm.Reg {
		bw.put(v)
	}
	for _, v := range vm.Mem {
		bw.put(v)
	}
	return bw.err
}

// Load reads a snapshot per the Save layout and returns a VM ready to
// resume at the saved PC. Any structural inconsistency — a truncated
// file, a stack depth that doesn't leave room for the fixed register
// and memory sections, or a memory section of the wrong length — is
// ErrSnapshotCorrupt, since versioning of the format is implicit and any
// divergence is fatal per §4.5.
func Load(r io.Reader) (*VM, error) {
	br := newWordReader(r)

	pc := br.get()
	depth := br.get()
	if br.err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotCorrupt, br.err)
	}
	if pc >= MemSize {
		return nil, fmt.Errorf("%w: pc %d out of range", ErrSnapshotCorrupt, pc)
	}

	m := New()
	m.PC = pc
	m.Stack = make([]uint16, depth)
	for i := range m.Stack {
		m.Stack[i] = br.get()
	}
	for i := range m.Reg {
		m.Reg[i] = br.get()
	}
	for i := range m.Mem {
		m.Mem[i] = br.get()
	}
	if br.err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotCorrupt, br.err)
	}

	// A well-formed snapshot ends exactly at the last memory word; any
	// trailing bytes indicate a header/length mismatch.
	var extra [1]byte
	if n, _ := r.Read(extra[:]); n > 0 {
		return nil, fmt.Errorf("%w: trailing data after memory image", ErrSnapshotCorrupt)
	}

	return m, nil
}

// wordWriter writes little-endian 16-bit words, latching the first
// error so call sites can ignore per-word errors and check once at
// the end — the same accumulate-then-check shape as bufio.Writer.
type wordWriter struct {
	w   io.Writer
	err error
	buf [2]byte
}

func newWordWriter(w io.Writer) *wordWriter {
	return &wordWriter{w: w}
}

func (bw *wordWriter) put(v uint16) {
	if bw.err != nil {
		return
	}
	binary.LittleEndian.PutUint16(bw.buf[:], v)
	_, bw.err = bw.w.Write(bw.buf[:])
}

type wordReader struct {
	r   io.Reader
	err error
	buf [2]byte
}

func newWordReader(r io.Reader) *wordReader {
	return &wordReader{r: r}
}

func (br *wordReader) get() uint16 {
	if br.err != nil {
		return 0
	}
	if _, err := io.ReadFull(br.r, br.buf[:]); err != nil {
		br.err = err
		return 0
	}
	return binary.LittleEndian.Uint16(br.buf[:])
}
