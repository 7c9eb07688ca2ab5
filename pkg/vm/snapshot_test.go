package vm

import (
	"bytes"
	"errors"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	m := New()
	m.PC = 5
	m.Reg[0] = 1
	m.Reg[7] = 99
	m.Stack = []uint16{10, 20, 30}
	m.Mem[0] = 17
	m.Mem[MemSize-1] = 42

	var buf bytes.Buffer
	assert(t, m.Save(&buf) == nil, "save failed")

	got, err := Load(&buf)
	assert(t, err == nil, "load failed: %v", err)
	assert(t, got.PC == m.PC, "PC = %d, want %d", got.PC, m.PC)
	assert(t, got.Reg == m.Reg, "registers differ: %v != %v", got.Reg, m.Reg)
	assert(t, len(got.Stack) == len(m.Stack), "stack depth = %d, want %d", len(got.Stack), len(m.Stack))
	for i := range m.Stack {
		assert(t, got.Stack[i] == m.Stack[i], "stack[%d] = %d, want %d", i, got.Stack[i], m.Stack[i])
	}
	assert(t, got.Mem == m.Mem, "memory image differs after round-trip")
}

func TestLoadTruncatedHeaderIsCorrupt(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte{0x01, 0x00}))
	assert(t, errors.Is(err, ErrSnapshotCorrupt), "got %v, want ErrSnapshotCorrupt", err)
}

func TestLoadShortMemoryIsCorrupt(t *testing.T) {
	var buf bytes.Buffer
	m := New()
	assert(t, m.Save(&buf) == nil, "save failed")
	truncated := buf.Bytes()[:buf.Len()-4]
	_, err := Load(bytes.NewReader(truncated))
	assert(t, errors.Is(err, ErrSnapshotCorrupt), "got %v, want ErrSnapshotCorrupt", err)
}

func TestLoadOutOfRangePCIsCorrupt(t *testing.T) {
	var buf bytes.Buffer
	m := New()
	m.PC = MemSize - 1
	assert(t, m.Save(&buf) == nil, "save failed")

	raw := buf.Bytes()
	raw[0] = 0x00
	raw[1] = 0x80 // PC = 0x8000 = 32768, one past the last valid address
	_, err := Load(bytes.NewReader(raw))
	assert(t, errors.Is(err, ErrSnapshotCorrupt), "got %v, want ErrSnapshotCorrupt", err)
}

func TestLoadTrailingDataIsCorrupt(t *testing.T) {
	var buf bytes.Buffer
	m := New()
	assert(t, m.Save(&buf) == nil, "save failed")
	buf.Write([]byte{0xAA, 0xBB})
	_, err := Load(&buf)
	assert(t, errors.Is(err, ErrSnapshotCorrupt), "got %v, want ErrSnapshotCorrupt", err)
}
