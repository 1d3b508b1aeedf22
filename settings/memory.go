package settings

import "errors"

var ErrOutOfRange = errors.New("address out of range")

// Memory is Storage backed by a byte slice. New memory reads as erased (0xFF).
type Memory struct {
	data []byte

	// Writes counts Put calls
	Writes int
}

// NewMemory returns erased memory of the given size
func NewMemory(size int) *Memory {
	m := &Memory{data: make([]byte, size)}
	m.Erase()
	return m
}

// Erase fills the memory with 0xFF
func (m *Memory) Erase() {
	for i := range m.data {
		m.data[i] = 0xFF
	}
}

func (m *Memory) Get(addr uint16) (byte, error) {
	if int(addr) >= len(m.data) {
		return 0, ErrOutOfRange
	}
	return m.data[addr], nil
}

func (m *Memory) Put(addr uint16, b byte) error {
	if int(addr) >= len(m.data) {
		return ErrOutOfRange
	}
	m.data[addr] = b
	m.Writes++
	return nil
}

// Bytes returns a copy of the content
func (m *Memory) Bytes() []byte {
	return append([]byte(nil), m.data...)
}
