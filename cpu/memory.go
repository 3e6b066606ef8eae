package cpu

import (
	"encoding/binary"
)

const (
	MEMORY_SIZE = 1 << 20 // Flat data memory, in bytes.
)

// Memory is the flat, zero initialized data memory. Offsets are unsigned
// 16-bit; there is no segmentation.
type Memory struct {
	Data []byte
}

// NewMemory allocates a zeroed memory of MEMORY_SIZE bytes.
func NewMemory() *Memory {
	return &Memory{Data: make([]byte, MEMORY_SIZE)}
}

// Reset zeroes the memory contents.
func (mem *Memory) Reset() {
	clear(mem.Data)
}

func (mem *Memory) span(addr uint16, width Width) (data []byte, err error) {
	end := int(addr) + width.Bytes()
	if end > len(mem.Data) {
		err = ErrOutOfBounds
		return
	}

	data = mem.Data[addr:end]
	return
}

// Read returns the little-endian value of the given width at addr.
func (mem *Memory) Read(addr uint16, width Width) (value uint16, err error) {
	data, err := mem.span(addr, width)
	if err != nil {
		return
	}

	if width == WIDTH_WORD {
		value = binary.LittleEndian.Uint16(data)
	} else {
		value = uint16(data[0])
	}

	return
}

// Write stores value at addr, truncated to width, little-endian.
func (mem *Memory) Write(addr uint16, width Width, value uint16) (err error) {
	data, err := mem.span(addr, width)
	if err != nil {
		return
	}

	if width == WIDTH_WORD {
		binary.LittleEndian.PutUint16(data, value)
	} else {
		data[0] = byte(value)
	}

	return
}

// Load copies data into memory starting at offset.
func (mem *Memory) Load(offset int, data []byte) (err error) {
	if offset < 0 || offset+len(data) > len(mem.Data) {
		err = ErrOutOfBounds
		return
	}

	copy(mem.Data[offset:], data)
	return
}
