package cpu

import (
	"iter"
)

// Opcode is one assembled source line.
type Opcode struct {
	LineNo      int         // Source line number.
	Ip          int         // Offset of the first byte.
	Words       []string    // Mnemonic and operand text.
	Instruction Instruction // Decoded form of Bytes.
	Bytes       []byte      // Machine code.
	LinkLabel   string      // Branch target, resolved when linking.
}

// Program is an assembled instruction listing.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Offset int // Byte offset of ip inside the opcode.
}

// Debug finds the opcode whose bytes contain ip.
func (prog *Program) Debug(ip uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(ip) >= op.Ip && int(ip) < op.Ip+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Offset: int(ip) - op.Ip,
			}
			break
		}
	}

	return
}

// Binary returns the program image.
func (prog *Program) Binary() (bin []byte) {
	for _, op := range prog.Opcodes {
		bin = append(bin, op.Bytes...)
	}

	return
}

// Instructions iterates over the instructions and their offsets.
func (prog *Program) Instructions() iter.Seq2[uint16, Instruction] {
	return func(yield func(ip uint16, inst Instruction) bool) {
		for _, op := range prog.Opcodes {
			if !yield(uint16(op.Ip), op.Instruction) {
				return
			}
		}
	}
}
