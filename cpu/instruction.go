package cpu

import (
	"fmt"
)

// MAX_INSTRUCTION_LENGTH is the longest encoding of the covered subset, and
// the size of the window handed to Decode.
const MAX_INSTRUCTION_LENGTH = 6

// EffectiveAddress is a memory operand.
type EffectiveAddress struct {
	Base         Base   // Base register combination, or BASE_DIRECT.
	Disp         Disp   // Displacement class.
	Displacement int16  // Signed displacement, for DISP_8 and DISP_16.
	Address      uint16 // Literal offset, for BASE_DIRECT.
	Width        Width  // Number of bytes transferred.
}

// String returns the NASM style rendering, ie "word [bp + si -4]".
func (ea EffectiveAddress) String() string {
	var expr string

	switch {
	case ea.Base == BASE_DIRECT:
		expr = fmt.Sprintf("%d", ea.Address)
	case ea.Disp == DISP_NONE:
		expr = ea.Base.String()
	default:
		expr = fmt.Sprintf("%v %+d", ea.Base, ea.Displacement)
	}

	return fmt.Sprintf("%v [%v]", ea.Width, expr)
}

// Immediate is a literal operand.
type Immediate struct {
	Width    Width  // Encoded width of the literal.
	Value    uint16 // Value, zero extended from Width.
	Relative bool   // Signed 8-bit branch displacement.
}

// Signed returns the value sign extended from its width.
func (imm Immediate) Signed() int16 {
	if imm.Width == WIDTH_BYTE {
		return int16(int8(imm.Value))
	}
	return int16(imm.Value)
}

// Operand is one of a register, a memory reference or an immediate,
// selected by Kind.
type Operand struct {
	Kind      OperandKind
	Register  Register
	Address   EffectiveAddress
	Immediate Immediate
}

// RegisterOperand returns a register operand.
func RegisterOperand(reg Register) Operand {
	return Operand{Kind: OPERAND_REGISTER, Register: reg}
}

// MemoryOperand returns a memory operand.
func MemoryOperand(ea EffectiveAddress) Operand {
	return Operand{Kind: OPERAND_MEMORY, Address: ea}
}

// ImmediateOperand returns an immediate operand of the given width.
func ImmediateOperand(width Width, value uint16) Operand {
	return Operand{Kind: OPERAND_IMMEDIATE, Immediate: Immediate{Width: width, Value: value & width.Mask()}}
}

// RelativeOperand returns the displacement operand of a branch.
func RelativeOperand(disp int8) Operand {
	return Operand{Kind: OPERAND_IMMEDIATE, Immediate: Immediate{Width: WIDTH_BYTE, Value: uint16(uint8(disp)), Relative: true}}
}

// Width returns the operand width implied by the operand itself.
func (opnd Operand) Width() Width {
	switch opnd.Kind {
	case OPERAND_REGISTER:
		return opnd.Register.Width()
	case OPERAND_MEMORY:
		return opnd.Address.Width
	default:
		return opnd.Immediate.Width
	}
}

// String renders the operand the way a disassembly listing prints it.
func (opnd Operand) String() string {
	switch opnd.Kind {
	case OPERAND_REGISTER:
		return opnd.Register.String()
	case OPERAND_MEMORY:
		return opnd.Address.String()
	case OPERAND_IMMEDIATE:
		return fmt.Sprintf("%v %d", opnd.Immediate.Width, opnd.Immediate.Value)
	}
	return ""
}

// Instruction is one decoded instruction.
type Instruction struct {
	Op     Op      // Operation.
	Length int     // Encoded length, in bytes.
	Dest   Operand // Destination, or the branch displacement.
	Src    Operand // Source. OPERAND_NONE for branches.
}

// Target returns the instruction pointer a taken branch at ip transfers to.
func (inst Instruction) Target(ip uint16) uint16 {
	return ip + uint16(inst.Length) + uint16(inst.Dest.Immediate.Signed())
}

// String renders "<mnemonic> <dest>[, <src>]". Immediates print as
// "byte <value>" or "word <value>", except branch displacements: those
// print as NASM's "$+N", relative to the start of the instruction, rather
// than as "byte <displacement>", so that a listing re-assembles. For
// example 75 fc renders as "jne $-2".
func (inst Instruction) String() (text string) {
	text = inst.Op.String()

	switch {
	case inst.Op.Branch():
		offset := int(inst.Dest.Immediate.Signed()) + inst.Length
		text += fmt.Sprintf(" $%+d", offset)
		return
	case inst.Dest.Kind != OPERAND_NONE:
		text += " " + inst.Dest.String()
	}

	if inst.Src.Kind != OPERAND_NONE {
		text += ", " + inst.Src.String()
	}

	return
}
