package cpu

// encoder appends the bytes of one instruction.
type encoder struct {
	code []byte
}

func (e *encoder) emit8(value byte) {
	e.code = append(e.code, value)
}

func (e *encoder) emit16(value uint16) {
	e.code = append(e.code, byte(value), byte(value>>8))
}

func (e *encoder) immediate(imm Immediate) {
	if imm.Width == WIDTH_WORD {
		e.emit16(imm.Value)
	} else {
		e.emit8(byte(imm.Value))
	}
}

// modrm appends the mod-reg-rm byte for rm, and any displacement bytes.
func (e *encoder) modrm(reg byte, rm Operand) (err error) {
	reg = (reg & 0b111) << 3

	if rm.Kind == OPERAND_REGISTER {
		e.emit8(0b11_000_000 | reg | rm.Register.Encoding())
		return
	}
	if rm.Kind != OPERAND_MEMORY {
		err = ErrEncodeIncompatible
		return
	}

	ea := rm.Address
	switch {
	case ea.Base == BASE_DIRECT:
		e.emit8(0b00_000_110 | reg)
		e.emit16(ea.Address)
	case ea.Base < BASE_BX_SI || ea.Base > BASE_BX:
		err = ErrMemoryInvalid
	case ea.Disp == DISP_NONE:
		if ea.Base == BASE_BP {
			// mod 00 r/m 110 is the direct address form.
			err = ErrMemoryInvalid
			return
		}
		e.emit8(0b00_000_000 | reg | byte(ea.Base))
	case ea.Disp == DISP_8:
		if ea.Displacement < -128 || ea.Displacement > 127 {
			err = ErrDisplacementRange
			return
		}
		e.emit8(0b01_000_000 | reg | byte(ea.Base))
		e.emit8(byte(int8(ea.Displacement)))
	case ea.Disp == DISP_16:
		e.emit8(0b10_000_000 | reg | byte(ea.Base))
		e.emit16(uint16(ea.Displacement))
	default:
		err = ErrMemoryInvalid
	}

	return
}

// isAccumulator returns true for AL and AX.
func isAccumulator(opnd Operand) bool {
	return opnd.Kind == OPERAND_REGISTER && (opnd.Register == REG_AL || opnd.Register == REG_AX)
}

// isDirect returns true for a direct address memory operand.
func isDirect(opnd Operand) bool {
	return opnd.Kind == OPERAND_MEMORY && opnd.Address.Base == BASE_DIRECT
}

// arithCodes holds, per arithmetic operation, the base opcode of the
// register forms and the op field of the immediate form.
var arithCodes = map[Op]struct {
	base  byte
	field byte
}{
	OP_ADD: {0b0000_0000, 0b000},
	OP_SUB: {0b0010_1000, 0b101},
	OP_CMP: {0b0011_1000, 0b111},
}

func (e *encoder) mov(dest, src Operand) (err error) {
	w := byte(dest.Width())

	switch {
	case dest.Kind == OPERAND_REGISTER && src.Kind == OPERAND_REGISTER,
		dest.Kind == OPERAND_MEMORY && src.Kind == OPERAND_REGISTER:
		if dest.Width() != src.Width() {
			return ErrWidthMismatch
		}
		if isDirect(dest) && isAccumulator(src) {
			e.emit8(0b1010_0010 | w)
			e.emit16(dest.Address.Address)
			return
		}
		e.emit8(0b1000_1000 | w)
		err = e.modrm(src.Register.Encoding(), dest)
	case dest.Kind == OPERAND_REGISTER && src.Kind == OPERAND_MEMORY:
		if dest.Width() != src.Width() {
			return ErrWidthMismatch
		}
		if isAccumulator(dest) && isDirect(src) {
			e.emit8(0b1010_0000 | w)
			e.emit16(src.Address.Address)
			return
		}
		e.emit8(0b1000_1010 | w)
		err = e.modrm(dest.Register.Encoding(), src)
	case dest.Kind == OPERAND_REGISTER && src.Kind == OPERAND_IMMEDIATE:
		if dest.Width() != src.Width() || src.Immediate.Relative {
			return ErrWidthMismatch
		}
		e.emit8(0b1011_0000 | w<<3 | dest.Register.Encoding())
		e.immediate(src.Immediate)
	case dest.Kind == OPERAND_MEMORY && src.Kind == OPERAND_IMMEDIATE:
		if dest.Width() != src.Width() || src.Immediate.Relative {
			return ErrWidthMismatch
		}
		e.emit8(0b1100_0110 | w)
		err = e.modrm(0, dest)
		if err != nil {
			return
		}
		e.immediate(src.Immediate)
	default:
		err = ErrEncodeIncompatible
	}

	return
}

func (e *encoder) arith(op Op, dest, src Operand) (err error) {
	codes := arithCodes[op]
	w := byte(dest.Width())

	switch {
	case dest.Kind == OPERAND_REGISTER && src.Kind == OPERAND_REGISTER,
		dest.Kind == OPERAND_MEMORY && src.Kind == OPERAND_REGISTER:
		if dest.Width() != src.Width() {
			return ErrWidthMismatch
		}
		e.emit8(codes.base | w)
		err = e.modrm(src.Register.Encoding(), dest)
	case dest.Kind == OPERAND_REGISTER && src.Kind == OPERAND_MEMORY:
		if dest.Width() != src.Width() {
			return ErrWidthMismatch
		}
		e.emit8(codes.base | 0b10 | w)
		err = e.modrm(dest.Register.Encoding(), src)
	case (dest.Kind == OPERAND_REGISTER || dest.Kind == OPERAND_MEMORY) && src.Kind == OPERAND_IMMEDIATE:
		imm := src.Immediate
		if imm.Relative {
			return ErrEncodeIncompatible
		}

		var s byte
		switch {
		case imm.Width == dest.Width():
			if isAccumulator(dest) {
				e.emit8(codes.base | 0b100 | w)
				e.immediate(imm)
				return
			}
		case imm.Width == WIDTH_BYTE && dest.Width() == WIDTH_WORD:
			s = 1
		default:
			return ErrWidthMismatch
		}

		e.emit8(0b1000_0000 | s<<1 | w)
		err = e.modrm(codes.field, dest)
		if err != nil {
			return
		}
		e.immediate(imm)
	default:
		err = ErrEncodeIncompatible
	}

	return
}

func (e *encoder) branch(op Op, dest Operand) (err error) {
	if dest.Kind != OPERAND_IMMEDIATE || !dest.Immediate.Relative {
		return ErrEncodeIncompatible
	}

	for n, jcc := range jccOps {
		if jcc == op {
			e.emit8(0b0111_0000 | byte(n))
		}
	}
	for n, loop := range loopOps {
		if loop == op {
			e.emit8(0b1110_0000 | byte(n))
		}
	}
	e.emit8(byte(dest.Immediate.Value))

	return
}

// Encode returns the machine code of inst. Decoding the result yields inst
// with Length set to the encoded length. inst.Length is ignored.
func Encode(inst Instruction) (code []byte, err error) {
	e := &encoder{}

	switch {
	case inst.Op == OP_MOV:
		err = e.mov(inst.Dest, inst.Src)
	case inst.Op.Arithmetic():
		err = e.arith(inst.Op, inst.Dest, inst.Src)
	case inst.Op.Branch():
		if inst.Src.Kind != OPERAND_NONE {
			err = ErrOpcodeExtraArgs
			break
		}
		err = e.branch(inst.Op, inst.Dest)
	default:
		err = ErrEncodeInvalid
	}

	if err != nil {
		return
	}

	code = e.code
	return
}
