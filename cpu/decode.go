// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// decoder consumes the bytes of a decode window.
type decoder struct {
	window []byte
	pos    int
}

// next returns the next byte of the window, or zero past its end.
// Reads past the end are reported by Decode from the final position.
func (d *decoder) next() (value byte) {
	if d.pos < len(d.window) {
		value = d.window[d.pos]
	}
	d.pos++
	return
}

// word returns the next little-endian 16-bit value.
func (d *decoder) word() uint16 {
	lo := d.next()
	hi := d.next()
	return uint16(hi)<<8 | uint16(lo)
}

// immediate returns the next 8 or 16-bit literal.
func (d *decoder) immediate(width Width) Operand {
	if width == WIDTH_WORD {
		return ImmediateOperand(WIDTH_WORD, d.word())
	}
	return ImmediateOperand(WIDTH_BYTE, uint16(d.next()))
}

// rm decodes the mod and r/m fields of a mod-reg-rm byte, consuming any
// displacement bytes.
func (d *decoder) rm(modrm byte, w byte) Operand {
	mod := modrm >> 6
	rm := modrm & 0b111
	width := widthOf(w)

	switch mod {
	case 0b11:
		return RegisterOperand(decodeRegister(rm, w))
	case 0b01:
		disp := int16(int8(d.next()))
		return MemoryOperand(EffectiveAddress{Base: Base(rm), Disp: DISP_8, Displacement: disp, Width: width})
	case 0b10:
		disp := int16(d.word())
		return MemoryOperand(EffectiveAddress{Base: Base(rm), Disp: DISP_16, Displacement: disp, Width: width})
	}

	// mod 00, r/m 110 is a direct address, not [bp].
	if rm == 0b110 {
		return MemoryOperand(EffectiveAddress{Base: BASE_DIRECT, Address: d.word(), Width: width})
	}

	return MemoryOperand(EffectiveAddress{Base: Base(rm), Width: width})
}

// decodeForm is one recognized bit pattern of the leading byte.
type decodeForm struct {
	mask   byte
	value  byte
	decode func(d *decoder, op byte) (Instruction, error)
}

// decodeForms are tested in order; the first match wins.
var decodeForms = []decodeForm{
	{0b1111_1100, 0b1000_1000, regRm(OP_MOV)},    // MOV r/m to/from reg
	{0b1111_1110, 0b1100_0110, decodeMovImmRm},   // MOV imm to r/m
	{0b1111_0000, 0b1011_0000, decodeMovImmReg},  // MOV imm to reg
	{0b1111_1110, 0b1010_0000, decodeMovAcc},     // MOV mem to acc
	{0b1111_1110, 0b1010_0010, decodeMovAcc},     // MOV acc to mem
	{0b1111_1100, 0b0000_0000, regRm(OP_ADD)},    // ADD r/m with reg
	{0b1111_1100, 0b1000_0000, decodeArithImmRm}, // ADD/SUB/CMP imm to r/m
	{0b1111_1110, 0b0000_0100, immAcc(OP_ADD)},   // ADD imm to acc
	{0b1111_1100, 0b0010_1000, regRm(OP_SUB)},    // SUB r/m with reg
	{0b1111_1110, 0b0010_1100, immAcc(OP_SUB)},   // SUB imm from acc
	{0b1111_1100, 0b0011_1000, regRm(OP_CMP)},    // CMP r/m with reg
	{0b1111_1110, 0b0011_1100, immAcc(OP_CMP)},   // CMP imm with acc
	{0b1111_0000, 0b0111_0000, decodeJcc},        // Jcc
	{0b1111_1100, 0b1110_0000, decodeLoop},       // LOOPNZ, LOOPZ, LOOP, JCXZ
}

// regRm decodes the "r/m with register, to either" forms: 0bxxxxxxdw, modregrm.
func regRm(operation Op) func(d *decoder, op byte) (Instruction, error) {
	return func(d *decoder, op byte) (inst Instruction, err error) {
		dir := (op >> 1) & 1
		w := op & 1
		modrm := d.next()

		reg := RegisterOperand(decodeRegister(modrm>>3, w))
		rm := d.rm(modrm, w)

		inst = Instruction{Op: operation, Dest: rm, Src: reg}
		if dir == 1 {
			inst.Dest, inst.Src = reg, rm
		}
		return
	}
}

// decodeMovImmRm decodes 1100011w, mod000rm, disp, data.
func decodeMovImmRm(d *decoder, op byte) (inst Instruction, err error) {
	w := op & 1
	modrm := d.next()
	if (modrm>>3)&0b111 != 0 {
		err = ErrOpcode(op)
		return
	}

	dest := d.rm(modrm, w)
	src := d.immediate(widthOf(w))

	inst = Instruction{Op: OP_MOV, Dest: dest, Src: src}
	return
}

// decodeMovImmReg decodes 1011wreg, data.
func decodeMovImmReg(d *decoder, op byte) (inst Instruction, err error) {
	w := (op >> 3) & 1
	dest := RegisterOperand(decodeRegister(op, w))
	src := d.immediate(widthOf(w))

	inst = Instruction{Op: OP_MOV, Dest: dest, Src: src}
	return
}

// decodeMovAcc decodes 101000dw, addr-lo, addr-hi. The address is always
// 16 bits; 'd' set stores the accumulator.
func decodeMovAcc(d *decoder, op byte) (inst Instruction, err error) {
	w := op & 1
	acc := RegisterOperand(decodeRegister(0, w))
	mem := MemoryOperand(EffectiveAddress{Base: BASE_DIRECT, Address: d.word(), Width: widthOf(w)})

	inst = Instruction{Op: OP_MOV, Dest: acc, Src: mem}
	if (op>>1)&1 == 1 {
		inst.Dest, inst.Src = mem, acc
	}
	return
}

// arithOps maps the op field of the 100000sw form.
var arithOps = [8]Op{
	0b000: OP_ADD,
	0b101: OP_SUB,
	0b111: OP_CMP,
}

// decodeArithImmRm decodes 100000sw, mod op rm, disp, data. A word
// destination with 's' set carries a single data byte.
func decodeArithImmRm(d *decoder, op byte) (inst Instruction, err error) {
	s := (op >> 1) & 1
	w := op & 1
	modrm := d.next()

	operation := arithOps[(modrm>>3)&0b111]
	if operation == OP_UNKNOWN {
		err = ErrOpcode(op)
		return
	}

	dest := d.rm(modrm, w)

	width := widthOf(w)
	if s == 1 {
		width = WIDTH_BYTE
	}
	src := d.immediate(width)

	inst = Instruction{Op: operation, Dest: dest, Src: src}
	return
}

// immAcc decodes the "immediate with accumulator" forms: 0bxxxxxx0w, data.
func immAcc(operation Op) func(d *decoder, op byte) (Instruction, error) {
	return func(d *decoder, op byte) (inst Instruction, err error) {
		w := op & 1
		dest := RegisterOperand(decodeRegister(0, w))
		src := d.immediate(widthOf(w))

		inst = Instruction{Op: operation, Dest: dest, Src: src}
		return
	}
}

// jccOps maps the low nibble of 0111cccc.
var jccOps = [16]Op{
	OP_JO, OP_JNO, OP_JB, OP_JNB, OP_JE, OP_JNE, OP_JBE, OP_JA,
	OP_JS, OP_JNS, OP_JP, OP_JNP, OP_JL, OP_JNL, OP_JLE, OP_JG,
}

// decodeJcc decodes 0111cccc, disp8.
func decodeJcc(d *decoder, op byte) (inst Instruction, err error) {
	disp := int8(d.next())
	inst = Instruction{Op: jccOps[op&0xf], Dest: RelativeOperand(disp)}
	return
}

// loopOps maps the low two bits of 111000xx.
var loopOps = [4]Op{OP_LOOPNZ, OP_LOOPZ, OP_LOOP, OP_JCXZ}

// decodeLoop decodes 111000xx, disp8.
func decodeLoop(d *decoder, op byte) (inst Instruction, err error) {
	disp := int8(d.next())
	inst = Instruction{Op: loopOps[op&0b11], Dest: RelativeOperand(disp)}
	return
}

// Decode decodes the instruction at the start of window, and sets its
// length to the number of bytes consumed. The window must hold the whole
// encoding; a window of MAX_INSTRUCTION_LENGTH bytes always does.
// Decode has no side effects.
func Decode(window []byte) (inst Instruction, err error) {
	if len(window) == 0 {
		err = &ErrWindow{Need: 1, Have: 0}
		return
	}

	d := &decoder{window: window}
	op := d.next()

	for _, form := range decodeForms {
		if op&form.mask != form.value {
			continue
		}

		inst, err = form.decode(d, op)
		if err != nil {
			inst = Instruction{}
			return
		}

		if d.pos > len(window) {
			inst = Instruction{}
			err = &ErrWindow{Need: d.pos, Have: len(window)}
			return
		}

		inst.Length = d.pos
		return
	}

	err = ErrOpcode(op)
	return
}
