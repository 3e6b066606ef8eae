package cpu

// Op is the operation tag of a decoded instruction.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_UNKNOWN = Op(0)  // unknown
	OP_MOV     = Op(1)  // mov
	OP_ADD     = Op(2)  // add
	OP_SUB     = Op(3)  // sub
	OP_CMP     = Op(4)  // cmp
	OP_JE      = Op(5)  // je
	OP_JL      = Op(6)  // jl
	OP_JLE     = Op(7)  // jle
	OP_JB      = Op(8)  // jb
	OP_JBE     = Op(9)  // jbe
	OP_JP      = Op(10) // jp
	OP_JO      = Op(11) // jo
	OP_JS      = Op(12) // js
	OP_JNE     = Op(13) // jne
	OP_JNL     = Op(14) // jnl
	OP_JG      = Op(15) // jg
	OP_JNB     = Op(16) // jnb
	OP_JA      = Op(17) // ja
	OP_JNP     = Op(18) // jnp
	OP_JNO     = Op(19) // jno
	OP_JNS     = Op(20) // jns
	OP_LOOP    = Op(21) // loop
	OP_LOOPZ   = Op(22) // loopz
	OP_LOOPNZ  = Op(23) // loopnz
	OP_JCXZ    = Op(24) // jcxz
)

// Branch returns true for the conditional jump and loop family, whose single
// operand is a relative displacement.
func (op Op) Branch() bool {
	return op >= OP_JE && op <= OP_JCXZ
}

// Arithmetic returns true for the operations that update the flags.
func (op Op) Arithmetic() bool {
	return op == OP_ADD || op == OP_SUB || op == OP_CMP
}

// Width is the size of an operand.
type Width int

//go:generate go tool stringer -linecomment -type=Width
const (
	WIDTH_BYTE = Width(0) // byte
	WIDTH_WORD = Width(1) // word
)

// widthOf maps the 'w' bit of an encoding to a Width.
func widthOf(w byte) Width {
	return Width(w & 1)
}

// Mask returns the bits covered by the width.
func (w Width) Mask() uint16 {
	if w == WIDTH_WORD {
		return 0xffff
	}
	return 0x00ff
}

// Sign returns the sign bit of the width.
func (w Width) Sign() uint16 {
	if w == WIDTH_WORD {
		return 0x8000
	}
	return 0x0080
}

// Bytes returns the number of bytes transferred by the width.
func (w Width) Bytes() int {
	return int(w) + 1
}

// OperandKind is the variant tag of an Operand.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	OPERAND_NONE      = OperandKind(0) // none
	OPERAND_REGISTER  = OperandKind(1) // register
	OPERAND_MEMORY    = OperandKind(2) // memory
	OPERAND_IMMEDIATE = OperandKind(3) // immediate
)

// Base is the base register combination of an effective address, in the
// order of the 3-bit r/m field of the mod-reg-rm byte.
type Base int

//go:generate go tool stringer -linecomment -type=Base
const (
	BASE_BX_SI  = Base(0) // bx + si
	BASE_BX_DI  = Base(1) // bx + di
	BASE_BP_SI  = Base(2) // bp + si
	BASE_BP_DI  = Base(3) // bp + di
	BASE_SI     = Base(4) // si
	BASE_DI     = Base(5) // di
	BASE_BP     = Base(6) // bp
	BASE_BX     = Base(7) // bx
	BASE_DIRECT = Base(8) // direct
)

// Registers returns the base registers summed by the effective address.
func (base Base) Registers() []Register {
	return baseRegisters[base]
}

var baseRegisters = [...][]Register{
	BASE_BX_SI:  {REG_BX, REG_SI},
	BASE_BX_DI:  {REG_BX, REG_DI},
	BASE_BP_SI:  {REG_BP, REG_SI},
	BASE_BP_DI:  {REG_BP, REG_DI},
	BASE_SI:     {REG_SI},
	BASE_DI:     {REG_DI},
	BASE_BP:     {REG_BP},
	BASE_BX:     {REG_BX},
	BASE_DIRECT: nil,
}

// Disp is the displacement class of an effective address.
type Disp int

//go:generate go tool stringer -linecomment -type=Disp
const (
	DISP_NONE = Disp(0) // none
	DISP_8    = Disp(1) // disp8
	DISP_16   = Disp(2) // disp16
)
