package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Register names one of the 16 registers an instruction can address.
// The first eight are the byte halves, the last eight the word registers,
// each group in the order of the 3-bit reg field.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_AL = Register(0)  // al
	REG_CL = Register(1)  // cl
	REG_DL = Register(2)  // dl
	REG_BL = Register(3)  // bl
	REG_AH = Register(4)  // ah
	REG_CH = Register(5)  // ch
	REG_DH = Register(6)  // dh
	REG_BH = Register(7)  // bh
	REG_AX = Register(8)  // ax
	REG_CX = Register(9)  // cx
	REG_DX = Register(10) // dx
	REG_BX = Register(11) // bx
	REG_SP = Register(12) // sp
	REG_BP = Register(13) // bp
	REG_SI = Register(14) // si
	REG_DI = Register(15) // di
)

// decodeRegister maps a 3-bit reg field and a 'w' bit to a Register.
func decodeRegister(reg byte, w byte) Register {
	return Register((w&1)<<3 | (reg & 7))
}

// Width returns the width of the register.
func (reg Register) Width() Width {
	return Width(reg >> 3)
}

// Encoding returns the 3-bit reg field value of the register.
func (reg Register) Encoding() byte {
	return byte(reg & 7)
}

// word returns the index of the word register holding reg, and the bit
// shift of reg inside it.
func (reg Register) word() (index int, shift uint) {
	if reg.Width() == WIDTH_WORD {
		return int(reg & 7), 0
	}
	return int(reg & 3), uint(reg&4) << 1
}

// Flag bits of the flags word, at their 8086 positions.
const (
	FLAG_CF = uint16(1 << 0)  // Carry
	FLAG_PF = uint16(1 << 2)  // Parity
	FLAG_AF = uint16(1 << 4)  // Auxiliary carry
	FLAG_ZF = uint16(1 << 6)  // Zero
	FLAG_SF = uint16(1 << 7)  // Sign
	FLAG_OF = uint16(1 << 11) // Overflow

	FLAG_ARITH_MASK = FLAG_CF | FLAG_PF | FLAG_AF | FLAG_ZF | FLAG_SF | FLAG_OF
)

var flagNames = []struct {
	mask uint16
	name string
}{
	{FLAG_CF, "C"},
	{FLAG_PF, "P"},
	{FLAG_AF, "A"},
	{FLAG_ZF, "Z"},
	{FLAG_SF, "S"},
	{FLAG_OF, "O"},
}

// FlagNames returns the letters of the flags set in flags.
func FlagNames(flags uint16) (names string) {
	for _, flag := range flagNames {
		if flags&flag.mask != 0 {
			names += flag.name
		}
	}
	return
}

// RegisterFile is the architectural register state.
// Byte registers are views on the low or high half of their word register;
// there is no separate storage for them.
type RegisterFile struct {
	Word  [8]uint16 // ax, cx, dx, bx, sp, bp, si, di
	Ip    uint16    // Offset of the next unconsumed program byte.
	Flags uint16    // FLAG_* bits.
}

// Get returns the value of reg, zero extended for byte registers.
func (rf *RegisterFile) Get(reg Register) uint16 {
	index, shift := reg.word()
	return (rf.Word[index] >> shift) & reg.Width().Mask()
}

// Set writes value to reg. Writing a byte register leaves the other half of
// the word register untouched.
func (rf *RegisterFile) Set(reg Register, value uint16) {
	index, shift := reg.word()
	mask := reg.Width().Mask() << shift
	rf.Word[index] = (rf.Word[index] &^ mask) | ((value << shift) & mask)
}

// Flag returns true if every bit of mask is set in the flags word.
func (rf *RegisterFile) Flag(mask uint16) bool {
	return rf.Flags&mask == mask
}

// SetFlag sets or clears the bits of mask in the flags word.
func (rf *RegisterFile) SetFlag(mask uint16, set bool) {
	if set {
		rf.Flags |= mask
	} else {
		rf.Flags &^= mask
	}
}

// Reset clears all registers and flags.
func (rf *RegisterFile) Reset() {
	*rf = RegisterFile{}
}

// String returns the register state, one register per line: word registers
// as 4 hex digits, flags in binary, and the instruction pointer in decimal.
func (rf *RegisterFile) String() string {
	var text strings.Builder

	for reg := REG_AX; reg <= REG_DI; reg++ {
		fmt.Fprintf(&text, "%5s: 0x%04x\n", reg.String(), rf.Get(reg))
	}
	fmt.Fprintf(&text, "%5s: %d\n", "ip", rf.Ip)
	line := fmt.Sprintf("%5s: %016b %v", "flags", rf.Flags, FlagNames(rf.Flags))
	text.WriteString(strings.TrimRight(line, " ") + "\n")

	return text.String()
}

// Defines returns an iterator over the register values, by name: every
// register, "ip", "flags", and each flag bit as "cf", "zf", ...
func (rf *RegisterFile) Defines() iter.Seq2[string, string] {
	return func(yield func(name string, value string) bool) {
		for reg := REG_AL; reg <= REG_DI; reg++ {
			if !yield(reg.String(), fmt.Sprintf("%d", rf.Get(reg))) {
				return
			}
		}
		if !yield("ip", fmt.Sprintf("%d", rf.Ip)) {
			return
		}
		if !yield("flags", fmt.Sprintf("%d", rf.Flags)) {
			return
		}
		for _, flag := range flagNames {
			value := "0"
			if rf.Flag(flag.mask) {
				value = "1"
			}
			if !yield(strings.ToLower(flag.name)+"f", value) {
				return
			}
		}
	}
}
