package cpu

import (
	"math/bits"
)

// parity returns true if the low byte of value has an even number of set bits.
func parity(value uint16) bool {
	return bits.OnesCount8(uint8(value))%2 == 0
}

// arith computes a+b (OP_ADD) or a-b (OP_SUB, OP_CMP) at the given width.
// It returns the truncated result and the FLAG_ARITH_MASK bits it produces.
func arith(op Op, width Width, a, b uint16) (result uint16, flags uint16) {
	mask := width.Mask()
	sign := width.Sign()
	a &= mask
	b &= mask

	sub := op != OP_ADD

	var full uint32
	if sub {
		full = uint32(a) - uint32(b)
	} else {
		full = uint32(a) + uint32(b)
	}
	result = uint16(full) & mask

	set := func(flag uint16, cond bool) {
		if cond {
			flags |= flag
		}
	}

	set(FLAG_CF, full > uint32(mask))
	set(FLAG_ZF, result == 0)
	set(FLAG_SF, result&sign != 0)
	set(FLAG_PF, parity(result))
	if sub {
		set(FLAG_OF, (a^b)&(a^result)&sign != 0)
		set(FLAG_AF, (a&0xf) < (b&0xf))
	} else {
		set(FLAG_OF, ^(a^b)&(a^result)&sign != 0)
		set(FLAG_AF, (a&0xf)+(b&0xf) > 0xf)
	}

	return
}

// Condition returns true if the conditional jump op is taken under the
// current flags. Loop forms and JCXZ also depend on CX; see Execute.
func (rf *RegisterFile) Condition(op Op) bool {
	cf := rf.Flag(FLAG_CF)
	zf := rf.Flag(FLAG_ZF)
	sf := rf.Flag(FLAG_SF)
	of := rf.Flag(FLAG_OF)
	pf := rf.Flag(FLAG_PF)

	switch op {
	case OP_JE:
		return zf
	case OP_JNE:
		return !zf
	case OP_JL:
		return sf != of
	case OP_JNL:
		return sf == of
	case OP_JLE:
		return zf || sf != of
	case OP_JG:
		return !zf && sf == of
	case OP_JB:
		return cf
	case OP_JNB:
		return !cf
	case OP_JBE:
		return cf || zf
	case OP_JA:
		return !cf && !zf
	case OP_JP:
		return pf
	case OP_JNP:
		return !pf
	case OP_JO:
		return of
	case OP_JNO:
		return !of
	case OP_JS:
		return sf
	case OP_JNS:
		return !sf
	}

	return false
}
