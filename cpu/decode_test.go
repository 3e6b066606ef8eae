package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		window []byte
		text   string
		length int
	}){
		{[]byte{0x89, 0xd9}, "mov cx, bx", 2},
		{[]byte{0x88, 0xe5}, "mov ch, ah", 2},
		{[]byte{0xa1, 0x21, 0x00}, "mov ax, word [33]", 3},
		{[]byte{0xa0, 0x34, 0x12}, "mov al, byte [4660]", 3},
		{[]byte{0xa3, 0x0f, 0x00}, "mov word [15], ax", 3},
		{[]byte{0x8b, 0x5c, 0x21}, "mov bx, word [si +33]", 3},
		{[]byte{0x8b, 0x94, 0xd0, 0x07}, "mov dx, word [si +2000]", 4},
		{[]byte{0x8b, 0x46, 0x00}, "mov ax, word [bp +0]", 3},
		{[]byte{0x8b, 0x56, 0xfc}, "mov dx, word [bp -4]", 3},
		{[]byte{0x8b, 0x06, 0x10, 0x00}, "mov ax, word [16]", 4},
		{[]byte{0x8a, 0x00}, "mov al, byte [bx + si]", 2},
		{[]byte{0x89, 0x09}, "mov word [bx + di], cx", 2},
		{[]byte{0xc6, 0x03, 0x07}, "mov byte [bp + di], byte 7", 3},
		{[]byte{0xc7, 0x85, 0x85, 0x03, 0x5b, 0x01}, "mov word [di +901], word 347", 6},
		{[]byte{0xb1, 0x0c}, "mov cl, byte 12", 2},
		{[]byte{0xb9, 0x0c, 0x00}, "mov cx, word 12", 3},
		{[]byte{0x03, 0x18}, "add bx, word [bx + si]", 2},
		{[]byte{0x83, 0xc6, 0x02}, "add si, byte 2", 3},
		{[]byte{0x05, 0xe8, 0x03}, "add ax, word 1000", 3},
		{[]byte{0x29, 0xd8}, "sub ax, bx", 2},
		{[]byte{0x83, 0xeb, 0x05}, "sub bx, byte 5", 3},
		{[]byte{0x2c, 0x09}, "sub al, byte 9", 2},
		{[]byte{0x39, 0xd8}, "cmp ax, bx", 2},
		{[]byte{0x81, 0xfb, 0x10, 0x27}, "cmp bx, word 10000", 4},
		{[]byte{0x3c, 0x09}, "cmp al, byte 9", 2},
		{[]byte{0x75, 0x02}, "jne $+4", 2},
		{[]byte{0x75, 0xfc}, "jne $-2", 2},
		{[]byte{0x74, 0x00}, "je $+2", 2},
		{[]byte{0x7c, 0x10}, "jl $+18", 2},
		{[]byte{0x7f, 0xfe}, "jg $+0", 2},
		{[]byte{0xe2, 0xfe}, "loop $+0", 2},
		{[]byte{0xe1, 0x04}, "loopz $+6", 2},
		{[]byte{0xe0, 0x04}, "loopnz $+6", 2},
		{[]byte{0xe3, 0x05}, "jcxz $+7", 2},
	}

	for _, entry := range table {
		window := make([]byte, MAX_INSTRUCTION_LENGTH)
		copy(window, entry.window)

		inst, err := Decode(window)
		if !assert.NoError(err, entry.text) {
			continue
		}
		assert.Equal(entry.text, inst.String())
		assert.Equal(entry.length, inst.Length, entry.text)

		// Exactly sized windows decode identically.
		exact, err := Decode(entry.window)
		assert.NoError(err, entry.text)
		assert.Equal(inst, exact, entry.text)
	}
}

func TestDecode_Operands(t *testing.T) {
	assert := assert.New(t)

	inst, err := Decode([]byte{0xa1, 0x21, 0x00})
	assert.NoError(err)
	assert.Equal(Instruction{
		Op:     OP_MOV,
		Length: 3,
		Dest:   RegisterOperand(REG_AX),
		Src:    MemoryOperand(EffectiveAddress{Base: BASE_DIRECT, Address: 33, Width: WIDTH_WORD}),
	}, inst)

	// mod 00 r/m 110 is a direct address, never [si].
	inst, err = Decode([]byte{0x8b, 0x1e, 0x21, 0x00})
	assert.NoError(err)
	assert.Equal(4, inst.Length)
	assert.Equal(BASE_DIRECT, inst.Src.Address.Base)
	assert.Equal(uint16(33), inst.Src.Address.Address)

	inst, err = Decode([]byte{0x8b, 0x94, 0xd0, 0x07})
	assert.NoError(err)
	assert.Equal(EffectiveAddress{Base: BASE_SI, Disp: DISP_16, Displacement: 2000, Width: WIDTH_WORD}, inst.Src.Address)

	// s=1 keeps the byte immediate; Execute sign extends it.
	inst, err = Decode([]byte{0x83, 0xc3, 0xff})
	assert.NoError(err)
	assert.Equal(ImmediateOperand(WIDTH_BYTE, 0xff), inst.Src)
	assert.Equal(int16(-1), inst.Src.Immediate.Signed())

	inst, err = Decode([]byte{0x75, 0xfc})
	assert.NoError(err)
	assert.Equal(RelativeOperand(-4), inst.Dest)
	assert.Equal(OPERAND_NONE, inst.Src.Kind)
	assert.Equal(uint16(8), inst.Target(10))
}

func TestDecode_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := Decode(nil)
	assert.ErrorIs(err, ErrOutOfBounds)

	_, err = Decode([]byte{0x0f, 0, 0, 0, 0, 0})
	assert.ErrorIs(err, ErrOpcodeUnsupported)
	assert.Equal(ErrOpcode(0x0f), err)

	// 100000sw with op field 001 (OR) is outside the subset.
	_, err = Decode([]byte{0x80, 0x08, 0x01, 0, 0, 0})
	assert.ErrorIs(err, ErrOpcodeUnsupported)

	// 1100011w requires a zero reg field.
	_, err = Decode([]byte{0xc6, 0x08, 0x01, 0, 0, 0})
	assert.ErrorIs(err, ErrOpcodeUnsupported)

	_, err = Decode([]byte{0x8b, 0x94, 0xd0})
	assert.ErrorIs(err, ErrOutOfBounds)
	var ew *ErrWindow
	if assert.True(errors.As(err, &ew)) {
		assert.Equal(4, ew.Need)
		assert.Equal(3, ew.Have)
	}
}
