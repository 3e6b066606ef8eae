package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterFile_Alias(t *testing.T) {
	assert := assert.New(t)

	rf := &RegisterFile{}

	rf.Set(REG_AX, 0x1234)
	rf.Set(REG_AL, 0xff)
	assert.Equal(uint16(0x12ff), rf.Get(REG_AX))
	assert.Equal(uint16(0x12), rf.Get(REG_AH))
	assert.Equal(uint16(0xff), rf.Get(REG_AL))

	rf.Set(REG_AH, 0xab)
	assert.Equal(uint16(0xabff), rf.Get(REG_AX))
	assert.Equal(uint16(0xff), rf.Get(REG_AL))

	// Values wider than the register are truncated.
	rf.Set(REG_BH, 0x1cd)
	assert.Equal(uint16(0xcd00), rf.Get(REG_BX))

	rf.Set(REG_DL, 0x5a)
	rf.Set(REG_DH, 0xa5)
	assert.Equal(uint16(0xa55a), rf.Get(REG_DX))
	assert.Equal(uint16(0), rf.Get(REG_CX))

	rf.Set(REG_SI, 0x8001)
	assert.Equal(uint16(0x8001), rf.Word[REG_SI.Encoding()])
}

func TestRegister(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		reg   byte
		w     byte
		name  string
		width Width
	}){
		{0b000, 0, "al", WIDTH_BYTE},
		{0b100, 0, "ah", WIDTH_BYTE},
		{0b111, 0, "bh", WIDTH_BYTE},
		{0b000, 1, "ax", WIDTH_WORD},
		{0b011, 1, "bx", WIDTH_WORD},
		{0b100, 1, "sp", WIDTH_WORD},
		{0b111, 1, "di", WIDTH_WORD},
	}

	for _, entry := range table {
		reg := decodeRegister(entry.reg, entry.w)
		assert.Equal(entry.name, reg.String())
		assert.Equal(entry.width, reg.Width(), entry.name)
		assert.Equal(entry.reg, reg.Encoding(), entry.name)
	}
}

func TestRegisterFile_String(t *testing.T) {
	assert := assert.New(t)

	rf := &RegisterFile{}
	rf.Set(REG_AX, 0x1234)
	rf.Set(REG_DI, 0xbeef)
	rf.Ip = 14
	rf.SetFlag(FLAG_ZF|FLAG_PF, true)

	expected := "" +
		"   ax: 0x1234\n" +
		"   cx: 0x0000\n" +
		"   dx: 0x0000\n" +
		"   bx: 0x0000\n" +
		"   sp: 0x0000\n" +
		"   bp: 0x0000\n" +
		"   si: 0x0000\n" +
		"   di: 0xbeef\n" +
		"   ip: 14\n" +
		"flags: 0000000001000100 PZ\n"
	assert.Equal(expected, rf.String())

	rf.Reset()
	assert.Equal(RegisterFile{}, *rf)
	assert.Contains(rf.String(), "flags: 0000000000000000\n")
}

func TestFlagNames(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", FlagNames(0))
	assert.Equal("CPAZSO", FlagNames(FLAG_ARITH_MASK))
	assert.Equal("ZS", FlagNames(FLAG_SF|FLAG_ZF))
}

func TestRegisterFile_Defines(t *testing.T) {
	assert := assert.New(t)

	rf := &RegisterFile{Ip: 7}
	rf.Set(REG_AX, 0x1234)
	rf.SetFlag(FLAG_ZF, true)

	defines := map[string]string{}
	for name, value := range rf.Defines() {
		defines[name] = value
	}

	assert.Equal(16+2+6, len(defines))
	assert.Equal("4660", defines["ax"])
	assert.Equal("52", defines["al"])
	assert.Equal("18", defines["ah"])
	assert.Equal("0", defines["bx"])
	assert.Equal("7", defines["ip"])
	assert.Equal("64", defines["flags"])
	assert.Equal("1", defines["zf"])
	assert.Equal("0", defines["cf"])
}
