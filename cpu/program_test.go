package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, lines ...string) *Program {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"mov cx, 3",    // 0..2
		"mov ax, bx",   // 3..4
		"add ax, [bx]", // 5..6
		"loop $-4",     // 7..8
	)

	dbg := prog.Debug(0)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(1, dbg.LineNo)
		assert.Equal(0, dbg.Offset)
	}

	dbg = prog.Debug(2)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(1, dbg.LineNo)
		assert.Equal(2, dbg.Offset)
	}

	dbg = prog.Debug(6)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(3, dbg.LineNo)
		assert.Equal(1, dbg.Offset)
	}

	dbg = prog.Debug(8)
	if assert.NotNil(dbg.Opcode) {
		assert.Equal(4, dbg.LineNo)
		assert.Equal(OP_LOOP, dbg.Instruction.Op)
	}
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "mov ax, bx")

	dbg := prog.Debug(10)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Offset)

	empty := &Program{}
	assert.Nil(empty.Debug(0).Opcode)
	assert.Nil(empty.Binary())
}

func TestProgram_Instructions(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"mov cx, 3",
		"top: sub cx, byte 1",
		"jne top",
	)

	var ips []uint16
	var text []string
	for ip, inst := range prog.Instructions() {
		ips = append(ips, ip)
		text = append(text, inst.String())
	}

	assert.Equal([]uint16{0, 3, 6}, ips)
	assert.Equal([]string{"mov cx, word 3", "sub cx, byte 1", "jne $-3"}, text)

	// Early termination.
	count := 0
	for range prog.Instructions() {
		count++
		break
	}
	assert.Equal(1, count)
}
