package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLanguage("en-US")
	assert.Equal("bad opcode 0x8f", From("bad opcode 0x%02x", 0x8f))
	assert.Equal("line 3 'mov' decode", From("line %d '%v' %v", 3, "mov", "decode"))
}

func TestSetLanguage_Default(t *testing.T) {
	assert := assert.New(t)

	SetLanguage()
	assert.Equal("ip empty", From("ip empty"))
	assert.NotPanics(func() { _ = Language() })
}
