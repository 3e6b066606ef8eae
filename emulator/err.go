package emulator

import (
	"errors"

	"github.com/ezrec/sim86/translate"
)

var f = translate.From

var (
	ErrTickLimit  = errors.New(f("tick limit exceeded"))
	ErrEvalResult = errors.New(f("expression has no result"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Ip     uint16
	LineNo int
	Offset int // Non-zero when Ip is inside the line's instruction.
	Err    error
}

func (err *ErrRuntime) Error() string {
	switch {
	case err.LineNo == 0:
		return f("ip %d: %v", err.Ip, err.Err)
	case err.Offset != 0:
		return f("ip %d: line %d, byte %d of instruction, %v", err.Ip, err.LineNo, err.Offset, err.Err)
	}
	return f("ip %d: line %d %v", err.Ip, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
