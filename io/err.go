package io

import (
	"errors"

	"github.com/ezrec/sim86/translate"
)

var f = translate.From

var (
	ErrRomTooLarge = errors.New(f("program image too large"))
	ErrDumpName    = errors.New(f("dump name invalid"))
)
