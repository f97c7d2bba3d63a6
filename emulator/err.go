package emulator

import (
	"errors"

	"github.com/ezrec/divarema/translate"
)

var f = translate.From

var (
	ErrPreload = errors.New(f("preload larger than memory"))
)

// ErrRuntime indicates the source line of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
