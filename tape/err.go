package tape

import (
	"errors"

	"github.com/ezrec/divarema/translate"
)

var f = translate.From

var (
	ErrEndOfInput = errors.New(f("end of input"))
	ErrDecode     = errors.New(f("input decode"))
	ErrRead       = errors.New(f("input read"))
	ErrWrite      = errors.New(f("output write"))
)
