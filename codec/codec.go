// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package codec converts between 32-bit signed integers and their ASCII
// decimal text form, as read and written by the machine's tape.
//
// The grammar for a value is:
//
//	int    : ('-')? digit+
//	digit  : '0' | '1' | '2' | '3' | '4' | '5' | '6' | '7' | '8' | '9'
//
// The line terminator is not part of the value; the tape adds and strips it.
package codec

import (
	"errors"

	"github.com/ezrec/divarema/translate"
)

var f = translate.From

var (
	ErrMalformed = errors.New(f("malformed integer"))
)

// ErrDecode reports the text that failed to decode.
type ErrDecode string

func (err ErrDecode) Error() string {
	return f("'%v' is not an integer", string(err))
}

func (err ErrDecode) Unwrap() error {
	return ErrMalformed
}

// Encode returns the decimal representation of x, with a leading '-' if
// negative. Zero is "0". No terminator is appended.
func Encode(x int32) []byte {
	return Append(nil, x)
}

// Append appends the decimal representation of x to buf.
func Append(buf []byte, x int32) []byte {
	// Two's complement negation wraps at math.MinInt32, but the magnitude
	// is still correct once viewed as unsigned.
	mag := uint32(x)
	if x < 0 {
		mag = uint32(-x)
	}

	var digits [10]byte
	n := len(digits)
	for {
		n--
		digits[n] = '0' + byte(mag%10)
		mag /= 10
		if mag == 0 {
			break
		}
	}

	if x < 0 {
		buf = append(buf, '-')
	}

	return append(buf, digits[n:]...)
}

// Decode parses text matching the integer grammar. Empty text, a bare '-',
// any non-digit, or a value outside the int32 range returns an error
// wrapping ErrMalformed.
func Decode(text []byte) (value int32, err error) {
	digits := text
	negative := false
	if len(digits) > 0 && digits[0] == '-' {
		negative = true
		digits = digits[1:]
	}

	if len(digits) == 0 {
		err = ErrDecode(text)
		return
	}

	limit := uint64(1<<31 - 1)
	if negative {
		limit = 1 << 31
	}

	var mag uint64
	for _, c := range digits {
		if c < '0' || c > '9' {
			err = ErrDecode(text)
			return
		}
		mag = mag*10 + uint64(c-'0')
		if mag > limit {
			err = ErrDecode(text)
			return
		}
	}

	if negative {
		value = int32(-int64(mag))
	} else {
		value = int32(mag)
	}

	return
}
