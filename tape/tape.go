// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package tape provides the line oriented integer I/O port of the machine.
//
// Each READ consumes one newline terminated line of ASCII decimal text from
// the input, and each PRINT writes one such line to the output, flushing it
// immediately.
package tape

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/ezrec/divarema/codec"
)

// LineReader is a line buffered input source.
type LineReader interface {
	ReadString(delim byte) (string, error)
}

// Flusher is an output sink whose writes become visible after Flush.
type Flusher interface {
	io.Writer
	Flush() error
}

// Tape wraps one line input and one flushable output.
type Tape struct {
	Input  LineReader
	Output Flusher
}

// nopFlusher adapts a plain io.Writer that needs no flushing.
type nopFlusher struct {
	io.Writer
}

func (nopFlusher) Flush() error {
	return nil
}

// New creates a tape from any reader and writer, adding line buffering to
// the input and a flush capability to the output if they lack them.
// A nil reader or writer gives a tape that is empty or discards output.
func New(r io.Reader, w io.Writer) (tc *Tape) {
	tc = &Tape{}

	switch in := r.(type) {
	case nil:
		tc.Input = bufio.NewReader(strings.NewReader(""))
	case LineReader:
		tc.Input = in
	default:
		tc.Input = bufio.NewReader(r)
	}

	switch out := w.(type) {
	case nil:
		tc.Output = nopFlusher{io.Discard}
	case Flusher:
		tc.Output = out
	default:
		tc.Output = nopFlusher{w}
	}

	return
}

// ReadInt reads one line and decodes it as an integer.
// A final line without a terminator is accepted.
func (tc *Tape) ReadInt() (value int32, err error) {
	line, err := tc.Input.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			err = errors.Join(ErrRead, err)
			return
		}
		if len(line) == 0 {
			err = ErrEndOfInput
			return
		}
		err = nil
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	value, err = codec.Decode([]byte(line))
	if err != nil {
		err = errors.Join(ErrDecode, err)
		return
	}

	return
}

// WriteInt writes value and a newline, then flushes the output.
func (tc *Tape) WriteInt(value int32) (err error) {
	buf := codec.Append(make([]byte, 0, 12), value)
	buf = append(buf, '\n')

	_, err = tc.Output.Write(buf)
	if err == nil {
		err = tc.Output.Flush()
	}
	if err != nil {
		err = errors.Join(ErrWrite, err)
		return
	}

	return
}
