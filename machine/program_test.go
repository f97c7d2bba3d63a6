package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOp(t *testing.T) {
	assert := assert.New(t)

	names := []string{"LOAD", "ADD", "SUB", "STORE", "JGZ", "READ", "PRINT", "HALT"}
	for n, name := range names {
		op, ok := ParseOp(name)
		assert.True(ok, name)
		assert.Equal(Op(n), op, name)
		assert.Equal(name, op.String())
		assert.True(op.Valid(), name)
	}

	_, ok := ParseOp("Halt")
	assert.False(ok)

	assert.False(Op(8).Valid())
	assert.Equal("Op(8)", Op(8).String())
	assert.Equal("Op(-1)", Op(-1).String())

	assert.True(OP_PRINT.Memory())
	assert.False(OP_JGZ.Memory())
	assert.False(OP_HALT.Memory())
}

func TestProgram(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(Load(0), Jgz(3), Halt())

	assert.Equal(3, prog.Len())
	assert.Equal(1, prog.LineNo(0))
	assert.Equal(3, prog.LineNo(2))
	assert.Equal(0, prog.LineNo(3))
	assert.Equal([]string{"JGZ", "3"}, prog.Statements[1].Words)
	assert.Equal("000: LOAD 0\n001: JGZ 3\n002: HALT 0\n", prog.String())

	var empty *Program
	assert.Equal(0, empty.Len())
	assert.Equal(0, empty.LineNo(0))
	for range empty.Instructions() {
		t.Fatal("nil program has instructions")
	}
}

func TestProgramInstructionsStop(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(Load(0), Add(1), Halt())

	var seen []uint
	for ip := range prog.Instructions() {
		seen = append(seen, ip)
		if ip == 1 {
			break
		}
	}
	assert.Equal([]uint{0, 1}, seen)
}
