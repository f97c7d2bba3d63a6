package machine

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/divarema/tape"
)

func parse(t *testing.T, program []string) (prog *Program, err error) {
	t.Helper()
	ld := &Loader{}
	return ld.Parse(strings.NewReader(strings.Join(program, "\n")))
}

func instructions(prog *Program) (ins []Instruction) {
	for _, in := range prog.Instructions() {
		ins = append(ins, in)
	}
	return
}

func TestParseLine(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		in   Instruction
	}){
		{"LOAD 1", Load(1)},
		{"ADD 2", Add(2)},
		{"SUB 3", Sub(3)},
		{"STORE 4", Store(4)},
		{"JGZ 5", Jgz(5)},
		{"READ 6", Read(6)},
		{"PRINT 7", Print(7)},
		{"HALT 8", Instruction{OP_HALT, 8}},
		{"  LOAD\t1  ", Load(1)},
		{"LOAD 1 extra", Load(1)},
	}

	for _, entry := range table {
		in, err := ParseLine(entry.line)
		assert.NoError(err, entry.line)
		assert.Equal(entry.in, in, entry.line)
	}
}

func TestParseLineErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		err  error
	}){
		{"ADD -1", ErrInvalidArgument},
		{"ADD +1", ErrInvalidArgument},
		{"ADD 0x10", ErrInvalidArgument},
		{"ADD one", ErrInvalidArgument},
		{"FOO 3", ErrInvalidOpcode},
		{"load 3", ErrInvalidOpcode},
		{"FOO", ErrInvalidOpcode},
		{"FOO -1", ErrInvalidOpcode},
		{"HALT", ErrMissingArgument},
		{"", ErrMissingOpcode},
		{"   ", ErrMissingOpcode},
	}

	for _, entry := range table {
		_, err := ParseLine(entry.line)
		assert.Equal(entry.err, err, entry.line)
	}
}

func TestLoader(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{
		"; add two cells",
		"LOAD 0",
		"",
		"ADD 1   ; second",
		"STORE 2",
		"HALT 0",
	})
	assert.NoError(err)
	assert.Equal([]Instruction{Load(0), Add(1), Store(2), Halt()}, instructions(prog))
	assert.Equal(2, prog.Statements[0].LineNo)
	assert.Equal(4, prog.Statements[1].LineNo)
	assert.Equal([]string{"ADD", "1"}, prog.Statements[1].Words)
	assert.Equal(6, prog.LineNo(3))
}

func TestLoaderSyntax(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"opcode", []string{"LOAD 0", "FOO 3"}, 2, ErrInvalidOpcode},
		{"argument", []string{"LOAD 0", "", "ADD -1"}, 3, ErrInvalidArgument},
		{"missing", []string{"HALT"}, 1, ErrMissingArgument},
		{"equ", []string{".equ X"}, 1, ErrEquateSyntax},
		{"equ dup", []string{".equ X 1", ".equ X 2"}, 2, ErrEquateDuplicate},
		{"label dup", []string{"A: LOAD 0", "A: HALT 0"}, 2, ErrLabelDuplicate},
		{"label missing", []string{"JGZ NOWHERE", "HALT 0"}, 1, ErrInvalidArgument},
		{"expression", []string{"LOAD $(1 +)"}, 1, ErrInvalidArgument},
		{"expression negative", []string{"LOAD $(0 - 1)"}, 1, ErrInvalidArgument},
		{"expression string", []string{`LOAD $("x")`}, 1, ErrInvalidArgument},
	}

	for _, entry := range table {
		_, err := parse(t, entry.program)
		assert.ErrorIs(err, entry.err, entry.name)

		var syn *ErrSyntax
		if assert.True(errors.As(err, &syn), entry.name) {
			assert.Equal(entry.lineno, syn.LineNo, entry.name)
		}
	}
}

func TestLoaderLabelMissing(t *testing.T) {
	assert := assert.New(t)

	_, err := parse(t, []string{"LOAD 0", "JGZ LOOP"})

	var missing ErrLabelMissing
	assert.True(errors.As(err, &missing))
	assert.Equal(ErrLabelMissing("LOOP"), missing)
}

func TestLoaderLabel(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{
		"JGZ START",
		"LOOP:",
		"PRINT 0",
		"START: AGAIN: LOAD 0",
		"SUB 1",
		"STORE 0",
		"JGZ LOOP",
		"JGZ END",
		"HALT 0",
		"END:",
	})
	assert.NoError(err)
	assert.Equal([]Instruction{
		Jgz(2), Print(0), Load(0), Sub(1), Store(0), Jgz(1), Jgz(8), Halt(),
	}, instructions(prog))
	assert.Equal([]string{"JGZ", "2"}, prog.Statements[0].Words)
}

func TestLoaderEqu(t *testing.T) {
	assert := assert.New(t)

	ld := &Loader{}
	ld.Predefine("MEMSIZE", "8")

	prog, err := ld.Parse(strings.NewReader(strings.Join([]string{
		".equ COUNT 0",
		".equ ONE $(COUNT + 1)",
		"LOAD COUNT",
		"SUB ONE",
		"STORE $(MEMSIZE - 1)",
		"PRINT $(LINENO)",
		"HALT 0",
	}, "\n")))
	assert.NoError(err)
	assert.Equal([]Instruction{Load(0), Sub(1), Store(7), Print(6), Halt()}, instructions(prog))
	assert.Equal("1", ld.Equate["ONE"])
}

func TestLoaderExpressionLabel(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{
		"TOP: LOAD 0",
		"STORE 1",
		"JGZ $(TOP + 1)",
	})
	assert.NoError(err)
	assert.Equal(Jgz(1), prog.Statements[2].Instruction)
}

func TestLoaderRun(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{
		"READ 0",
		"READ 1",
		"LOAD 0",
		"ADD 1",
		"STORE 2",
		"PRINT 2",
		"HALT 0",
	})
	assert.NoError(err)

	output := &bytes.Buffer{}
	eng := New(prog, 8, tape.New(strings.NewReader("40\n2\n"), output))

	assert.NoError(eng.Run())
	assert.Equal("42\n", output.String())
}

func TestLoaderSkipsEmpty(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{"", "   ", "; only a comment", "ALONE:"})
	assert.NoError(err)
	assert.Equal(0, prog.Len())

	_, err = ParseLine("")
	assert.Equal(ErrMissingOpcode, err)
}
