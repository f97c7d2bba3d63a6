package machine

import (
	"fmt"
	"iter"
	"strings"
)

// Statement is a loaded instruction with its source location.
type Statement struct {
	LineNo int
	Words  []string
	Instruction
}

// Program is an ordered, zero indexed list of statements.
type Program struct {
	Statements []Statement
}

// NewProgram creates a program from bare instructions. Line numbers are
// the one based instruction index.
func NewProgram(instructions ...Instruction) (prog *Program) {
	prog = &Program{
		Statements: make([]Statement, 0, len(instructions)),
	}

	for n, in := range instructions {
		prog.Statements = append(prog.Statements, Statement{
			LineNo:      n + 1,
			Words:       strings.Fields(in.String()),
			Instruction: in,
		})
	}

	return
}

// Len returns the number of instructions.
func (prog *Program) Len() int {
	if prog == nil {
		return 0
	}
	return len(prog.Statements)
}

// LineNo returns the source line of the instruction at ip, or 0.
func (prog *Program) LineNo(ip uint) int {
	if ip >= uint(prog.Len()) {
		return 0
	}
	return prog.Statements[ip].LineNo
}

// Instructions iterates over the instructions, by instruction pointer.
func (prog *Program) Instructions() iter.Seq2[uint, Instruction] {
	return func(yield func(ip uint, in Instruction) bool) {
		if prog == nil {
			return
		}
		for n, st := range prog.Statements {
			if !yield(uint(n), st.Instruction) {
				return
			}
		}
	}
}

// String returns a listing of the program.
func (prog *Program) String() string {
	var text strings.Builder
	for ip, in := range prog.Instructions() {
		fmt.Fprintf(&text, "%03d: %v\n", ip, in)
	}
	return text.String()
}
