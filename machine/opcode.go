package machine

import (
	"fmt"
)

// Op is an instruction opcode.
type Op int

const (
	OP_LOAD  = Op(0) // LOAD
	OP_ADD   = Op(1) // ADD
	OP_SUB   = Op(2) // SUB
	OP_STORE = Op(3) // STORE
	OP_JGZ   = Op(4) // JGZ
	OP_READ  = Op(5) // READ
	OP_PRINT = Op(6) // PRINT
	OP_HALT  = Op(7) // HALT
)

var _op_names = [...]string{
	OP_LOAD:  "LOAD",
	OP_ADD:   "ADD",
	OP_SUB:   "SUB",
	OP_STORE: "STORE",
	OP_JGZ:   "JGZ",
	OP_READ:  "READ",
	OP_PRINT: "PRINT",
	OP_HALT:  "HALT",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(_op_names) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return _op_names[op]
}

// Valid returns true if op is one of the eight machine opcodes.
func (op Op) Valid() bool {
	return op >= OP_LOAD && op <= OP_HALT
}

// ParseOp returns the opcode for a mnemonic. Mnemonics are case sensitive.
func ParseOp(name string) (op Op, ok bool) {
	for n, str := range _op_names {
		if str == name {
			return Op(n), true
		}
	}
	return
}

// Memory returns true if the operand of op is a memory address.
func (op Op) Memory() bool {
	switch op {
	case OP_LOAD, OP_ADD, OP_SUB, OP_STORE, OP_READ, OP_PRINT:
		return true
	}
	return false
}

// Instruction is an opcode with its single unsigned operand.
// The operand of HALT is unused.
type Instruction struct {
	Op  Op
	Arg uint
}

func Load(addr uint) Instruction  { return Instruction{OP_LOAD, addr} }
func Add(addr uint) Instruction   { return Instruction{OP_ADD, addr} }
func Sub(addr uint) Instruction   { return Instruction{OP_SUB, addr} }
func Store(addr uint) Instruction { return Instruction{OP_STORE, addr} }
func Jgz(ip uint) Instruction     { return Instruction{OP_JGZ, ip} }
func Read(addr uint) Instruction  { return Instruction{OP_READ, addr} }
func Print(addr uint) Instruction { return Instruction{OP_PRINT, addr} }
func Halt() Instruction           { return Instruction{OP_HALT, 0} }

// String returns the source form of the instruction.
func (in Instruction) String() string {
	return fmt.Sprintf("%v %d", in.Op, in.Arg)
}
