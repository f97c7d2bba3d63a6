// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/ezrec/divarema/tape"
)

// State is the execution state of an Engine.
type State int

const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
	STATE_FAILED  = State(2) // failed
)

func (state State) String() string {
	switch state {
	case STATE_RUNNING:
		return "running"
	case STATE_HALTED:
		return "halted"
	case STATE_FAILED:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(state))
}

// Engine is the execution context of a single program.
type Engine struct {
	Verbose bool // Set to enable verbose logging.

	Acc    int32   // Accumulator.
	Ip     uint    // Instruction pointer.
	Memory []int32 // Memory cells, fixed size.
	Ticks  int     // Instructions executed.

	program []Instruction
	tape    *tape.Tape
	state   State
	err     error
}

// New creates an engine for prog with memorySize zeroed cells, taking
// ownership of the tape. A nil tape behaves as empty input and discarded
// output.
func New(prog *Program, memorySize uint, port *tape.Tape) (eng *Engine) {
	if port == nil {
		port = tape.New(nil, nil)
	}

	eng = &Engine{
		Memory: make([]int32, memorySize),
		tape:   port,
	}

	for _, in := range prog.Instructions() {
		eng.program = append(eng.program, in)
	}

	return
}

// Reset restores the accumulator, instruction pointer, memory and state
// to their initial values. The program and tape are retained.
func (eng *Engine) Reset() {
	if eng.Verbose {
		log.Printf("engine: reset")
	}

	eng.Acc = 0
	eng.Ip = 0
	eng.Ticks = 0
	clear(eng.Memory)
	eng.state = STATE_RUNNING
	eng.err = nil
}

// State returns the current execution state.
func (eng *Engine) State() State {
	return eng.state
}

// Err returns the error that moved the engine to STATE_FAILED.
func (eng *Engine) Err() error {
	return eng.err
}

// Program returns a copy of the executing instructions.
func (eng *Engine) Program() []Instruction {
	return slices.Clone(eng.program)
}

// String returns the register state.
func (eng *Engine) String() string {
	return fmt.Sprintf("ip: %03d acc: %d state: %v memory: %v", eng.Ip, eng.Acc, eng.state, eng.Memory)
}

// address checks that the operand of in is a valid memory address.
func (eng *Engine) address(in Instruction) (addr uint, err error) {
	if in.Arg >= uint(len(eng.Memory)) {
		err = &ErrAddressOutOfBounds{Ip: eng.Ip, Instruction: in, Limit: uint(len(eng.Memory))}
		return
	}

	addr = in.Arg
	return
}

// Step executes the instruction at the instruction pointer.
//
// done is true once the engine has halted, either by HALT, by the
// instruction pointer reaching the end of the program, or by an error.
// Halted and failed engines stay that way; further steps return the
// same result.
func (eng *Engine) Step() (done bool, err error) {
	switch eng.state {
	case STATE_HALTED:
		return true, nil
	case STATE_FAILED:
		return true, eng.err
	}

	defer func() {
		if err != nil {
			eng.state = STATE_FAILED
			eng.err = err
			done = true
		}
	}()

	if eng.Ip >= uint(len(eng.program)) {
		if eng.Verbose {
			log.Printf("%03d: end of program", eng.Ip)
		}
		eng.state = STATE_HALTED
		done = true
		return
	}

	in := eng.program[eng.Ip]
	if eng.Verbose {
		log.Printf("%03d: %v acc=%d", eng.Ip, in, eng.Acc)
	}

	next_ip := eng.Ip + 1

	var addr uint
	if in.Op.Memory() {
		addr, err = eng.address(in)
		if err != nil {
			return
		}
	}

	switch in.Op {
	case OP_LOAD:
		eng.Acc = eng.Memory[addr]
	case OP_ADD:
		eng.Acc += eng.Memory[addr]
	case OP_SUB:
		eng.Acc -= eng.Memory[addr]
	case OP_STORE:
		eng.Memory[addr] = eng.Acc
	case OP_JGZ:
		// The target may equal the program length, halting on the next step.
		if in.Arg > uint(len(eng.program)) {
			err = &ErrAddressOutOfBounds{Ip: eng.Ip, Instruction: in, Limit: uint(len(eng.program)) + 1}
			return
		}
		if eng.Acc > 0 {
			next_ip = in.Arg
		}
	case OP_READ:
		var value int32
		value, err = eng.tape.ReadInt()
		if err != nil {
			err = ioError(err)
			return
		}
		eng.Memory[addr] = value
	case OP_PRINT:
		err = eng.tape.WriteInt(eng.Memory[addr])
		if err != nil {
			err = ioError(err)
			return
		}
	case OP_HALT:
		if eng.Verbose {
			log.Printf("%03d: halt", eng.Ip)
		}
		eng.Ticks++
		eng.state = STATE_HALTED
		done = true
		return
	default:
		err = errors.Join(ErrOpcodeInvalid, fmt.Errorf("ip %d: %v", eng.Ip, in.Op))
		return
	}

	eng.Ticks++
	eng.Ip = next_ip

	return
}

// ioError classifies a tape error.
func ioError(err error) error {
	if errors.Is(err, tape.ErrEndOfInput) || errors.Is(err, tape.ErrDecode) {
		return errors.Join(ErrMalformedInput, err)
	}
	return errors.Join(ErrIoFailure, err)
}

// Run steps the engine until it halts or fails.
func (eng *Engine) Run() (err error) {
	for done := false; !done; {
		done, err = eng.Step()
	}

	return
}
