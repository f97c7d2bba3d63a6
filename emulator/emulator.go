// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/divarema/machine"
	"github.com/ezrec/divarema/tape"
)

// Emulator state. Engine + program listing + tape.
type Emulator struct {
	Verbose         bool             // If set, enables verbose logging.
	*machine.Engine                  // Engine for the loaded program, set by Reset.
	Program         *machine.Program // Reference to the currently loaded program listing.
	Tape            *tape.Tape       // Tape IO port.

	MemorySize uint    // Number of memory cells.
	Preload    []int32 // Memory contents after reset, from address 0.

	equate map[string]string
}

// NewEmulator creates a new emulator with memorySize cells of memory.
func NewEmulator(memorySize uint) (emu *Emulator) {
	emu = &Emulator{
		Program:    &machine.Program{},
		Tape:       tape.New(nil, nil),
		MemorySize: memorySize,
		equate:     map[string]string{},
	}

	return
}

// Predefine adds an equate made available to loaded programs.
func (emu *Emulator) Predefine(name, value string) {
	emu.equate[name] = value
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := maps.Clone(emu.equate)
	defines["MEMSIZE"] = fmt.Sprintf("%v", emu.MemorySize)
	return maps.All(defines)
}

// Load parses program text, replacing the current program.
func (emu *Emulator) Load(input io.Reader) (err error) {
	ld := &machine.Loader{Verbose: emu.Verbose}
	for name, value := range emu.Defines() {
		ld.Predefine(name, value)
	}

	prog, err := ld.Parse(input)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %d instructions", prog.Len())
	}

	emu.Program = prog
	emu.Engine = nil

	return
}

// Reset creates a fresh engine for the program, and applies the preload.
func (emu *Emulator) Reset() (err error) {
	if uint(len(emu.Preload)) > emu.MemorySize {
		err = ErrPreload
		return
	}

	emu.Engine = machine.New(emu.Program, emu.MemorySize, emu.Tape)
	emu.Engine.Verbose = emu.Verbose
	copy(emu.Engine.Memory, emu.Preload)

	return
}

// LineNo returns the source line number for the next instruction.
func (emu *Emulator) LineNo() int {
	if emu.Engine == nil {
		return 0
	}
	return emu.Program.LineNo(emu.Engine.Ip)
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			done = true
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.Engine == nil {
		err = emu.Reset()
		if err != nil {
			return
		}
		lineno = emu.LineNo()
	}

	emu.Engine.Verbose = emu.Verbose

	done, err = emu.Engine.Step()

	return
}

// Run ticks the emulator until the program halts or fails.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
	}

	if emu.Verbose && emu.Engine != nil {
		log.Printf("emulator: %v after %d ticks", emu.Engine.State(), emu.Engine.Ticks)
	}

	return
}
