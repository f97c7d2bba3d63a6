// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/ezrec/divarema/config"
	"github.com/ezrec/divarema/emulator"
	"github.com/ezrec/divarema/machine"
	"github.com/ezrec/divarema/tape"
)

func main() {
	var configFile string
	var memory uint
	var input string
	var output string
	var verbose bool
	var dump string
	var core string

	flag.StringVar(&configFile, "f", "", "divarema.toml configuration file")
	flag.UintVar(&memory, "m", config.DEFAULT_MEMORY, "Memory size, in cells")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&dump, "dump", "", "Write a CBOR snapshot of the machine after the run")
	flag.StringVar(&core, "core", "", "Restore a CBOR snapshot of the machine before the run")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [options] program.dvr", os.Args[0])
	}
	source := flag.Arg(0)

	cfg := config.Default()
	if len(configFile) != 0 {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			log.Fatalf("%v: %v", configFile, err)
		}
	}

	// Explicit flags override the configuration file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "m":
			cfg.Memory = memory
		case "i":
			cfg.Input = input
		case "o":
			cfg.Output = output
		case "v":
			cfg.Verbose = verbose
		case "dump":
			cfg.Dump = dump
		}
	})

	err := cfg.Validate()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	emu := emulator.NewEmulator(cfg.Memory)
	emu.Verbose = cfg.Verbose
	emu.Preload = cfg.Preload
	for name, value := range cfg.Equ {
		emu.Predefine(name, value)
	}

	inf, err := os.Open(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	err = emu.Load(inf)
	inf.Close()
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	tapeInput := os.Stdin
	if cfg.Input != "-" {
		tapeInput, err = os.Open(cfg.Input)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Input, err)
		}
		defer tapeInput.Close()
	}

	tapeOutput := os.Stdout
	if cfg.Output != "-" {
		tapeOutput, err = os.Create(cfg.Output)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Output, err)
		}
		defer tapeOutput.Close()
	}

	emu.Tape = tape.New(tapeInput, tapeOutput)

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	if len(core) != 0 {
		data, err := os.ReadFile(core)
		if err != nil {
			log.Fatalf("%v: %v", core, err)
		}
		snap, err := machine.UnmarshalSnapshot(data)
		if err != nil {
			log.Fatalf("%v: %v", core, err)
		}
		err = emu.Restore(snap)
		if err != nil {
			log.Fatalf("%v: %v", core, err)
		}
	}

	runErr := emu.Run()

	if len(cfg.Dump) != 0 {
		data, err := emu.Snapshot().Marshal()
		if err == nil {
			err = os.WriteFile(cfg.Dump, data, 0o644)
		}
		if err != nil {
			log.Printf("%v: %v", cfg.Dump, err)
		}
	}

	if runErr != nil {
		log.Fatalf("%v: %v", source, runErr)
	}
}
