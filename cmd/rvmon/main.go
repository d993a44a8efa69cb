// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/ezrec/rvmon/cpu"
	"github.com/ezrec/rvmon/emulator"
	"github.com/ezrec/rvmon/monitor"
)

func main() {
	var config string
	var compile string
	var image string
	var save string
	var batch bool
	var verbose bool

	flag.StringVar(&config, "config", "", "YAML configuration file")
	flag.StringVarP(&compile, "compile", "c", "", ".s file to assemble and load")
	flag.StringVarP(&image, "image", "i", "", "Raw memory image to load")
	flag.StringVarP(&save, "save", "s", "", "Save the assembled image to a file, do not execute")
	flag.BoolVarP(&batch, "batch", "b", false, "Batch mode: run to completion, no prompt")
	flag.BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg := emulator.DefaultConfig()
	if len(config) != 0 {
		inf, err := os.Open(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
		cfg, err = emulator.LoadConfig(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}

	if flag.CommandLine.Changed("compile") {
		cfg.Source = compile
	}
	if flag.CommandLine.Changed("image") {
		cfg.Image = image
	}
	if flag.CommandLine.Changed("batch") {
		cfg.Batch = batch
	}
	if flag.CommandLine.Changed("verbose") {
		cfg.Verbose = verbose
	}

	emu, err := emulator.NewEmulator(cfg)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if len(cfg.Image) != 0 {
		inf, err := os.Open(cfg.Image)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Image, err)
		}
		_, err = emu.LoadImage(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", cfg.Image, err)
		}
	}

	// Assemble a new instruction stream.
	prog := &cpu.Program{Origin: cfg.Entry}
	if len(cfg.Source) != 0 {
		inf, err := os.Open(cfg.Source)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Source, err)
		}
		prog, err = emu.Assemble(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", cfg.Source, err)
		}
	}

	if len(save) != 0 {
		err = os.WriteFile(save, prog.Binary(), 0o644)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	mon := monitor.NewMonitor(emu, os.Stdout)
	mon.Batch = cfg.Batch
	mon.Verbose = cfg.Verbose

	err = mon.Run(os.Stdin)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if cfg.Batch && !(emu.State == cpu.STATE_HALTED_TRAP && emu.HaltRet == 0) {
		os.Exit(1)
	}
}
