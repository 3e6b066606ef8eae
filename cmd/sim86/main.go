// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/sim86/cpu"
	"github.com/ezrec/sim86/emulator"
	"github.com/ezrec/sim86/io"
	"github.com/ezrec/sim86/translate"
)

func main() {
	var exec bool
	var assemble bool
	var dump string
	var data string
	var dir string
	var maxTicks int
	var checks []string
	var lang string
	var verbose bool

	flag.BoolVar(&exec, "exec", false, "Execute the program, then print the registers")
	flag.BoolVar(&assemble, "asm", false, "Input is assembly source (default for .asm files)")
	flag.StringVar(&dump, "dump", "", "Write the final state as NAME.data and NAME.txt")
	flag.StringVar(&dir, "dir", ".", "Directory for -dump")
	flag.StringVar(&data, "data", "", "Preload data memory, from address 0, with the contents of FILE")
	flag.IntVar(&maxTicks, "max", emulator.DEFAULT_MAX_TICKS, "Maximum instructions to execute, 0 for no limit")
	flag.Func("check", "Starlark expression that must hold after execution (repeatable)", func(expr string) error {
		checks = append(checks, expr)
		return nil
	})
	flag.StringVar(&lang, "lang", "", "Message language, ie en-US")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if len(lang) != 0 {
		translate.SetLanguage(lang)
	}

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected one program file, got %v", os.Args[0], flag.Args())
	}
	input := flag.Arg(0)

	inf, err := os.Open(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.MaxTicks = maxTicks

	if assemble || strings.EqualFold(filepath.Ext(input), ".asm") {
		asm := &cpu.Assembler{Verbose: verbose}
		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		err = emu.LoadProgram(prog)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
	} else {
		rom := &io.Rom{}
		err = rom.Unmarshal(inf)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		err = emu.Load(rom.Data)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
	}

	if len(data) != 0 {
		content, err := os.ReadFile(data)
		if err != nil {
			log.Fatalf("%v: %v", data, err)
		}
		err = emu.LoadData(content)
		if err != nil {
			log.Fatalf("%v: %v", data, err)
		}
	}

	if !exec {
		err = emu.Disassemble(os.Stdout)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		return
	}

	emu.Reset()
	err = emu.Run()
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	fmt.Printf("; %v\n", input)
	fmt.Print(emu.Cpu.String())

	if len(dump) != 0 {
		state := &io.Dump{Registers: &emu.Cpu.Registers, Memory: emu.Cpu.Memory}
		err = state.Marshal(io.DirFS(dir), dump)
		if err != nil {
			log.Fatalf("%v: %v", dump, err)
		}
	}

	failed := 0
	for _, expr := range checks {
		ok, err := emu.Check(expr)
		if err != nil {
			log.Fatalf("%v: %v", expr, err)
		}
		if !ok {
			log.Printf("check failed: %v", expr)
			failed++
		}
	}
	if failed != 0 {
		os.Exit(1)
	}
}
