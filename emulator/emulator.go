// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	goio "io"
	"iter"
	"log"
	"maps"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/sim86/cpu"
	"github.com/ezrec/sim86/internal"
	"github.com/ezrec/sim86/io"
)

const (
	DEFAULT_MAX_TICKS = 1 << 20 // Default limit on executed instructions.
)

var _emulator_defines = map[string]string{
	"MEMORY_SIZE":            fmt.Sprintf("%v", cpu.MEMORY_SIZE),
	"MAX_INSTRUCTION_LENGTH": fmt.Sprintf("%v", cpu.MAX_INSTRUCTION_LENGTH),
}

// Emulator state. CPU + program image.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Rom      io.Rom // Program image.
	Data     []byte // Initial data memory, from address 0.
	MaxTicks int    // Limit on executed instructions, 0 for no limit.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:      cpu.NewCpu(),
		Program:  &cpu.Program{},
		MaxTicks: DEFAULT_MAX_TICKS,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		internal.IterSeq2Sorted(maps.All(_emulator_defines)),
		emu.Cpu.Registers.Defines(),
	)
}

// Load replaces the program image. The listing, if any, is discarded.
func (emu *Emulator) Load(image []byte) (err error) {
	if len(image) > io.ROM_SIZE {
		err = io.ErrRomTooLarge
		return
	}

	emu.Rom.Data = image
	emu.Program = &cpu.Program{}

	return
}

// LoadProgram replaces the program image with an assembled program.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	err = emu.Load(prog.Binary())
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// LoadData sets the initial data memory, copied in on every Reset.
func (emu *Emulator) LoadData(data []byte) (err error) {
	if len(data) > cpu.MEMORY_SIZE {
		err = cpu.ErrOutOfBounds
		return
	}

	emu.Data = data

	return
}

// Reset the machine state.
func (emu *Emulator) Reset() {
	if emu.Verbose {
		log.Printf("emulator: reset, %d byte image, %d bytes of data", emu.Rom.Len(), len(emu.Data))
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	err := emu.Cpu.Memory.Load(0, emu.Data)
	if err != nil {
		// Data set directly, not through LoadData.
		panic(err)
	}
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() uint16 {
	return emu.Cpu.Registers.Ip
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Ip())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Done returns true once the instruction pointer has left the image.
func (emu *Emulator) Done() bool {
	return int(emu.Ip()) >= emu.Rom.Len()
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Done() {
		done = true
		return
	}

	ip := emu.Ip()
	dbg := emu.Program.Debug(ip)
	defer func() {
		if err != nil {
			runtime := &ErrRuntime{Ip: ip, Err: err}
			if dbg.Opcode != nil {
				runtime.LineNo = dbg.LineNo
				runtime.Offset = dbg.Offset
			}
			err = runtime
		}
	}()

	if emu.MaxTicks > 0 && emu.Cpu.Ticks >= emu.MaxTicks {
		err = ErrTickLimit
		return
	}

	inst, err := cpu.Decode(emu.Rom.Window(ip))
	if err != nil {
		return
	}

	// The zero padded window may complete an instruction that the
	// image truncates.
	have := emu.Rom.Len() - int(ip)
	if inst.Length > have {
		err = &cpu.ErrWindow{Need: inst.Length, Have: have}
		return
	}

	err = emu.Cpu.Execute(inst)
	if err != nil {
		return
	}

	done = emu.Done()

	return
}

// Run ticks the emulator until the instruction pointer leaves the image.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}

// Disassemble writes a listing of the image that re-assembles with NASM.
// An assembled program is listed with its source line numbers; a raw
// image is decoded sequentially from its first byte.
func (emu *Emulator) Disassemble(w goio.Writer) (err error) {
	_, err = fmt.Fprintln(w, "bits 16")
	if err != nil {
		return
	}

	if len(emu.Program.Opcodes) != 0 {
		for ip, inst := range emu.Program.Instructions() {
			_, err = fmt.Fprintf(w, "%v ; line %d\n", inst, emu.Program.Debug(ip).LineNo)
			if err != nil {
				return
			}
		}
		return
	}

	for ip := 0; ip < emu.Rom.Len(); {
		var inst cpu.Instruction
		inst, err = cpu.Decode(emu.Rom.Window(uint16(ip)))
		if err == nil && ip+inst.Length > emu.Rom.Len() {
			err = &cpu.ErrWindow{Need: inst.Length, Have: emu.Rom.Len() - ip}
		}
		if err != nil {
			err = &ErrRuntime{Ip: uint16(ip), Err: err}
			return
		}

		_, err = fmt.Fprintln(w, inst.String())
		if err != nil {
			return
		}

		ip += inst.Length
	}

	return
}

// Eval evaluates a Starlark expression over the defines, ie "bx == 1030".
func (emu *Emulator) Eval(expr string) (value starlark.Value, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range emu.Defines() {
		v64, parse_err := strconv.ParseInt(str, 0, 64)
		if parse_err != nil {
			// Ignore non-integer defines.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}

	value, ok := dict["rc"]
	if !ok {
		err = ErrEvalResult
		return
	}

	return
}

// Check evaluates a Starlark expression for its truth value.
func (emu *Emulator) Check(expr string) (ok bool, err error) {
	value, err := emu.Eval(expr)
	if err != nil {
		return
	}

	ok = bool(value.Truth())
	return
}
