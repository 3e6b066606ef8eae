// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"log"
)

// Cpu is the simulation context: the register file and the data memory.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers RegisterFile // Architectural registers.
	Memory    *Memory      // Data memory.

	Ticks int // Instructions executed since Reset.
}

// NewCpu creates a CPU with a freshly allocated memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Memory: NewMemory(),
	}

	return
}

// Reset clears the registers, the memory, and the tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Memory.Reset()
	cpu.Ticks = 0
}

// String returns the register state.
func (cpu *Cpu) String() string {
	return cpu.Registers.String()
}

// Step decodes the instruction at the start of window and executes it.
func (cpu *Cpu) Step(window []byte) (inst Instruction, err error) {
	inst, err = Decode(window)
	if err != nil {
		return
	}

	err = cpu.Execute(inst)
	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: %04x: %v", cpu.Registers.Ip, inst)
	}

	err = Execute(&cpu.Registers, cpu.Memory, inst)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// EffectiveAddress computes the memory offset of ea with 16-bit wrapping
// arithmetic.
func (rf *RegisterFile) EffectiveAddress(ea EffectiveAddress) (addr uint16) {
	if ea.Base == BASE_DIRECT {
		return ea.Address
	}

	for _, reg := range ea.Base.Registers() {
		addr += rf.Get(reg)
	}

	if ea.Disp != DISP_NONE {
		addr += uint16(ea.Displacement)
	}

	return
}

// load reads the value of a source operand used at the given width; Execute
// has already rejected a missing source. Byte immediates used at word width
// are sign extended.
func load(regs *RegisterFile, mem *Memory, opnd Operand, width Width) (value uint16, err error) {
	switch opnd.Kind {
	case OPERAND_REGISTER:
		value = regs.Get(opnd.Register)
	case OPERAND_MEMORY:
		value, err = mem.Read(regs.EffectiveAddress(opnd.Address), opnd.Address.Width)
	default:
		value = opnd.Immediate.Value
		if opnd.Immediate.Width == WIDTH_BYTE && width == WIDTH_WORD {
			value = uint16(opnd.Immediate.Signed())
		}
	}

	return
}

// store writes value to a register or memory operand.
func store(regs *RegisterFile, mem *Memory, opnd Operand, value uint16) (err error) {
	switch opnd.Kind {
	case OPERAND_REGISTER:
		regs.Set(opnd.Register, value)
	case OPERAND_MEMORY:
		err = mem.Write(regs.EffectiveAddress(opnd.Address), opnd.Address.Width, value)
	default:
		err = ErrOperandUnsupported
	}

	return
}

// Execute applies inst to the register file and memory. The instruction
// pointer is advanced past inst before anything else, so relative branches
// are taken from the following instruction.
func Execute(regs *RegisterFile, mem *Memory, inst Instruction) (err error) {
	regs.Ip += uint16(inst.Length)

	unsupported := func() error {
		return &ErrOperand{Op: inst.Op, Dest: inst.Dest.Kind, Src: inst.Src.Kind}
	}

	switch inst.Op {
	case OP_MOV:
		dest, src := inst.Dest, inst.Src
		switch {
		case dest.Kind != OPERAND_REGISTER && dest.Kind != OPERAND_MEMORY:
			return unsupported()
		case src.Kind == OPERAND_NONE:
			return unsupported()
		case dest.Kind == OPERAND_MEMORY && src.Kind == OPERAND_MEMORY:
			return unsupported()
		}

		var value uint16
		value, err = load(regs, mem, src, dest.Width())
		if err != nil {
			return
		}
		err = store(regs, mem, dest, value)

	case OP_ADD, OP_SUB, OP_CMP:
		dest, src := inst.Dest, inst.Src
		if dest.Kind != OPERAND_REGISTER || src.Kind == OPERAND_NONE {
			return unsupported()
		}

		width := dest.Width()
		a := regs.Get(dest.Register)

		var b uint16
		b, err = load(regs, mem, src, width)
		if err != nil {
			return
		}

		result, flags := arith(inst.Op, width, a, b)
		regs.Flags = (regs.Flags &^ FLAG_ARITH_MASK) | flags

		if inst.Op != OP_CMP {
			regs.Set(dest.Register, result)
		}

	case OP_JE, OP_JL, OP_JLE, OP_JB, OP_JBE, OP_JP, OP_JO, OP_JS,
		OP_JNE, OP_JNL, OP_JG, OP_JNB, OP_JA, OP_JNP, OP_JNO, OP_JNS:
		if !inst.Dest.Immediate.Relative {
			return unsupported()
		}
		if regs.Condition(inst.Op) {
			regs.Ip += uint16(inst.Dest.Immediate.Signed())
		}

	case OP_LOOP, OP_LOOPZ, OP_LOOPNZ:
		if !inst.Dest.Immediate.Relative {
			return unsupported()
		}
		cx := regs.Get(REG_CX) - 1
		regs.Set(REG_CX, cx)

		taken := cx != 0
		switch inst.Op {
		case OP_LOOPZ:
			taken = taken && regs.Flag(FLAG_ZF)
		case OP_LOOPNZ:
			taken = taken && !regs.Flag(FLAG_ZF)
		}
		if taken {
			regs.Ip += uint16(inst.Dest.Immediate.Signed())
		}

	case OP_JCXZ:
		if !inst.Dest.Immediate.Relative {
			return unsupported()
		}
		if regs.Get(REG_CX) == 0 {
			regs.Ip += uint16(inst.Dest.Immediate.Signed())
		}

	default:
		err = ErrOpcodeUnsupported
	}

	return
}
