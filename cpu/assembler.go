// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":      "0",
	"MEMORY_SIZE": fmt.Sprintf("%#v", MEMORY_SIZE),
}

// Assembler is a single pass assembler for the 8086 subset, accepting
// NASM style source.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to instruction offsets.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// opMap maps mnemonics, including the NASM aliases, to operations.
var opMap = map[string]Op{
	"jz":     OP_JE,
	"jnz":    OP_JNE,
	"jnge":   OP_JL,
	"jge":    OP_JNL,
	"jng":    OP_JLE,
	"jnle":   OP_JG,
	"jc":     OP_JB,
	"jnae":   OP_JB,
	"jnc":    OP_JNB,
	"jae":    OP_JNB,
	"jna":    OP_JBE,
	"jnbe":   OP_JA,
	"jpe":    OP_JP,
	"jpo":    OP_JNP,
	"loope":  OP_LOOPZ,
	"loopne": OP_LOOPNZ,
}

// registerMap maps register names.
var registerMap = map[string]Register{}

func init() {
	for op := OP_MOV; op <= OP_JCXZ; op++ {
		opMap[op.String()] = op
	}
	for reg := REG_AL; reg <= REG_DI; reg++ {
		registerMap[reg.String()] = reg
	}
}

// widthMap maps the operand size keywords.
var widthMap = map[string]Width{
	"byte": WIDTH_BYTE,
	"word": WIDTH_WORD,
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	word = strings.TrimSpace(word)
	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	value, err = strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int64
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var (
	reParen      = regexp.MustCompile(`\$\([^\$]*\)`)
	reIdentifier = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\b`)
	reLabel      = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):`)
)

// parseLine expands a single line into a mnemonic and its operands.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	line = strings.TrimSpace(strings.ReplaceAll(line, "\t", " "))

	for {
		match := reLabel.FindStringSubmatch(line)
		if match == nil {
			break
		}
		label := match[1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentIp()
		line = strings.TrimSpace(line[len(match[0]):])
	}

	if len(line) == 0 {
		return
	}

	mnemonic, rest, _ := strings.Cut(line, " ")

	// .equ CONST VALUE
	if mnemonic == ".equ" {
		args := strings.Fields(rest)
		if len(args) != 2 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[args[0]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[args[0]] = args[1]
		return
	}

	// Substitute equates in the operand text.
	rest = reIdentifier.ReplaceAllStringFunc(rest, func(word string) string {
		equate, ok := asm.Equate[word]
		if ok {
			return equate
		}
		return word
	})

	words = []string{strings.ToLower(mnemonic)}
	rest = strings.TrimSpace(rest)
	if len(rest) > 0 {
		for _, arg := range strings.Split(rest, ",") {
			words = append(words, strings.TrimSpace(arg))
		}
	}

	return
}

// currentIp gets the current Ip
func (asm *Assembler) currentIp() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Ip + len(last.Bytes)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		ip, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		disp := ip - (op.Ip + len(op.Bytes))
		if disp < -128 || disp > 127 {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrDisplacementRange
			return
		}
		op.Instruction.Dest = RelativeOperand(int8(disp))
		op.Bytes[len(op.Bytes)-1] = byte(int8(disp))
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// operand is a parsed operand whose width may not be known yet.
type operand struct {
	Operand
	sized bool  // Width is known.
	value int64 // Immediate value, before the width is resolved.
}

// parseMemory parses the text between brackets of a memory reference.
func (asm *Assembler) parseMemory(expr string) (ea EffectiveAddress, err error) {
	var regs []Register
	var disp int64
	var has_disp bool

	expr = strings.ReplaceAll(expr, " ", "")
	expr = strings.ReplaceAll(expr, "-", "+-")
	for _, term := range strings.Split(expr, "+") {
		if len(term) == 0 {
			continue
		}
		reg, ok := registerMap[term]
		if ok {
			regs = append(regs, reg)
			continue
		}
		var value int64
		value, err = asm.valueOf(term)
		if err != nil {
			return
		}
		disp += value
		has_disp = true
	}

	if len(regs) == 0 {
		if disp < -0x8000 || disp > 0xffff {
			err = ErrDisplacementRange
			return
		}
		ea = EffectiveAddress{Base: BASE_DIRECT, Address: uint16(disp)}
		return
	}

	slices.Sort(regs)
	found := false
	for base := BASE_BX_SI; base <= BASE_BX; base++ {
		if slices.Equal(slices.Sorted(slices.Values(base.Registers())), regs) {
			ea.Base = base
			found = true
			break
		}
	}
	if !found {
		err = ErrMemoryInvalid
		return
	}

	switch {
	case !has_disp && ea.Base == BASE_BP:
		// [bp] has no mod 00 encoding.
		ea.Disp = DISP_8
	case !has_disp:
		ea.Disp = DISP_NONE
	case disp >= -128 && disp <= 127:
		ea.Disp = DISP_8
	case disp >= -0x8000 && disp <= 0xffff:
		ea.Disp = DISP_16
	default:
		err = ErrDisplacementRange
		return
	}
	ea.Displacement = int16(disp)

	return
}

// parseOperand parses a register, memory or immediate operand.
func (asm *Assembler) parseOperand(text string) (opnd operand, err error) {
	var width Width
	size, rest, ok := strings.Cut(text, " ")
	if ok {
		width, ok = widthMap[strings.ToLower(size)]
	}
	if ok {
		opnd.sized = true
		text = strings.TrimSpace(rest)
	}

	reg, is_reg := registerMap[strings.ToLower(text)]
	switch {
	case is_reg:
		if opnd.sized && width != reg.Width() {
			err = ErrWidthMismatch
			return
		}
		opnd.Operand = RegisterOperand(reg)
		opnd.sized = true
	case strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]"):
		var ea EffectiveAddress
		ea, err = asm.parseMemory(strings.ToLower(text[1 : len(text)-1]))
		if err != nil {
			return
		}
		ea.Width = width
		opnd.Operand = MemoryOperand(ea)
	default:
		opnd.value, err = asm.valueOf(text)
		if err != nil {
			err = ErrParseOperand(text)
			return
		}
		opnd.Operand = Operand{Kind: OPERAND_IMMEDIATE, Immediate: Immediate{Width: width}}
	}

	return
}

// resize sets the width of an unsized operand, and resolves immediates.
func (opnd *operand) resize(width Width) (err error) {
	if !opnd.sized {
		switch opnd.Kind {
		case OPERAND_MEMORY:
			opnd.Address.Width = width
		case OPERAND_IMMEDIATE:
			opnd.Immediate.Width = width
		}
		opnd.sized = true
	}

	if opnd.Kind == OPERAND_IMMEDIATE {
		w := opnd.Immediate.Width
		if opnd.value < -int64(w.Sign()) || opnd.value > int64(w.Mask()) {
			err = ErrImmediateRange
			return
		}
		opnd.Operand = ImmediateOperand(w, uint16(opnd.value))
	}

	return
}

// parseBranch parses the target of a jump or loop, at offset ip.
func (asm *Assembler) parseBranch(text string, ip int) (dest Operand, label string, err error) {
	// Every branch of the subset encodes in two bytes.
	const length = 2

	var target int64
	switch {
	case strings.HasPrefix(text, "$"):
		rel := strings.ReplaceAll(text[1:], " ", "")
		if len(rel) > 0 {
			target, err = asm.valueOf(rel)
			if err != nil {
				return
			}
		}
		target += int64(ip)
	case reIdentifier.MatchString(text) && reIdentifier.FindString(text) == text:
		label = text
		dest = RelativeOperand(0)
		return
	default:
		target, err = asm.valueOf(text)
		if err != nil {
			err = ErrParseOperand(text)
			return
		}
	}

	disp := target - int64(ip+length)
	if disp < -128 || disp > 127 {
		err = ErrDisplacementRange
		return
	}
	dest = RelativeOperand(int8(disp))

	return
}

// parseWords assembles a mnemonic and its operands.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	// NASM directive, 16-bit is the only mode.
	if words[0] == "bits" {
		if len(words) != 2 || words[1] != "16" {
			err = ErrOpcodeInvalid
		}
		return
	}

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	ip := asm.currentIp()
	inst := Instruction{Op: op}
	var label string

	args := words[1:]
	switch {
	case op.Branch():
		if len(args) < 1 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		inst.Dest, label, err = asm.parseBranch(args[0], ip)
		if err != nil {
			return
		}
	default:
		if len(args) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		var dest, src operand
		dest, err = asm.parseOperand(args[0])
		if err != nil {
			return
		}
		src, err = asm.parseOperand(args[1])
		if err != nil {
			return
		}
		switch {
		case dest.sized:
		case src.sized:
			err = dest.resize(src.Width())
		default:
			err = ErrWidthMissing
		}
		if err != nil {
			return
		}
		err = src.resize(dest.Width())
		if err != nil {
			return
		}
		if dest.Kind == OPERAND_IMMEDIATE {
			err = ErrEncodeIncompatible
			return
		}
		inst.Dest = dest.Operand
		inst.Src = src.Operand
	}

	code, err := Encode(inst)
	if err != nil {
		return
	}
	inst.Length = len(code)

	opcode := Opcode{
		LineNo:      lineno,
		Ip:          ip,
		Words:       words,
		Instruction: inst,
		Bytes:       code,
		LinkLabel:   label,
	}
	asm.Opcode = append(asm.Opcode, opcode)

	return
}
