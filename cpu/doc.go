// Package cpu implements a decoder, encoder, interpreter and assembler for
// a subset of the 8086 instruction set.
//
// The subset covers MOV, ADD, SUB and CMP in their register, memory and
// immediate forms, the sixteen conditional jumps, LOOP, LOOPZ, LOOPNZ and
// JCXZ. Memory is a flat 1 MiB array addressed by 16-bit offsets; there
// is no segmentation.
//
// Decode is a pure function from a byte window to an Instruction.
// Execute applies an Instruction to a RegisterFile and a Memory, advancing
// the instruction pointer before the instruction takes effect.
//
// The assembler accepts NASM style source, with labels, equates, and
// compile-time expression evaluation.
package cpu
