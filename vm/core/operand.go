package core

import "fmt"

// operandRegisterBase is the first encoded word that denotes a register
// reference; encoded words below it are literal immediates.
const operandRegisterBase = Word(1 << 15)

// operandInvalidBase is the first encoded word with no legal interpretation.
const operandInvalidBase = operandRegisterBase + NumRegisters

// Operand is a decoded instruction argument: either an Immediate literal or
// a Register reference. It carries no notion of read/write role — role
// enforcement (e.g. rejecting a write to an Immediate) happens at the point
// of use, in State.Write, not in the Operand type itself.
type Operand struct {
	reg   uint8
	val   Word
	isReg bool
}

// Immediate constructs a literal operand. w must be < 1<<15; callers that
// decode from memory should use DecodeOperand instead.
func Immediate(w Word) Operand {
	return Operand{val: w}
}

// Register constructs a register-reference operand for index idx, which
// must be in [0, NumRegisters).
func Register(idx int) Operand {
	return Operand{reg: uint8(idx), isReg: true}
}

// IsRegister reports whether the operand is a register reference.
func (o Operand) IsRegister() bool {
	return o.isReg
}

// Immediate returns the literal value of an Immediate operand. Calling it on
// a Register operand returns 0.
func (o Operand) Immediate() Word {
	if o.isReg {
		return 0
	}
	return o.val
}

// RegisterIndex returns the register index of a Register operand. Calling it
// on an Immediate operand returns 0.
func (o Operand) RegisterIndex() int {
	return int(o.reg)
}

// DecodeOperand classifies an encoded memory word per the encoding table in
// SPEC_FULL.md §4.2: 0..32767 is an Immediate, 32768..32775 is a Register
// reference, and 32776..65535 has no legal interpretation.
func DecodeOperand(w Word) (Operand, bool) {
	switch {
	case w < operandRegisterBase:
		return Immediate(w), true
	case w < operandInvalidBase:
		return Register(int(w - operandRegisterBase)), true
	default:
		return Operand{}, false
	}
}

// EncodeOperand is the inverse of DecodeOperand: it reconstructs the memory
// word that would decode to op. Encoding and decoding are a bijection on
// [0, operandInvalidBase) (see SPEC_FULL.md §8, property 7).
func EncodeOperand(op Operand) Word {
	if op.isReg {
		return operandRegisterBase + Word(op.reg)
	}
	return op.val
}

func (o Operand) String() string {
	if o.isReg {
		return fmt.Sprintf("r%d", o.reg)
	}
	return fmt.Sprintf("%d", o.val)
}
