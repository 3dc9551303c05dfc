package core

// Opcode identifies one of the 22 instructions.
type Opcode int

const (
	OpHalt Opcode = iota
	OpSet
	OpPush
	OpPop
	OpEq
	OpGt
	OpJmp
	OpJt
	OpJf
	OpAdd
	OpMult
	OpMod
	OpAnd
	OpOr
	OpNot
	OpRmem
	OpWmem
	OpCall
	OpRet
	OpOut
	OpIn
	OpNoop

	opcodeCount
)

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "unknown"
}

var opcodeNames = [opcodeCount]string{
	OpHalt: "halt", OpSet: "set", OpPush: "push", OpPop: "pop",
	OpEq: "eq", OpGt: "gt", OpJmp: "jmp", OpJt: "jt", OpJf: "jf",
	OpAdd: "add", OpMult: "mult", OpMod: "mod", OpAnd: "and", OpOr: "or",
	OpNot: "not", OpRmem: "rmem", OpWmem: "wmem", OpCall: "call",
	OpRet: "ret", OpOut: "out", OpIn: "in", OpNoop: "noop",
}

// arity doubles as the opcode validity test, the same way the teacher's
// cycleCostMap does in dcpu/core/core.go: an opcode with no entry here is
// not one of the 22 legal instructions.
var arity = [opcodeCount]int{
	OpHalt: 0, OpSet: 2, OpPush: 1, OpPop: 1,
	OpEq: 3, OpGt: 3, OpJmp: 1, OpJt: 2, OpJf: 2,
	OpAdd: 3, OpMult: 3, OpMod: 3, OpAnd: 3, OpOr: 3,
	OpNot: 2, OpRmem: 2, OpWmem: 2, OpCall: 1,
	OpRet: 0, OpOut: 1, OpIn: 1, OpNoop: 0,
}

// Instruction is the decoder's output: an opcode plus its already-classified
// operands. Unused operand slots are the zero Operand (Immediate(0)) and
// must not be read; Decode never populates more operands than the opcode's
// arity.
type Instruction struct {
	Op Opcode
	A  Operand
	B  Operand
	C  Operand
}

// Decode reads one instruction from the start of mem. It returns the
// decoded instruction and the number of words consumed (1 + arity). Decode
// is a pure function of mem: it never mutates machine state, and it
// validates only syntax (opcode range, operand encoding, window length),
// never operand roles — see SPEC_FULL.md §4.2.
func Decode(mem []Word, ip Word) (Instruction, int, error) {
	if len(mem) < 1 {
		return Instruction{}, 0, &DecodingFault{Kind: Truncated, IP: ip}
	}
	opWord := mem[0]
	if int(opWord) >= int(opcodeCount) {
		return Instruction{}, 0, &DecodingFault{Kind: InvalidOpcode, IP: ip, Word: opWord}
	}
	op := Opcode(opWord)
	n := arity[op]
	if len(mem) < 1+n {
		return Instruction{}, 0, &DecodingFault{Kind: Truncated, IP: ip}
	}

	var operands [3]Operand
	for i := 0; i < n; i++ {
		w := mem[1+i]
		decoded, ok := DecodeOperand(w)
		if !ok {
			return Instruction{}, 0, &DecodingFault{Kind: InvalidOperand, IP: ip, Word: w}
		}
		operands[i] = decoded
	}

	return Instruction{Op: op, A: operands[0], B: operands[1], C: operands[2]}, 1 + n, nil
}
