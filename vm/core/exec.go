package core

// OutputSink receives bytes emitted by the out instruction.
type OutputSink interface {
	WriteByte(b byte) error
}

// InputSource supplies bytes consumed by the in instruction. ReadByte
// returns ok=false on end of input rather than an error; per the
// end-of-input policy decided in SPEC_FULL.md §9, exhausting the input
// source is not itself a fault.
type InputSource interface {
	ReadByte() (b byte, ok bool, err error)
}

// Execute applies instr's semantics to s, per the table in SPEC_FULL.md
// §4.3. The caller must have already advanced s's instruction pointer past
// instr (the "pre-advance" rule: call must push the address of the next
// instruction, and jt/jf/jmp/call overwrite whatever the pre-advance set).
//
// out and in is the only place Execute touches I/O; every other opcode is a
// pure function of machine state.
func Execute(s *State, instr Instruction, out OutputSink, in InputSource) error {
	switch instr.Op {
	case OpHalt:
		s.Halt()

	case OpSet:
		return s.Write(instr.A, s.Resolve(instr.B))

	case OpPush:
		return s.Push(s.Resolve(instr.A))

	case OpPop:
		v, err := s.Pop()
		if err != nil {
			return err
		}
		return s.writeRaw(instr.A, v)

	case OpEq:
		return s.Write(instr.A, boolWord(s.Resolve(instr.B) == s.Resolve(instr.C)))

	case OpGt:
		return s.Write(instr.A, boolWord(s.Resolve(instr.B) > s.Resolve(instr.C)))

	case OpJmp:
		s.SetIP(s.Resolve(instr.A))

	case OpJt:
		if s.Resolve(instr.A) != 0 {
			s.SetIP(s.Resolve(instr.B))
		}

	case OpJf:
		if s.Resolve(instr.A) == 0 {
			s.SetIP(s.Resolve(instr.B))
		}

	case OpAdd:
		sum := uint32(s.Resolve(instr.B)) + uint32(s.Resolve(instr.C))
		return s.Write(instr.A, Word(sum%modulus))

	case OpMult:
		prod := uint32(s.Resolve(instr.B)) * uint32(s.Resolve(instr.C))
		return s.Write(instr.A, Word(prod%modulus))

	case OpMod:
		b, c := s.Resolve(instr.B), s.Resolve(instr.C)
		if c == 0 {
			return &SemanticFault{Kind: DivideByZero}
		}
		return s.Write(instr.A, b%c)

	case OpAnd:
		return s.Write(instr.A, s.Resolve(instr.B)&s.Resolve(instr.C))

	case OpOr:
		return s.Write(instr.A, s.Resolve(instr.B)|s.Resolve(instr.C))

	case OpNot:
		return s.Write(instr.A, ^s.Resolve(instr.B)&maxWord)

	case OpRmem:
		v, err := s.ReadMem(s.Resolve(instr.B))
		if err != nil {
			return err
		}
		return s.writeRaw(instr.A, v)

	case OpWmem:
		return s.WriteMem(s.Resolve(instr.A), s.Resolve(instr.B))

	case OpCall:
		target := s.Resolve(instr.A)
		if err := s.Push(s.IP()); err != nil {
			return err
		}
		s.SetIP(target)

	case OpRet:
		target, err := s.Pop()
		if err != nil {
			// An empty stack on ret is a clean halt, not a fault
			// (SPEC_FULL.md §4.3: "if stack empty, Halt()").
			s.Halt()
			return nil
		}
		s.SetIP(target)

	case OpOut:
		b := byte(s.Resolve(instr.A) & 0xFF)
		if err := out.WriteByte(b); err != nil {
			return &IOFault{Op: "out", Err: err}
		}

	case OpIn:
		b, ok, err := in.ReadByte()
		if err != nil {
			return &IOFault{Op: "in", Err: err}
		}
		if !ok {
			// End of input: write 0 and continue (decided open question,
			// SPEC_FULL.md §9).
			return s.writeRaw(instr.A, 0)
		}
		return s.writeRaw(instr.A, Word(b))

	case OpNoop:
		// no effect

	default:
		// unreachable: Decode never produces an Opcode outside the table.
		return &DecodingFault{Kind: InvalidOpcode, IP: s.IP(), Word: Word(instr.Op)}
	}
	return nil
}

func boolWord(b bool) Word {
	if b {
		return 1
	}
	return 0
}
