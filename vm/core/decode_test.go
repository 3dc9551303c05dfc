package core

import "testing"

func TestDecodeHalt(t *testing.T) {
	mem := []Word{0, 19, 65, 0}
	instr, n, err := Decode(mem, 0)
	if err != nil {
		t.Fatal(err)
	}
	if instr.Op != OpHalt {
		t.Errorf("Unexpected opcode; expected %v, found %v", OpHalt, instr.Op)
	}
	if n != 1 {
		t.Errorf("Unexpected words_consumed; expected 1, found %d", n)
	}
}

func TestDecodeSetWithRegisterAndImmediate(t *testing.T) {
	mem := []Word{1, 32768, 72}
	instr, n, err := Decode(mem, 0)
	if err != nil {
		t.Fatal(err)
	}
	if instr.Op != OpSet {
		t.Errorf("Unexpected opcode; expected %v, found %v", OpSet, instr.Op)
	}
	if n != 3 {
		t.Errorf("Unexpected words_consumed; expected 3, found %d", n)
	}
	if !instr.A.IsRegister() || instr.A.RegisterIndex() != 0 {
		t.Errorf("Unexpected operand A; expected register 0, found %v", instr.A)
	}
	if instr.B.IsRegister() || instr.B.Immediate() != 72 {
		t.Errorf("Unexpected operand B; expected immediate 72, found %v", instr.B)
	}
}

func TestDecodeInvalidOpcode(t *testing.T) {
	mem := []Word{22}
	_, _, err := Decode(mem, 0)
	var fault *DecodingFault
	if !asDecodingFault(err, &fault) {
		t.Fatalf("Expected a DecodingFault, found %v", err)
	}
	if fault.Kind != InvalidOpcode {
		t.Errorf("Unexpected fault kind; expected %v, found %v", InvalidOpcode, fault.Kind)
	}
}

func TestDecodeInvalidOperand(t *testing.T) {
	mem := []Word{1, 32776, 0}
	_, _, err := Decode(mem, 0)
	var fault *DecodingFault
	if !asDecodingFault(err, &fault) {
		t.Fatalf("Expected a DecodingFault, found %v", err)
	}
	if fault.Kind != InvalidOperand {
		t.Errorf("Unexpected fault kind; expected %v, found %v", InvalidOperand, fault.Kind)
	}
}

func TestDecodeTruncated(t *testing.T) {
	mem := []Word{9, 32768, 1} // add needs 3 operands, only 2 given
	_, _, err := Decode(mem, 0)
	var fault *DecodingFault
	if !asDecodingFault(err, &fault) {
		t.Fatalf("Expected a DecodingFault, found %v", err)
	}
	if fault.Kind != Truncated {
		t.Errorf("Unexpected fault kind; expected %v, found %v", Truncated, fault.Kind)
	}
}

// TestOperandRoundTrip checks property 7 from SPEC_FULL.md §8: decoding is
// a bijection on [0, 32776).
func TestOperandRoundTrip(t *testing.T) {
	for w := 0; w < 32776; w++ {
		op, ok := DecodeOperand(Word(w))
		if !ok {
			t.Fatalf("DecodeOperand(%d) unexpectedly failed", w)
		}
		if got := EncodeOperand(op); got != Word(w) {
			t.Errorf("Round trip failed for %d; got %d", w, got)
		}
	}
}

func TestOperandInvalidRange(t *testing.T) {
	for _, w := range []Word{32776, 40000, 65535} {
		if _, ok := DecodeOperand(w); ok {
			t.Errorf("DecodeOperand(%d) unexpectedly succeeded", w)
		}
	}
}

func asDecodingFault(err error, out **DecodingFault) bool {
	fault, ok := err.(*DecodingFault)
	if ok {
		*out = fault
	}
	return ok
}
