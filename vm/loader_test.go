package vm

import (
	"bytes"
	"testing"

	"github.com/lilyball/synacorvm/vm/core"
)

func TestLoadImageDecodesLittleEndian(t *testing.T) {
	var mem core.Memory
	// word 0x0102 stored little-endian as bytes 0x02, 0x01
	if err := LoadImage(bytes.NewReader([]byte{0x02, 0x01}), &mem); err != nil {
		t.Fatal(err)
	}
	if mem[0] != 0x0102 {
		t.Errorf("Unexpected decoded word; expected %#04x, found %#04x", 0x0102, mem[0])
	}
}

func TestLoadImageRejectsOddLength(t *testing.T) {
	var mem core.Memory
	err := LoadImage(bytes.NewReader([]byte{0x01}), &mem)
	if err != ErrOddLength {
		t.Errorf("Unexpected error; expected %v, found %v", ErrOddLength, err)
	}
}

func TestLoadImageRejectsOversizedImage(t *testing.T) {
	var mem core.Memory
	oversized := make([]byte, (core.MemSize+1)*2)
	err := LoadImage(bytes.NewReader(oversized), &mem)
	if err != ErrImageTooLarge {
		t.Errorf("Unexpected error; expected %v, found %v", ErrImageTooLarge, err)
	}
}
