package vm

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/lilyball/synacorvm/vm/core"
)

// ErrImageTooLarge is returned by LoadImage when the program image contains
// more than core.MemSize words.
var ErrImageTooLarge = fmt.Errorf("program image exceeds %d words", core.MemSize)

// ErrOddLength is returned by LoadImage when the program image's byte
// length is not even, so it cannot be split into whole little-endian words.
var ErrOddLength = fmt.Errorf("program image has an odd number of bytes")

// LoadImage reads a binary program image from r and copies it into mem
// starting at address 0. The image is an even number of bytes, each
// consecutive pair a little-endian word (SPEC_FULL.md §6); the loader
// decodes explicitly with encoding/binary rather than reinterpreting the
// byte slice as a []core.Word, per the anti-aliasing note in §9.
func LoadImage(r io.Reader, mem *core.Memory) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading program image: %w", err)
	}
	if len(raw)%2 != 0 {
		return ErrOddLength
	}
	words := len(raw) / 2
	if words > core.MemSize {
		return ErrImageTooLarge
	}
	for i := 0; i < words; i++ {
		mem[i] = core.Word(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return nil
}
