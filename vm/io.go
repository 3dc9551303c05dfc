package vm

import (
	"bufio"
	"io"
)

// readerInput adapts an io.Reader to core.InputSource, returning one byte
// per call. It is grounded on the teacher's keyboard
// (dcpu/keyboard.go): a narrow interface around a single blocking read,
// generalized from a rune channel fed by a UI event loop to any
// io.ByteReader-shaped source.
type readerInput struct {
	r *bufio.Reader
}

// NewReaderInput wraps r as a core.InputSource. Reads from r go through a
// bufio.Reader, which may read ahead of what the guest has consumed; each
// ReadByte call hands exactly one byte to the guest.
func NewReaderInput(r io.Reader) *readerInput {
	return &readerInput{r: bufio.NewReader(r)}
}

func (in *readerInput) ReadByte() (byte, bool, error) {
	b, err := in.r.ReadByte()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return b, true, nil
}

// writerOutput adapts an io.Writer to core.OutputSink.
type writerOutput struct {
	w *bufio.Writer
}

// NewWriterOutput wraps w as a core.OutputSink. The caller is responsible
// for calling Flush (or relying on Machine.Run's flush-before-blocking-in
// and flush-on-exit behavior, SPEC_FULL.md §5) to guarantee buffered bytes
// reach w.
func NewWriterOutput(w io.Writer) *writerOutput {
	return &writerOutput{w: bufio.NewWriter(w)}
}

func (out *writerOutput) WriteByte(b byte) error {
	return out.w.WriteByte(b)
}

// Flush delivers any buffered bytes to the underlying writer.
func (out *writerOutput) Flush() error {
	return out.w.Flush()
}
