package tape

import (
	"bufio"
	"io"
)

// writerBufferSize is the output buffer size (256KB).
const writerBufferSize = 256 * 1024

// Writer is an append-only buffered output for captures. It accepts both
// verbatim bytes and encoded sample blocks and tracks the output offset.
type Writer struct {
	w   *bufio.Writer
	buf [BlockSize]byte
	off int64
}

// NewWriter creates a Writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, writerBufferSize)}
}

// Write writes raw bytes.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.off += int64(n)
	return n, err
}

// WriteBlock encodes and writes one sample block.
func (w *Writer) WriteBlock(b SampleBlock) error {
	b.Encode(w.buf[:])
	_, err := w.Write(w.buf[:])
	return err
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 { return w.off }

// Flush flushes buffered data to the underlying writer.
func (w *Writer) Flush() error { return w.w.Flush() }
