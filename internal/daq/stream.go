package daq

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ioBufferSize is the buffer size for frame streams (256KB).
const ioBufferSize = 256 * 1024

// Writer appends encoded frames to an output.
type Writer struct {
	w      *bufio.Writer
	buf    [FrameSize]byte
	frames int64
}

// NewWriter creates a Writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, ioBufferSize)}
}

// WriteFrame encodes and writes one frame.
func (w *Writer) WriteFrame(f *Frame) error {
	f.Encode(w.buf[:])
	if _, err := w.w.Write(w.buf[:]); err != nil {
		return err
	}
	w.frames++
	return nil
}

// Frames returns the number of frames written.
func (w *Writer) Frames() int64 { return w.frames }

// Flush flushes buffered frames to the underlying writer.
func (w *Writer) Flush() error { return w.w.Flush() }

// Reader decodes frames from an input.
type Reader struct {
	r   *bufio.Reader
	buf [FrameSize]byte
}

// NewReader creates a Reader on top of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, ioBufferSize)}
}

// ReadFrame reads the next frame. It returns io.EOF at a clean end of input
// and ErrShortFrame when the input ends inside a frame.
func (r *Reader) ReadFrame() (Frame, error) {
	n, err := io.ReadFull(r.r, r.buf[:])
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, fmt.Errorf("%w: %d trailing bytes", ErrShortFrame, n)
		}
		return Frame{}, err
	}
	return DecodeFrame(r.buf[:])
}
