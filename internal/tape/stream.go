package tape

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Stream is a buffered, seekable reader over a tape capture that tracks the
// absolute byte offset of the next read. A Stream is owned by a single driver
// and is not safe for concurrent use.
type Stream struct {
	name string
	src  io.ReadSeeker
	r    *bufio.Reader
	pos  int64
	size int64
	buf  [BlockSize]byte
}

// NewStream wraps src, which must be positioned at offset 0.
func NewStream(name string, src io.ReadSeeker) (*Stream, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to size %s: %w", name, err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind %s: %w", name, err)
	}

	return &Stream{
		name: name,
		src:  src,
		r:    bufio.NewReaderSize(src, streamBufferSize),
		size: size,
	}, nil
}

// Open opens a tape capture file.
func Open(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	s, err := NewStream(path, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

// Name returns the name the stream was opened with.
func (s *Stream) Name() string { return s.name }

// Offset returns the absolute byte offset of the next read.
func (s *Stream) Offset() int64 { return s.pos }

// Size returns the total size of the capture in bytes.
func (s *Stream) Size() int64 { return s.size }

// SeekTo moves the cursor to an absolute byte offset.
func (s *Stream) SeekTo(offset int64) error {
	if offset < 0 || offset > s.size {
		return fmt.Errorf("%s: seek to %d outside [0, %d]", s.name, offset, s.size)
	}

	// Short forward hops stay inside the read buffer.
	if delta := offset - s.pos; delta >= 0 && delta <= int64(s.r.Buffered()) {
		n, err := s.r.Discard(int(delta))
		s.pos += int64(n)
		return err
	}

	if _, err := s.src.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("%s: seek to %d: %w", s.name, offset, err)
	}
	s.r.Reset(s.src)
	s.pos = offset
	return nil
}

// ReadBlock reads the next SampleBlock. It returns io.EOF when fewer than
// BlockSize bytes remain; the cursor is left where it was in that case.
func (s *Stream) ReadBlock() (SampleBlock, error) {
	start := s.pos
	n, err := io.ReadFull(s.r, s.buf[:])
	s.pos += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			if n > 0 {
				if serr := s.SeekTo(start); serr != nil {
					return SampleBlock{}, serr
				}
			}
			return SampleBlock{}, io.EOF
		}
		return SampleBlock{}, fmt.Errorf("%s: read at %d: %w", s.name, start, err)
	}
	return DecodeBlock(s.buf[:]), nil
}

// ReadHeader reads the header sector from the start of the capture and
// leaves the cursor on the first sample block.
func (s *Stream) ReadHeader() ([]byte, error) {
	if err := s.SeekTo(0); err != nil {
		return nil, err
	}
	hdr := make([]byte, HeaderSize)
	n, err := io.ReadFull(s.r, hdr)
	s.pos += int64(n)
	if err != nil {
		return nil, fmt.Errorf("%s: header sector: %w", s.name, err)
	}
	return hdr, nil
}

// CopyN copies n bytes from the cursor to w verbatim.
func (s *Stream) CopyN(w io.Writer, n int64) (int64, error) {
	written, err := io.CopyN(w, s.r, n)
	s.pos += written
	return written, err
}

// CopyRest copies everything from the cursor to the end of the capture.
func (s *Stream) CopyRest(w io.Writer) (int64, error) {
	written, err := io.Copy(w, s.r)
	s.pos += written
	return written, err
}

// Close closes the underlying source if it is closable.
func (s *Stream) Close() error {
	if c, ok := s.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
