package tape

// Tape geometry
const (
	// Channels is the number of physical channels recorded on one tape.
	Channels = 16

	// BytesPerSample is the size of one little-endian two's-complement sample.
	BytesPerSample = 2

	// BlockSize is the size of one SampleBlock in bytes.
	BlockSize = Channels * BytesPerSample

	// HeaderSize is the size of the leading header sector. The tape writes a
	// 128-byte header record; the capture pads it with zeros to one full
	// tape sector.
	HeaderSize = 65024

	// HeaderRecordSize is the size of the meaningful part of the header sector.
	HeaderRecordSize = 128

	// MaxTapes is the number of tapes that can be recorded simultaneously.
	MaxTapes = 4
)

// Header record layout
const (
	bcdDigits     = 6
	gainFields    = 8
	headerPadSize = 98

	// Two-digit years above this value belong to the 1900s.
	centuryPivot = 19
	century19    = 1900
	century20    = 2000

	bcdMaxDigit = 9
	decimalBase = 10
)

// Stream buffering
const (
	// streamBufferSize is the read buffer size of a Stream.
	// Must be a multiple of BlockSize so buffered blocks never straddle refills.
	streamBufferSize = 2048 * BlockSize
)
