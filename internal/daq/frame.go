// Package daq implements the multiplexed acquisition frame format: a stream
// of fixed-size frames, each two zero marker words followed by one
// offset-binary word per output channel, all little-endian.
//
// Tape t (0-based) owns output channels t*16+1 .. t*16+16 in logical channel
// order. Channels of absent or exhausted tapes hold ZeroCode.
package daq

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tphakala/go-tapesync/internal/tape"
)

// Frame geometry
const (
	// MarkerWords is the number of zero words opening every frame.
	MarkerWords = 2

	// ChannelsPerFrame is the number of channel words in a frame.
	ChannelsPerFrame = tape.MaxTapes * tape.Channels

	// FrameWords is the total number of 16-bit words in a frame.
	FrameWords = MarkerWords + ChannelsPerFrame

	// FrameSize is the encoded frame size in bytes.
	FrameSize = FrameWords * 2
)

// Offset-binary codes
const (
	// ZeroCode encodes a zero sample.
	ZeroCode uint16 = 0x8000

	// reservedCode is the all-zero word used only by frame markers.
	reservedCode uint16 = 0

	// substituteCode replaces a sample that would encode as reservedCode.
	substituteCode uint16 = 1
)

var (
	// ErrShortFrame is returned when fewer than FrameSize bytes remain.
	ErrShortFrame = errors.New("short frame")

	// ErrBadMarker is returned when a frame does not open with zero markers.
	ErrBadMarker = errors.New("frame marker is not zero")
)

// OffsetBinary converts a two's-complement sample to offset binary. The most
// negative sample would produce the reserved marker code and becomes 1.
func OffsetBinary(v int16) uint16 {
	code := uint16(v) ^ 0x8000
	if code == reservedCode {
		return substituteCode
	}
	return code
}

// Signed converts an offset-binary code back to a two's-complement sample.
func Signed(code uint16) int16 {
	return int16(code ^ 0x8000)
}

// Frame is one multiplexed acquisition instant.
type Frame [FrameWords]uint16

// NewFrame returns a frame with zero markers and every channel at ZeroCode.
func NewFrame() Frame {
	var f Frame
	f.Reset()
	return f
}

// Reset restores the state returned by NewFrame.
func (f *Frame) Reset() {
	for i := range f {
		f[i] = ZeroCode
	}
	for i := range MarkerWords {
		f[i] = reservedCode
	}
}

// SetTape stores one tape block into the quadrant of tape index t (0-based),
// reordering storage slots into logical channel order.
func (f *Frame) SetTape(t int, b *tape.SampleBlock) {
	base := MarkerWords + t*tape.Channels
	for slot, v := range b {
		f[base+tape.LogicalIndex(slot)] = OffsetBinary(v)
	}
}

// Code returns the offset-binary word of a 1-based output channel.
func (f *Frame) Code(channel int) uint16 {
	if channel < 1 || channel > ChannelsPerFrame {
		panic(fmt.Sprintf("daq: channel %d out of range", channel))
	}
	return f[MarkerWords+channel-1]
}

// Sample returns the two's-complement sample of a 1-based output channel.
func (f *Frame) Sample(channel int) int16 {
	return Signed(f.Code(channel))
}

// Encode writes the frame into dst, which must hold FrameSize bytes.
func (f *Frame) Encode(dst []byte) {
	_ = dst[FrameSize-1]
	for i, w := range f {
		binary.LittleEndian.PutUint16(dst[2*i:], w)
	}
}

// DecodeFrame parses one frame from src.
func DecodeFrame(src []byte) (Frame, error) {
	var f Frame
	if len(src) < FrameSize {
		return f, fmt.Errorf("%w: %d of %d bytes", ErrShortFrame, len(src), FrameSize)
	}
	for i := range f {
		f[i] = binary.LittleEndian.Uint16(src[2*i:])
	}
	for i := range MarkerWords {
		if f[i] != reservedCode {
			return f, fmt.Errorf("%w: word %d is %#04x", ErrBadMarker, i, f[i])
		}
	}
	return f, nil
}
