package daq

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-tapesync/internal/tape"
)

func TestOffsetBinary(t *testing.T) {
	tests := []struct {
		in   int16
		want uint16
	}{
		{0, 0x8000},
		{-1, 0x7FFF},
		{1, 0x8001},
		{0x7FFF, 0xFFFF},
		{-32767, 0x0001},
		{-32768, 0x0001}, // would be the marker code
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OffsetBinary(tt.in), "sample %d", tt.in)
	}
}

func TestOffsetBinary_NeverReserved(t *testing.T) {
	for v := -32768; v <= 32767; v++ {
		code := OffsetBinary(int16(v))
		require.NotEqual(t, reservedCode, code, "sample %d", v)
		if v != -32768 {
			require.Equal(t, int16(v), Signed(code), "sample %d", v)
		}
	}
}

func TestNewFrame(t *testing.T) {
	f := NewFrame()
	assert.Equal(t, uint16(0), f[0])
	assert.Equal(t, uint16(0), f[1])
	for ch := 1; ch <= ChannelsPerFrame; ch++ {
		assert.Equal(t, ZeroCode, f.Code(ch))
		assert.Equal(t, int16(0), f.Sample(ch))
	}
}

func TestFrame_SetTapeReorders(t *testing.T) {
	var blk tape.SampleBlock
	for ch := 1; ch <= tape.Channels; ch++ {
		blk.SetChannel(ch, int16(ch*100))
	}

	f := NewFrame()
	f.SetTape(2, &blk)

	for ch := 1; ch <= tape.Channels; ch++ {
		assert.Equal(t, int16(ch*100), f.Sample(2*tape.Channels+ch), "logical channel %d", ch)
		assert.Equal(t, ZeroCode, f.Code(ch), "tape 0 untouched")
		assert.Equal(t, ZeroCode, f.Code(3*tape.Channels+ch), "tape 3 untouched")
	}
	assert.Equal(t, uint16(0), f[0])
	assert.Equal(t, uint16(0), f[1])
}

func TestFrame_EncodeDecode(t *testing.T) {
	f := NewFrame()
	var blk tape.SampleBlock
	blk.SetChannel(1, -1)
	blk.SetChannel(16, 0x7FFF)
	f.SetTape(0, &blk)

	buf := make([]byte, FrameSize)
	f.Encode(buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0xFF, 0x7F}, buf[:6])
	assert.Equal(t, []byte{0xFF, 0xFF}, buf[2*(MarkerWords+15):2*(MarkerWords+16)])

	got, err := DecodeFrame(buf)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestDecodeFrame_Errors(t *testing.T) {
	_, err := DecodeFrame(make([]byte, FrameSize-1))
	require.ErrorIs(t, err, ErrShortFrame)

	buf := make([]byte, FrameSize)
	buf[2] = 1
	_, err = DecodeFrame(buf)
	require.ErrorIs(t, err, ErrBadMarker)
}

func TestFrame_CodePanics(t *testing.T) {
	f := NewFrame()
	assert.Panics(t, func() { f.Code(0) })
	assert.Panics(t, func() { f.Code(ChannelsPerFrame + 1) })
}

func TestWriterReader(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	frames := make([]Frame, 3)
	for i := range frames {
		frames[i] = NewFrame()
		var blk tape.SampleBlock
		blk.SetChannel(5, int16(i-1))
		frames[i].SetTape(1, &blk)
		require.NoError(t, w.WriteFrame(&frames[i]))
	}
	require.NoError(t, w.Flush())
	assert.Equal(t, int64(3), w.Frames())
	assert.Equal(t, 3*FrameSize, out.Len())

	// partial trailing frame
	out.Write([]byte{0, 0, 0})

	r := NewReader(&out)
	for i := range frames {
		got, err := r.ReadFrame()
		require.NoError(t, err)
		assert.Equal(t, int16(i-1), got.Sample(tape.Channels+5))
	}
	_, err := r.ReadFrame()
	require.ErrorIs(t, err, ErrShortFrame)

	_, err = NewReader(bytes.NewReader(nil)).ReadFrame()
	require.ErrorIs(t, err, io.EOF)
}
