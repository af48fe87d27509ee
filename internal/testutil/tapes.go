package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-tapesync/internal/tape"
)

// Synthetic pulse shape: a symmetric triangle on a slightly negative baseline.
const (
	Baseline       int16 = -12
	PulseFlank           = 20   // blocks on each side of the peak
	PulseStep      int16 = 100  // amplitude change per block
	PulseAmplitude int16 = 2100 // peak value
)

// TapeSpec describes a synthetic capture.
type TapeSpec struct {
	// SyncChannel is the logical channel carrying the timing pulse.
	SyncChannel int

	// Blocks is the number of sample blocks after the header.
	Blocks int

	// Peaks are the block numbers of the pulse peaks.
	Peaks []int

	// Trailing bytes appended after the last whole block.
	Trailing int
}

// Signal returns the value a synthetic capture stores on a non-sync logical
// channel at a block. Every block and channel get a distinct, varying value.
func Signal(block, channel int) int16 {
	return int16((block*37+channel*1013)%30000 - 15000)
}

// PulseValue returns the sync channel value at a block for the given peaks.
func PulseValue(block int, peaks []int) int16 {
	for _, p := range peaks {
		d := block - p
		if d < 0 {
			d = -d
		}
		if d <= PulseFlank {
			return PulseAmplitude - int16(d)*PulseStep
		}
	}
	return Baseline
}

// Blocks builds the sample blocks of a synthetic capture.
func Blocks(spec TapeSpec) []tape.SampleBlock {
	blocks := make([]tape.SampleBlock, spec.Blocks)
	for i := range blocks {
		for ch := 1; ch <= tape.Channels; ch++ {
			if ch == spec.SyncChannel {
				blocks[i].SetChannel(ch, PulseValue(i, spec.Peaks))
				continue
			}
			blocks[i].SetChannel(ch, Signal(i, ch))
		}
	}
	return blocks
}

// HeaderSector returns a recognizable header sector.
func HeaderSector() []byte {
	hdr := make([]byte, tape.HeaderSize)
	for i := range hdr {
		hdr[i] = byte(i % 251)
	}
	// valid recording time: 2014-06-24 21:31:53
	copy(hdr[10:16], []byte{3, 5, 1, 3, 1, 2})
	copy(hdr[16:22], []byte{4, 1, 4, 2, 6, 0})
	return hdr
}

// Encode serializes a header sector followed by blocks.
func Encode(header []byte, blocks []tape.SampleBlock, trailing int) []byte {
	data := make([]byte, len(header)+len(blocks)*tape.BlockSize+trailing)
	copy(data, header)
	for i := range blocks {
		blocks[i].Encode(data[len(header)+i*tape.BlockSize:])
	}
	for i := range trailing {
		data[len(data)-trailing+i] = byte(0xa0 + i)
	}
	return data
}

// Capture builds the bytes of a synthetic capture.
func Capture(spec TapeSpec) []byte {
	return Encode(HeaderSector(), Blocks(spec), spec.Trailing)
}

// PeaksEvery returns count peak positions starting at first, separated by
// the given gaps (cycled).
func PeaksEvery(first, count int, gaps ...int) []int {
	peaks := make([]int, count)
	p := first
	for i := range peaks {
		peaks[i] = p
		p += gaps[i%len(gaps)]
	}
	return peaks
}

// WriteCapture writes a synthetic capture into dir and returns its path.
func WriteCapture(t *testing.T, dir, name string, spec TapeSpec) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, Capture(spec), 0o644))
	return path
}
