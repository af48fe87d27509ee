package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-tapesync/internal/daq"
	"github.com/tphakala/go-tapesync/internal/tape"
	"github.com/tphakala/go-tapesync/internal/testutil"
)

// decodeWAV returns the format and interleaved samples of a WAV file.
func decodeWAV(t *testing.T, path string) (rate, chans int, data []int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile(), "invalid WAV file")
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	return buf.Format.SampleRate, buf.Format.NumChannels, buf.Data
}

func TestParseChannels(t *testing.T) {
	chans, err := parseChannels("1, 16,4", tape.Channels)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 16, 4}, chans)

	chans, err = parseChannels("64", daq.ChannelsPerFrame)
	require.NoError(t, err)
	assert.Equal(t, []int{64}, chans)

	for _, spec := range []string{"", ",", "0", "17", "x"} {
		_, err := parseChannels(spec, tape.Channels)
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestDefaultRate(t *testing.T) {
	assert.Equal(t, 24000, defaultRate("/data/run1_a.dd"))
	assert.Equal(t, 25000, defaultRate("/data/run1_a_25KHz.dd"))
	assert.Equal(t, 25000, defaultRate("run1_from_cyg_1-64.DAQ"))
}

func TestExportFile_Tape(t *testing.T) {
	dir := t.TempDir()
	spec := testutil.TapeSpec{SyncChannel: 16, Blocks: 20000, Peaks: []int{100, 4900}, Trailing: 3}
	in := testutil.WriteCapture(t, dir, "run_a.dd", spec)
	out := filepath.Join(dir, "run_a.wav")

	frames, chans, err := exportFile(in, out, "16,1", 24000, false)
	require.NoError(t, err)
	assert.Equal(t, int64(spec.Blocks), frames)
	assert.Equal(t, []int{16, 1}, chans)

	rate, numChans, data := decodeWAV(t, out)
	assert.Equal(t, 24000, rate)
	assert.Equal(t, 2, numChans)
	require.Len(t, data, 2*spec.Blocks)
	for b := range spec.Blocks {
		require.Equal(t, int(testutil.PulseValue(b, spec.Peaks)), data[2*b], "block %d sync", b)
		require.Equal(t, int(testutil.Signal(b, 1)), data[2*b+1], "block %d ch1", b)
	}
}

func TestExportFile_DAQ(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "run_from_cyg_1-64.daq")

	f, err := os.Create(in)
	require.NoError(t, err)
	w := daq.NewWriter(f)
	for i := range 100 {
		frame := daq.NewFrame()
		var blk tape.SampleBlock
		blk.SetChannel(1, int16(i*10))
		blk.SetChannel(16, int16(-i))
		frame.SetTape(3, &blk)
		require.NoError(t, w.WriteFrame(&frame))
	}
	require.NoError(t, w.Flush())
	_, err = f.Write([]byte{0, 0, 0, 0, 1})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "frames.wav")
	frames, _, err := exportFile(in, out, "49,64,1", defaultRate(in), false)
	require.NoError(t, err)
	assert.Equal(t, int64(100), frames)

	rate, numChans, data := decodeWAV(t, out)
	assert.Equal(t, 25000, rate)
	assert.Equal(t, 3, numChans)
	require.Len(t, data, 300)
	for i := range 100 {
		assert.Equal(t, i*10, data[3*i])
		assert.Equal(t, -i, data[3*i+1])
		assert.Equal(t, 0, data[3*i+2], "absent tape exports silence")
	}
}

func TestExportFile_Errors(t *testing.T) {
	dir := t.TempDir()
	_, _, err := exportFile(filepath.Join(dir, "missing.dd"), filepath.Join(dir, "x.wav"), "1", 24000, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")

	in := testutil.WriteCapture(t, dir, "a.dd", testutil.TapeSpec{Blocks: 10})
	_, _, err = exportFile(in, filepath.Join(dir, "x.wav"), "17", 24000, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}
