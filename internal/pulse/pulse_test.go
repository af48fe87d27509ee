package pulse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-tapesync/internal/tape"
	"github.com/tphakala/go-tapesync/internal/testutil"
)

const syncChannel = 16

// streamOf builds a capture whose sync channel carries samples, one per block.
func streamOf(t *testing.T, samples ...int16) *tape.Stream {
	t.Helper()
	blocks := make([]tape.SampleBlock, len(samples))
	for i, v := range samples {
		for ch := 1; ch <= tape.Channels; ch++ {
			blocks[i].SetChannel(ch, int16(ch))
		}
		blocks[i].SetChannel(syncChannel, v)
	}
	s, err := tape.NewStream("synthetic", bytes.NewReader(testutil.Encode(testutil.HeaderSector(), blocks, 0)))
	require.NoError(t, err)
	require.NoError(t, s.SeekTo(tape.HeaderSize))
	return s
}

// rise returns base followed by n strictly increasing samples.
func rise(base int16, n int) []int16 {
	out := []int16{base}
	for i := 1; i <= n; i++ {
		out = append(out, base+int16(i)*10)
	}
	return out
}

func concat(parts ...[]int16) []int16 {
	var out []int16
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func feed(samples ...int16) Detector {
	var d Detector
	for i, v := range samples {
		d = d.Step(int64(i), v)
	}
	return d
}

func TestDetector_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		samples []int16
		state   State
		rises   int
		peak    int64
	}{
		{"zero stays seeking", []int16{0}, Seeking, 0, 0},
		{"negative stays seeking", []int16{-12, -9, -11}, Seeking, 0, 0},
		{"first positive is a candidate", []int16{-3, 5}, Rising, 0, 1},
		{"rise counts", []int16{5, 6, 7}, Rising, 2, 2},
		{"plateau neither counts nor resets", []int16{5, 6, 6, 7}, Rising, 2, 3},
		{"fall restarts at the falling sample", []int16{5, 6, 7, 4}, Rising, 0, 3},
		{"negative resets", []int16{5, 6, 7, -1}, Seeking, 0, 0},
		{"ten rises confirm", rise(5, DebounceRises), Confirmed, DebounceRises, DebounceRises},
		{"confirmed follows the peak", append(rise(5, DebounceRises), 500, 600), Confirmed, DebounceRises, DebounceRises + 2},
		{"confirmed plateau keeps first maximum", append(rise(5, DebounceRises), 500, 500), Confirmed, DebounceRises, DebounceRises + 1},
		{"first decrease finds", append(rise(5, DebounceRises), 500, 499), Found, DebounceRises, DebounceRises + 1},
		{"negative after confirm finds", append(rise(5, DebounceRises), -7), Found, DebounceRises, DebounceRises},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := feed(tt.samples...)
			assert.Equal(t, tt.state, d.State())
			assert.Equal(t, tt.rises, d.Rises())
			if tt.state != Seeking {
				assert.Equal(t, tt.peak, d.Peak())
			}
		})
	}
}

func TestDetector_StepIsPure(t *testing.T) {
	d := feed(5, 6, 7)
	next := d.Step(3, 8)
	assert.Equal(t, 2, d.Rises(), "receiver unchanged")
	assert.Equal(t, 3, next.Rises())

	found := feed(append(rise(5, DebounceRises), 1)...)
	require.Equal(t, Found, found.State())
	assert.Equal(t, found, found.Step(99, 30000), "found is terminal")
}

func TestNext_NineRisesIsNoise(t *testing.T) {
	s := streamOf(t, concat(
		[]int16{-12, -9, -11},
		rise(50, DebounceRises-1),
		[]int16{30, -5, 7, -3, -12, -12},
	)...)

	_, ok, err := Next(s, syncChannel)
	require.NoError(t, err)
	assert.False(t, ok, "nine rises must not confirm a pulse")
}

func TestNext_PositiveRunLength(t *testing.T) {
	tests := []struct {
		name    string
		samples int
		want    bool
	}{
		{"ten positive samples", 10, false},
		{"eleven positive samples", 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := make([]int16, tt.samples)
			for i := range run {
				run[i] = int16(100 + 10*i)
			}
			s := streamOf(t, concat([]int16{-4}, run, []int16{20, -12, -12})...)

			ev, ok, err := Next(s, syncChannel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			if ok {
				assert.Equal(t, int64(tt.samples), ev.Block)
			}
		})
	}
}

func TestNext_TenRisesConfirm(t *testing.T) {
	s := streamOf(t, concat(
		[]int16{-12, -9, -11},
		rise(50, DebounceRises),
		[]int16{140, 20, -12},
	)...)

	ev, ok, err := Next(s, syncChannel)
	require.NoError(t, err)
	require.True(t, ok)

	// base at block 3, last rise at block 3+10
	assert.Equal(t, int64(13), ev.Block)
	assert.Equal(t, tape.BlockOffset(13), ev.Offset)
	assert.Equal(t, int16(150), ev.Value)
	assert.Equal(t, int64(3), ev.RiseStart)
}

func TestNext_RewindsOntoPeak(t *testing.T) {
	s := streamOf(t, concat(rise(50, 15), []int16{10, -12, -12})...)

	ev, ok, err := Next(s, syncChannel)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ev.Offset, s.Offset())

	blk, err := s.ReadBlock()
	require.NoError(t, err)
	assert.Equal(t, ev.Value, blk.Channel(syncChannel))
}

func TestNext_SkipsBouncingFirstPulse(t *testing.T) {
	s := streamOf(t, concat(
		[]int16{-12, 5, -3, 8, -2, 20, 15, 25, 30, -4, 12, 9, -12},
		rise(40, 30),
		[]int16{300, 200, -12},
	)...)

	ev, ok, err := Next(s, syncChannel)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(13+30), ev.Block)
	assert.Equal(t, int64(13), ev.RiseStart)
}

func TestNext_EndOfStreamWhileConfirmed(t *testing.T) {
	s := streamOf(t, concat([]int16{-12}, rise(50, DebounceRises+3))...)

	_, ok, err := Next(s, syncChannel)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScan_FindsEveryPeak(t *testing.T) {
	peaks := testutil.PeaksEvery(100, 4, 4800, 4799, 4798)
	spec := testutil.TapeSpec{SyncChannel: 12, Blocks: peaks[3] + 1000, Peaks: peaks}
	s, err := tape.NewStream("synthetic", bytes.NewReader(testutil.Capture(spec)))
	require.NoError(t, err)
	require.NoError(t, s.SeekTo(tape.HeaderSize))

	events, err := Scan(s, 12)
	require.NoError(t, err)
	require.Len(t, events, len(peaks))
	for i, ev := range events {
		assert.Equal(t, int64(peaks[i]), ev.Block, "peak %d", i)
		assert.Equal(t, testutil.PulseAmplitude, ev.Value)
	}
	assert.Equal(t, events[3].Offset, s.Offset(), "cursor on last peak")
}

func TestScan_WrongChannelFindsNothing(t *testing.T) {
	spec := testutil.TapeSpec{SyncChannel: 12, Blocks: 500, Peaks: []int{100, 300}}
	s, err := tape.NewStream("synthetic", bytes.NewReader(testutil.Capture(spec)))
	require.NoError(t, err)
	require.NoError(t, s.SeekTo(tape.HeaderSize))

	// channel 3 carries a ramp that never turns over before the end of the capture
	events, err := Scan(s, 3)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, int64(tape.HeaderSize), s.Offset())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "seeking", Seeking.String())
	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "unknown", State(42).String())
}
