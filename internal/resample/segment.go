package resample

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Segment is the span of source blocks between two consecutive timing peaks.
// Start is the block of the opening peak; the closing peak (at End) belongs
// to the next segment.
type Segment struct {
	Start, End int64
}

// NewSegment creates the segment opened by the peak at start and closed by
// the peak at end.
func NewSegment(start, end int64) Segment {
	return Segment{Start: start, End: end}
}

// SourceCount returns the number of source blocks in the segment.
func (s Segment) SourceCount() int {
	return int(s.End - s.Start)
}

// Deficit returns SourceCount minus IdealSourceCount. Negative means the
// recorder ran slow over this interval.
func (s Segment) Deficit() int {
	return s.SourceCount() - IdealSourceCount
}

// EffectiveRate returns the sample rate the recorder actually ran at.
func (s Segment) EffectiveRate() float64 {
	return SourceRate + PulseRate*float64(s.Deficit())
}

// Duration returns the time span of the segment in seconds. It is one pulse
// period regardless of the deficit.
func (s Segment) Duration() float64 {
	return float64(s.SourceCount()) / s.EffectiveRate()
}

func (s Segment) String() string {
	return fmt.Sprintf("blocks %d..%d (%d, deficit %+d)", s.Start, s.End, s.SourceCount(), s.Deficit())
}

// linspace fills dst with evenly spaced values from l to u. The last element
// is pinned to u so the segment ends exactly on the closing peak.
func linspace(dst []float64, l, u float64) []float64 {
	if len(dst) < 2 {
		for i := range dst {
			dst[i] = l
		}
		return dst
	}
	floats.Span(dst, l, u)
	dst[len(dst)-1] = u
	return dst
}

// SourceTicks returns the timestamps of n source blocks spanning one pulse
// period at the effective rate implied by n.
func SourceTicks(n int) []float64 {
	seg := Segment{End: int64(n)}
	return linspace(make([]float64, n), 0, seg.Duration())
}

// TargetTicks returns the timestamps of the TargetCount output blocks of
// one pulse period.
func TargetTicks() []float64 {
	return linspace(make([]float64, TargetCount), 0, float64(TargetCount)/TargetRate)
}
