// Package resample maps the source blocks of one timing pulse interval onto
// exactly TargetCount output blocks by per-channel linear interpolation.
//
// Both the source and target tick sequences span one pulse period starting
// at zero. The first output block is the opening peak itself. Every following
// target tick is located in the bracket of two adjacent source ticks that
// contains it and interpolated from those two blocks; the last target tick
// coincides with the last source tick.
package resample

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-tapesync/internal/simdops"
	"github.com/tphakala/go-tapesync/internal/tape"
)

// ErrShortSegment is returned for segments too short to resample.
var ErrShortSegment = errors.New("segment too short")

// BlockReader yields source blocks in order.
type BlockReader interface {
	ReadBlock() (tape.SampleBlock, error)
}

// BlockWriter consumes output blocks in order.
type BlockWriter interface {
	WriteBlock(tape.SampleBlock) error
}

// Resampler converts segments to the target rate. It caches tick tables
// between segments and is not safe for concurrent use.
type Resampler struct {
	ops *simdops.Ops

	target []float64

	// source ticks for the last seen source count
	source  []float64
	sourceN int

	left, delta, mix [tape.Channels]float64
}

// New creates a Resampler.
func New() *Resampler {
	return &Resampler{
		ops:    simdops.Float64Ops(),
		target: TargetTicks(),
	}
}

func (r *Resampler) sourceTicks(n int) []float64 {
	if n != r.sourceN {
		r.source = SourceTicks(n)
		r.sourceN = n
	}
	return r.source
}

// Check validates a segment before resampling and returns the quality
// warnings it raises.
func Check(seg Segment) ([]Warning, error) {
	n := seg.SourceCount()
	if n < MinSourceCount {
		return nil, fmt.Errorf("%w: %s, need at least %d blocks", ErrShortSegment, seg, MinSourceCount)
	}
	var warnings []Warning
	if n > IdealSourceCount+MaxSourceExcess {
		warnings = append(warnings, WarnExcessSource)
	}
	if seg.Deficit() < -MaxDeficit {
		warnings = append(warnings, WarnLargeDeficit)
	}
	return warnings, nil
}

// Resample reads exactly seg.SourceCount() blocks from src, the first being
// the opening peak, and writes exactly TargetCount blocks to dst.
func (r *Resampler) Resample(src BlockReader, dst BlockWriter, seg Segment) (*Report, error) {
	warnings, err := Check(seg)
	if err != nil {
		return nil, err
	}
	report := &Report{Segment: seg, Warnings: warnings}

	n := seg.SourceCount()
	source := r.sourceTicks(n)
	target := r.target

	left, err := src.ReadBlock()
	if err != nil {
		return report, fmt.Errorf("reading opening peak: %w", err)
	}
	report.Read++

	// target tick 0 coincides with source tick 0
	if err := dst.WriteBlock(left); err != nil {
		return report, err
	}
	report.Written++

	ti := 1
	for i := range n - 1 {
		right, err := src.ReadBlock()
		if err != nil {
			return report, fmt.Errorf("reading source block %d of %s: %w", i+1, seg, err)
		}
		report.Read++

		if ti >= len(target) {
			report.UnusedSources++
			left = right
			continue
		}

		lo, hi := source[i], source[i+1]
		count := ticksInBracket(target[ti:], lo, hi)
		switch count {
		case 0:
			report.EmptyBrackets++
		case maxTicksPerBracket:
			report.DoubleBrackets++
		}

		if count > 0 {
			r.setBracket(&left, &right)
			for range count {
				frac := (target[ti] - lo) / (hi - lo)
				if err := dst.WriteBlock(r.interpolate(frac)); err != nil {
					return report, err
				}
				report.Written++
				ti++
			}
		}
		left = right
	}

	report.UnusedTargets = len(target) - ti
	if report.UnusedTargets > 0 {
		report.Warnings = append(report.Warnings, WarnUnusedTargets)
	}
	if report.UnusedSources > 0 {
		report.Warnings = append(report.Warnings, WarnUnusedSources)
	}
	return report, nil
}

// ticksInBracket counts the leading ticks inside the closed interval [lo, hi],
// up to maxTicksPerBracket.
func ticksInBracket(ticks []float64, lo, hi float64) int {
	count := 0
	for count < maxTicksPerBracket && count < len(ticks) && ticks[count] >= lo && ticks[count] <= hi {
		count++
	}
	return count
}

func (r *Resampler) setBracket(left, right *tape.SampleBlock) {
	for c := range tape.Channels {
		r.left[c] = float64(left[c])
		r.delta[c] = float64(right[c]) - float64(left[c])
	}
}

// interpolate mixes the current bracket at frac and narrows to int16 by
// truncation toward zero.
func (r *Resampler) interpolate(frac float64) tape.SampleBlock {
	r.ops.Lerp(r.mix[:], r.left[:], r.delta[:], frac)
	var out tape.SampleBlock
	for c := range out {
		out[c] = int16(r.mix[c])
	}
	return out
}
