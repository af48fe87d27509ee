// Package align gives several tape captures a common time origin by skipping
// leading blocks until every tape's first timing pulse peak falls at the same
// block number.
//
// Alignment is block granular and happens once, up front. Drift between
// tapes after the first pulse is not corrected.
package align

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-tapesync/internal/pulse"
	"github.com/tphakala/go-tapesync/internal/tape"
)

// ErrNoTimingPulse is returned when a tape's sync channel never yields a
// confirmed pulse.
var ErrNoTimingPulse = errors.New("no timing pulse found")

// Tape is one input of an alignment. A nil Stream marks an unused slot.
type Tape struct {
	Label       string
	Stream      *tape.Stream
	SyncChannel int
}

// Present reports whether the slot holds a stream.
func (t Tape) Present() bool { return t.Stream != nil }

// Offset is the alignment result for one tape slot.
type Offset struct {
	Present bool

	// First is the first confirmed pulse of the tape.
	First pulse.Event

	// Skip is the number of bytes skipped after the header sector.
	Skip int64
}

// SkipBlocks returns Skip in blocks.
func (o Offset) SkipBlocks() int64 { return o.Skip / tape.BlockSize }

// Align locates the first pulse of every present tape, computes the per-tape
// skips and leaves every stream positioned at HeaderSize+Skip. The returned
// slice is parallel to tapes.
func Align(tapes []Tape) ([]Offset, error) {
	offsets := make([]Offset, len(tapes))
	for i, t := range tapes {
		if !t.Present() {
			continue
		}
		first, err := FirstPulse(t)
		if err != nil {
			return nil, err
		}
		offsets[i] = Offset{Present: true, First: first}
	}

	computeSkips(offsets)

	for i, t := range tapes {
		if !offsets[i].Present {
			continue
		}
		if err := t.Stream.SeekTo(tape.HeaderSize + offsets[i].Skip); err != nil {
			return nil, fmt.Errorf("tape %s: %w", t.Label, err)
		}
	}
	return offsets, nil
}

// FirstPulse finds the first confirmed pulse peak of a tape, scanning from
// the first data block.
func FirstPulse(t Tape) (pulse.Event, error) {
	if !tape.ValidChannel(t.SyncChannel) {
		return pulse.Event{}, fmt.Errorf("tape %s: invalid sync channel %d", t.Label, t.SyncChannel)
	}
	if err := t.Stream.SeekTo(tape.HeaderSize); err != nil {
		return pulse.Event{}, fmt.Errorf("tape %s: %w", t.Label, err)
	}
	ev, ok, err := pulse.Next(t.Stream, t.SyncChannel)
	if err != nil {
		return pulse.Event{}, fmt.Errorf("tape %s: %w", t.Label, err)
	}
	if !ok {
		return pulse.Event{}, fmt.Errorf("%w: tape %s (%s) on channel %d",
			ErrNoTimingPulse, t.Label, t.Stream.Name(), t.SyncChannel)
	}
	return ev, nil
}

// computeSkips sets Skip on every present offset so that all first peaks
// line up with the earliest one.
func computeSkips(offsets []Offset) {
	origin := int64(-1)
	for _, o := range offsets {
		if o.Present && (origin < 0 || o.First.Block < origin) {
			origin = o.First.Block
		}
	}
	for i := range offsets {
		if offsets[i].Present {
			offsets[i].Skip = (offsets[i].First.Block - origin) * tape.BlockSize
		}
	}
}
