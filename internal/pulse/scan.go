package pulse

import (
	"errors"
	"io"

	"github.com/tphakala/go-tapesync/internal/tape"
)

// Event is the position of a confirmed timing pulse peak.
type Event struct {
	// Offset is the absolute byte offset of the block holding the peak.
	Offset int64

	// Block is the peak block number counted from the first data block.
	Block int64

	// Value is the peak sample.
	Value int16

	// RiseStart is the block number where the rising flank began.
	RiseStart int64
}

// Next scans forward from the stream cursor on a logical channel and returns
// the next peak. On success the cursor is rewound onto the peak block, so the
// caller's next read returns the peak itself.
//
// Reaching the end of the stream before a peak is found is not an error:
// Next returns ok == false.
func Next(s *tape.Stream, channel int) (ev Event, ok bool, err error) {
	slot := tape.StorageIndex(channel)
	var d Detector

	for {
		pos := s.Offset()
		blk, err := s.ReadBlock()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, false, nil
			}
			return Event{}, false, err
		}

		d = d.Step(pos, blk[slot])
		if d.State() != Found {
			continue
		}

		if err := s.SeekTo(d.Peak()); err != nil {
			return Event{}, false, err
		}
		return Event{
			Offset:    d.Peak(),
			Block:     tape.BlockIndex(d.Peak()),
			Value:     d.Max(),
			RiseStart: tape.BlockIndex(d.Start()),
		}, true, nil
	}
}

// Scan returns every peak from the stream cursor to the end of the stream.
// The cursor is left at the last peak, or where it started if none was found.
func Scan(s *tape.Stream, channel int) ([]Event, error) {
	start := s.Offset()
	var events []Event
	for {
		ev, ok, err := Next(s, channel)
		if err != nil {
			return events, err
		}
		if !ok {
			if len(events) > 0 {
				return events, s.SeekTo(events[len(events)-1].Offset)
			}
			return events, s.SeekTo(start)
		}
		events = append(events, ev)
	}
}
