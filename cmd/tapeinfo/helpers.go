package main

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/go-tapesync/internal/pulse"
	"github.com/tphakala/go-tapesync/internal/resample"
	"github.com/tphakala/go-tapesync/internal/tape"
)

const dateLayout = "2006-01-02 15:04:05"

// describeFile prints the size and header record of a capture.
func describeFile(w io.Writer, s *tape.Stream) error {
	fmt.Fprintf(w, "%s\n", s.Name())

	data := s.Size() - tape.HeaderSize
	if data < 0 {
		fmt.Fprintf(w, "  size: %d bytes, shorter than the header sector\n", s.Size())
		return nil
	}
	blocks := data / tape.BlockSize
	fmt.Fprintf(w, "  size: %d bytes, %d blocks", s.Size(), blocks)
	if rest := data % tape.BlockSize; rest != 0 {
		fmt.Fprintf(w, " + %d trailing bytes", rest)
	}
	fmt.Fprintf(w, " (%.2fs at %.0f Hz)\n", float64(blocks)/resample.SourceRate, resample.SourceRate)

	raw, err := s.ReadHeader()
	if err != nil {
		return err
	}
	h, err := tape.ParseHeader(raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "  file number: %d, file size: %d, mpx: %d, data type: %d\n",
		h.FileNum, h.FileSize, h.Mpx, h.DataType)
	if at, err := h.RecordedAt(); err != nil {
		fmt.Fprintf(w, "  recorded: unknown (%v)\n", err)
	} else {
		fmt.Fprintf(w, "  recorded: %s\n", at.Format(dateLayout))
	}
	fmt.Fprintf(w, "  gains: %v\n", h.Gain)
	return nil
}

// pulseSummary aggregates the intervals between consecutive peaks.
type pulseSummary struct {
	peaks    int
	gaps     []float64
	mean     float64
	stdDev   float64
	excess   int // intervals above the fixup threshold
	deficits int // intervals short by more than the routine deficit
}

func summarizePulses(events []pulse.Event) pulseSummary {
	sum := pulseSummary{peaks: len(events)}
	for i := 1; i < len(events); i++ {
		gap := int(events[i].Block - events[i-1].Block)
		sum.gaps = append(sum.gaps, float64(gap))
		if gap > resample.IdealSourceCount+resample.MaxSourceExcess {
			sum.excess++
		}
		if gap-resample.IdealSourceCount < -resample.MaxDeficit {
			sum.deficits++
		}
	}
	switch len(sum.gaps) {
	case 0:
	case 1:
		sum.mean = sum.gaps[0]
	default:
		sum.mean, sum.stdDev = stat.MeanStdDev(sum.gaps, nil)
	}
	return sum
}

// describePulses scans a capture for timing pulse peaks on a logical channel
// and prints each peak with the interval since the previous one.
func describePulses(w io.Writer, s *tape.Stream, channel int) error {
	if err := s.SeekTo(tape.HeaderSize); err != nil {
		return err
	}
	events, err := pulse.Scan(s, channel)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "  pulses on channel %d: %d\n", channel, len(events))
	for i, ev := range events {
		fmt.Fprintf(w, "  %5d  block %9d  value %6d", i, ev.Block, ev.Value)
		if i > 0 {
			gap := ev.Block - events[i-1].Block
			fmt.Fprintf(w, "  interval %5d (%+d)", gap, gap-int64(resample.IdealSourceCount))
		}
		fmt.Fprintln(w)
	}

	sum := summarizePulses(events)
	if len(sum.gaps) == 0 {
		return nil
	}
	fmt.Fprintf(w, "  intervals: %d, mean %.2f, stddev %.2f blocks\n", len(sum.gaps), sum.mean, sum.stdDev)
	if sum.excess > 0 {
		fmt.Fprintf(w, "  WARNING: %d intervals above %d blocks, capture probably not fixed up\n",
			sum.excess, resample.IdealSourceCount+resample.MaxSourceExcess)
	}
	if sum.deficits > 0 {
		fmt.Fprintf(w, "  WARNING: %d intervals short by more than %d blocks\n", sum.deficits, resample.MaxDeficit)
	}
	return nil
}
