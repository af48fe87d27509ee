package tapesync

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tphakala/go-tapesync/internal/align"
	"github.com/tphakala/go-tapesync/internal/daq"
	"github.com/tphakala/go-tapesync/internal/progress"
	"github.com/tphakala/go-tapesync/internal/tape"
)

// TapeAlignment reports where a tape was started after alignment.
type TapeAlignment struct {
	Label string

	// FirstPeakBlock is the block of the tape's first timing pulse peak.
	FirstPeakBlock int64

	// SkipBlocks is the number of leading blocks dropped for alignment.
	SkipBlocks int64

	// Blocks is the number of blocks merged into the output.
	Blocks int64
}

// MultiplexStats summarises one multiplexing run.
type MultiplexStats struct {
	Output string

	// Frames is the number of frames written.
	Frames int64

	Tapes []TapeAlignment
}

// Multiplex aligns the configured tapes and interleaves them into a frame
// stream at outPath. The output file is removed if multiplexing fails.
func Multiplex(cfg *Config, outPath string) (stats *MultiplexStats, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	inputs := make([]io.ReadSeeker, len(cfg.Tapes))
	defer func() {
		for _, in := range inputs {
			if f, ok := in.(*os.File); ok {
				_ = f.Close()
			}
		}
	}()
	for i, t := range cfg.Tapes {
		f, err := os.Open(t.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		inputs[i] = f
	}

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(outPath)
		}
	}()

	stats, err = MultiplexStreams(cfg, inputs, out)
	if stats != nil {
		stats.Output = outPath
	}
	return stats, err
}

// MultiplexStreams aligns the captures in inputs, which parallel cfg.Tapes,
// and writes the frame stream to dst.
func MultiplexStreams(cfg *Config, inputs []io.ReadSeeker, dst io.Writer) (*MultiplexStats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(inputs) != len(cfg.Tapes) {
		return nil, fmt.Errorf("%w: %d inputs for %d tapes", ErrInvalidConfig, len(inputs), len(cfg.Tapes))
	}
	logger := cfg.logger()

	// slots are indexed by frame quadrant
	slots := make([]align.Tape, tape.MaxTapes)
	var total int64
	for i, t := range cfg.Tapes {
		s, err := tape.NewStream(t.Path, inputs[i])
		if err != nil {
			return nil, err
		}
		if s.Size() < tape.HeaderSize {
			return nil, fmt.Errorf("%w: tape %s (%s) is %d bytes", ErrTruncatedHeader, t.Label, t.Path, s.Size())
		}
		slots[t.Slot()] = align.Tape{Label: t.Label, Stream: s, SyncChannel: t.SyncChannel}
		total += s.Size()
	}

	offsets, err := align.Align(slots)
	if err != nil {
		return nil, err
	}

	stats := &MultiplexStats{}
	index := make([]int, tape.MaxTapes)
	for q, o := range offsets {
		if !o.Present {
			continue
		}
		index[q] = len(stats.Tapes)
		stats.Tapes = append(stats.Tapes, TapeAlignment{
			Label:          slots[q].Label,
			FirstPeakBlock: o.First.Block,
			SkipBlocks:     o.SkipBlocks(),
		})
		logger.Printf("Tape %s: first peak at block %d, skipping %d blocks",
			slots[q].Label, o.First.Block, o.SkipBlocks())
	}

	w := daq.NewWriter(dst)
	tracker := progress.New(logger, "multiplex", total, cfg.Verbose)
	live := make([]bool, tape.MaxTapes)
	for q := range slots {
		live[q] = slots[q].Present()
	}

	frame := daq.NewFrame()
	var consumed int64
	for {
		frame.Reset()
		wrote := false
		for q := range slots {
			if !live[q] {
				continue
			}
			blk, err := slots[q].Stream.ReadBlock()
			if errors.Is(err, io.EOF) {
				live[q] = false
				if cfg.Verbose {
					logger.Printf("Tape %s exhausted after %d frames", slots[q].Label, w.Frames())
				}
				continue
			}
			if err != nil {
				return stats, err
			}
			frame.SetTape(q, &blk)
			stats.Tapes[index[q]].Blocks++
			consumed += tape.BlockSize
			wrote = true
		}
		if !wrote {
			break
		}
		if err := w.WriteFrame(&frame); err != nil {
			return stats, fmt.Errorf("failed to write frame: %w", err)
		}
		tracker.ReportIfNeeded(consumed)
	}

	if err := w.Flush(); err != nil {
		return stats, fmt.Errorf("failed to flush output: %w", err)
	}
	stats.Frames = w.Frames()
	return stats, nil
}
