package tapesync

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/go-tapesync/internal/progress"
	"github.com/tphakala/go-tapesync/internal/pulse"
	"github.com/tphakala/go-tapesync/internal/resample"
	"github.com/tphakala/go-tapesync/internal/tape"
)

// Warning is a data quality finding. Warnings are logged as they occur and
// never stop processing.
type Warning struct {
	// Tape is the stream name.
	Tape string

	// Segment is the 0-based segment index, or -1 for whole-file findings.
	Segment int

	// StartBlock is the block of the peak opening the segment.
	StartBlock int64

	// SourceCount is the number of source blocks in the segment.
	SourceCount int

	Message string
}

func (w Warning) String() string {
	if w.Segment < 0 {
		return fmt.Sprintf("%s: %s", w.Tape, w.Message)
	}
	return fmt.Sprintf("%s: segment %d at block %d (%d blocks): %s",
		w.Tape, w.Segment, w.StartBlock, w.SourceCount, w.Message)
}

// UpconvertStats summarises one upconverted capture.
type UpconvertStats struct {
	Input  string
	Output string

	// Pulses is the number of timing pulse peaks found.
	Pulses int

	// LeadInBytes were copied verbatim before the first peak, TailBytes
	// after the last one. Neither includes the header sector.
	LeadInBytes int64
	TailBytes   int64

	// SourceCounts holds the source block count of every segment.
	SourceCounts []int

	// Resampled counts segments resampled to the target grid; Copied
	// counts segments too short to resample, copied verbatim.
	Resampled int
	Copied    int

	// DoubleBrackets and EmptyBrackets total the bracket walk counters.
	DoubleBrackets int
	EmptyBrackets  int

	// MeanSourceCount and StdDevSourceCount describe SourceCounts.
	MeanSourceCount   float64
	StdDevSourceCount float64

	BytesIn  int64
	BytesOut int64

	Warnings []Warning
}

// Upconvert rewrites every configured tape onto the 25 kHz grid, writing
// each to UpconvertedName of its input path.
func Upconvert(cfg *Config) ([]*UpconvertStats, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	all := make([]*UpconvertStats, 0, len(cfg.Tapes))
	for _, t := range cfg.Tapes {
		out := UpconvertedName(t.Path)
		cfg.logger().Printf("Converting %s -> %s (sync channel %d)", t.Path, out, t.SyncChannel)
		stats, err := UpconvertFile(cfg, t, out)
		if err != nil {
			return all, err
		}
		all = append(all, stats)
	}
	return all, nil
}

// UpconvertFile upconverts the capture of one tape into outPath. The output
// file is removed if conversion fails.
func UpconvertFile(cfg *Config, t Tape, outPath string) (stats *UpconvertStats, err error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	in, err := os.Open(t.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = in.Close() }()

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

	stats, err = UpconvertStream(cfg, t.Path, in, out, t.SyncChannel)
	if stats != nil {
		stats.Output = outPath
	}
	return stats, err
}

// UpconvertStream upconverts the capture read from src into dst. name
// identifies the capture in log lines and warnings.
func UpconvertStream(cfg *Config, name string, src io.ReadSeeker, dst io.Writer, syncChannel int) (*UpconvertStats, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if !tape.ValidChannel(syncChannel) {
		return nil, fmt.Errorf("%w: sync channel must be 1-%d, got %d", ErrInvalidConfig, tape.Channels, syncChannel)
	}

	s, err := tape.NewStream(name, src)
	if err != nil {
		return nil, err
	}
	if s.Size() < tape.HeaderSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTruncatedHeader, name, s.Size())
	}

	u := &upconverter{
		cfg:     cfg,
		src:     s,
		dst:     tape.NewWriter(dst),
		channel: syncChannel,
		r:       resample.New(),
		tracker: progress.New(cfg.logger(), name, s.Size(), cfg.Verbose),
		stats:   &UpconvertStats{Input: name},
	}
	if err := u.run(); err != nil {
		return u.stats, err
	}
	return u.stats, nil
}

// upconverter holds the state of one UpconvertStream run.
type upconverter struct {
	cfg     *Config
	src     *tape.Stream
	dst     *tape.Writer
	channel int
	r       *resample.Resampler
	tracker *progress.Tracker
	stats   *UpconvertStats
}

func (u *upconverter) run() error {
	hdr, err := u.src.ReadHeader()
	if err != nil {
		return err
	}
	if _, err := u.dst.Write(hdr); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	first, ok, err := pulse.Next(u.src, u.channel)
	if err != nil {
		return err
	}
	if !ok {
		u.warn(Warning{Segment: -1, Message: fmt.Sprintf("no timing pulse on channel %d, copied verbatim", u.channel)})
		return u.finish(tape.HeaderSize)
	}
	u.stats.Pulses = 1

	// lead-in
	if err := u.src.SeekTo(tape.HeaderSize); err != nil {
		return err
	}
	n, err := u.src.CopyN(u.dst, first.Offset-tape.HeaderSize)
	u.stats.LeadInBytes = n
	if err != nil {
		return fmt.Errorf("failed to copy lead-in: %w", err)
	}
	if u.cfg.Verbose {
		u.cfg.logger().Printf("%s: first peak at block %d, copied %d lead-in blocks",
			u.src.Name(), first.Block, first.Block)
	}

	prev := first
	for {
		next, ok, err := pulse.Next(u.src, u.channel)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		u.stats.Pulses++

		if err := u.segment(prev, next); err != nil {
			return err
		}
		prev = next
		u.tracker.ReportIfNeeded(u.src.Offset())
	}

	return u.finish(prev.Offset)
}

// segment resamples the blocks from peak prev up to peak next and leaves the
// source cursor on next.
func (u *upconverter) segment(prev, next pulse.Event) error {
	seg := resample.NewSegment(prev.Block, next.Block)
	idx := len(u.stats.SourceCounts)
	u.stats.SourceCounts = append(u.stats.SourceCounts, seg.SourceCount())

	if err := u.src.SeekTo(prev.Offset); err != nil {
		return err
	}

	report, err := u.r.Resample(u.src, u.dst, seg)
	if errors.Is(err, resample.ErrShortSegment) {
		u.warn(u.segmentWarning(idx, seg, "too short to resample, copied verbatim"))
		u.stats.Copied++
		if _, err := u.src.CopyN(u.dst, next.Offset-prev.Offset); err != nil {
			return fmt.Errorf("failed to copy segment %d: %w", idx, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("segment %d (%s): %w", idx, seg, err)
	}

	u.stats.Resampled++
	u.stats.DoubleBrackets += report.DoubleBrackets
	u.stats.EmptyBrackets += report.EmptyBrackets
	for _, w := range report.Warnings {
		u.warn(u.segmentWarning(idx, seg, w.String()))
	}
	if u.cfg.Verbose {
		u.cfg.logger().Printf("%s: segment %d: %s", u.src.Name(), idx, report)
	}
	return nil
}

// finish copies everything from offset to the end of the capture verbatim.
func (u *upconverter) finish(offset int64) error {
	if err := u.src.SeekTo(offset); err != nil {
		return err
	}
	n, err := u.src.CopyRest(u.dst)
	if err != nil {
		return fmt.Errorf("failed to copy tail: %w", err)
	}
	if u.stats.Pulses > 0 {
		u.stats.TailBytes = n
	}
	if err := u.dst.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	u.stats.BytesIn = u.src.Size()
	u.stats.BytesOut = u.dst.Offset()
	u.summarize()
	return nil
}

func (u *upconverter) summarize() {
	counts := u.stats.SourceCounts
	switch len(counts) {
	case 0:
	case 1:
		u.stats.MeanSourceCount = float64(counts[0])
	default:
		x := make([]float64, len(counts))
		for i, c := range counts {
			x[i] = float64(c)
		}
		u.stats.MeanSourceCount, u.stats.StdDevSourceCount = stat.MeanStdDev(x, nil)
	}
}

func (u *upconverter) segmentWarning(idx int, seg resample.Segment, msg string) Warning {
	return Warning{
		Segment:     idx,
		StartBlock:  seg.Start,
		SourceCount: seg.SourceCount(),
		Message:     msg,
	}
}

func (u *upconverter) warn(w Warning) {
	w.Tape = u.src.Name()
	u.stats.Warnings = append(u.stats.Warnings, w)
	u.cfg.logger().Printf("WARNING: %s", w)
}
