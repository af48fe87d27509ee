package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/go-tapesync/internal/daq"
	"github.com/tphakala/go-tapesync/internal/progress"
	"github.com/tphakala/go-tapesync/internal/resample"
	"github.com/tphakala/go-tapesync/internal/tape"
)

const (
	minRequiredArgs = 2

	// WAV output format
	wavBitDepth  = 16
	wavFormatPCM = 1

	// chunkFrames is the number of frames buffered per encoder write.
	chunkFrames = 8192

	upconvertedTag = "_25KHz"
	daqExt         = ".daq"
)

// sampleSource yields one sample per selected channel per frame.
type sampleSource interface {
	// next fills dst with the next frame. It returns io.EOF at the end.
	next(dst []int) error
}

// tapeSource reads logical channels from a tape capture.
type tapeSource struct {
	s     *tape.Stream
	chans []int
}

func (t *tapeSource) next(dst []int) error {
	blk, err := t.s.ReadBlock()
	if err != nil {
		return err
	}
	for i, ch := range t.chans {
		dst[i] = int(blk.Channel(ch))
	}
	return nil
}

// daqSource reads output channels from a multiplexed frame stream.
type daqSource struct {
	r     *daq.Reader
	chans []int
}

func (d *daqSource) next(dst []int) error {
	f, err := d.r.ReadFrame()
	if errors.Is(err, daq.ErrShortFrame) {
		// a partial trailing frame carries no complete instant
		return io.EOF
	}
	if err != nil {
		return err
	}
	for i, ch := range d.chans {
		dst[i] = int(f.Sample(ch))
	}
	return nil
}

// isDAQ reports whether path names a multiplexed frame stream.
func isDAQ(path string) bool {
	return strings.EqualFold(filepath.Ext(path), daqExt)
}

// defaultRate guesses the sample rate of an input from its name.
func defaultRate(path string) int {
	if isDAQ(path) || strings.Contains(filepath.Base(path), upconvertedTag) {
		return int(resample.TargetRate)
	}
	return int(resample.SourceRate)
}

// parseChannels parses a comma separated channel list with values 1..maxChannel.
func parseChannels(spec string, maxChannel int) ([]int, error) {
	var chans []int
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		ch, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("bad channel %q", field)
		}
		if ch < 1 || ch > maxChannel {
			return nil, fmt.Errorf("channel %d out of range 1-%d", ch, maxChannel)
		}
		chans = append(chans, ch)
	}
	if len(chans) == 0 {
		return nil, fmt.Errorf("no channels selected")
	}
	return chans, nil
}

// exportFile opens inputPath as a capture or frame stream and writes the
// selected channels to outputPath.
func exportFile(inputPath, outputPath, chanSpec string, sampleRate int, verbose bool) (frames int64, chans []int, err error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return 0, nil, err
	}

	var src sampleSource
	var frameSize int64
	if isDAQ(inputPath) {
		chans, err = parseChannels(chanSpec, daq.ChannelsPerFrame)
		if err != nil {
			return 0, nil, err
		}
		src = &daqSource{r: daq.NewReader(in), chans: chans}
		frameSize = daq.FrameSize
	} else {
		chans, err = parseChannels(chanSpec, tape.Channels)
		if err != nil {
			return 0, nil, err
		}
		s, err := tape.NewStream(inputPath, in)
		if err != nil {
			return 0, nil, err
		}
		if err := s.SeekTo(tape.HeaderSize); err != nil {
			return 0, nil, err
		}
		src = &tapeSource{s: s, chans: chans}
		frameSize = tape.BlockSize
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	tracker := progress.New(log.Default(), "", info.Size()/frameSize, verbose)
	frames, err = export(src, len(chans), out, sampleRate, tracker)
	return frames, chans, err
}

// export encodes every frame of src into a WAV stream on w.
func export(src sampleSource, numChans int, w io.WriteSeeker, sampleRate int, tracker *progress.Tracker) (int64, error) {
	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, numChans, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChans, SampleRate: sampleRate},
		Data:           make([]int, 0, chunkFrames*numChans),
		SourceBitDepth: wavBitDepth,
	}
	frame := make([]int, numChans)

	var frames int64
	for {
		err := src.next(frame)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return frames, err
		}
		buf.Data = append(buf.Data, frame...)
		frames++

		if len(buf.Data) == cap(buf.Data) {
			if err := enc.Write(buf); err != nil {
				return frames, fmt.Errorf("failed to write WAV data: %w", err)
			}
			buf.Data = buf.Data[:0]
			tracker.ReportIfNeeded(frames)
		}
	}

	// always write, so an empty export still gets a header
	if err := enc.Write(buf); err != nil {
		return frames, fmt.Errorf("failed to write WAV data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return frames, fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return frames, nil
}
