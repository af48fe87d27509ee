package tapesync

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tphakala/go-tapesync/internal/tape"
)

// Common errors returned by the drivers.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid tapesync configuration")

	// ErrTruncatedHeader indicates a capture shorter than its header sector.
	ErrTruncatedHeader = errors.New("capture shorter than header sector")
)

// Tape identifies one input capture.
type Tape struct {
	// Label is the tape slot, "A" through "D". It selects the channel
	// range the tape occupies in a multiplexed frame.
	Label string

	// Path is the capture file.
	Path string

	// SyncChannel is the logical channel (1-16) carrying the timing pulse.
	SyncChannel int
}

// Config holds the settings shared by the drivers.
type Config struct {
	// Tapes are the input captures, at most one per label.
	Tapes []Tape

	// Logger receives progress and data quality warnings.
	// Defaults to log.Default().
	Logger *log.Logger

	// Verbose enables per-segment detail and progress lines.
	Verbose bool
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Tapes) == 0 {
		return fmt.Errorf("%w: no tapes given", ErrInvalidConfig)
	}

	if len(c.Tapes) > tape.MaxTapes {
		return fmt.Errorf("%w: too many tapes (max %d)", ErrInvalidConfig, tape.MaxTapes)
	}

	seen := make(map[string]bool, len(c.Tapes))
	for _, t := range c.Tapes {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.Label] {
			return fmt.Errorf("%w: tape %s given twice", ErrInvalidConfig, t.Label)
		}
		seen[t.Label] = true
	}

	return nil
}

// Validate checks a single tape entry.
func (t *Tape) Validate() error {
	if t.Slot() < 0 {
		return fmt.Errorf("%w: tape label %q must be one of %s", ErrInvalidConfig, t.Label, strings.Split(tapeLabels, ""))
	}

	if t.Path == "" {
		return fmt.Errorf("%w: tape %s has no file name", ErrInvalidConfig, t.Label)
	}

	if !tape.ValidChannel(t.SyncChannel) {
		return fmt.Errorf("%w: tape %s sync channel must be 1-%d, got %d",
			ErrInvalidConfig, t.Label, tape.Channels, t.SyncChannel)
	}

	return nil
}

// Slot returns the 0-based slot of the tape label, or -1 for an unknown label.
func (t *Tape) Slot() int {
	if len(t.Label) != 1 {
		return -1
	}
	return strings.Index(tapeLabels, t.Label)
}

func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

// ParseTapeArg parses a "file,channel" command line argument for the tape
// slot label.
func ParseTapeArg(label, arg string) (Tape, error) {
	fields := strings.Split(arg, tapeArgSep)
	if len(fields) != tapeArgFields || strings.TrimSpace(fields[1]) == "" {
		return Tape{}, fmt.Errorf("%w: tape %s: timing pulse channel is missing in %q (want file,channel)",
			ErrInvalidConfig, label, arg)
	}

	ch, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return Tape{}, fmt.Errorf("%w: tape %s: bad channel %q", ErrInvalidConfig, label, fields[1])
	}

	t := Tape{Label: label, Path: strings.TrimSpace(fields[0]), SyncChannel: ch}
	if err := t.Validate(); err != nil {
		return Tape{}, err
	}
	return t, nil
}

// ParseTapeArgs parses the "file,channel" arguments keyed by tape label.
// Empty arguments are skipped. Tapes are returned in label order.
func ParseTapeArgs(args map[string]string) ([]Tape, error) {
	var tapes []Tape
	for _, label := range strings.Split(tapeLabels, "") {
		arg := args[label]
		if arg == "" {
			continue
		}
		t, err := ParseTapeArg(label, arg)
		if err != nil {
			return nil, err
		}
		tapes = append(tapes, t)
	}
	for label := range args {
		if !strings.Contains(tapeLabels, label) || len(label) != 1 {
			return nil, fmt.Errorf("%w: unknown tape label %q", ErrInvalidConfig, label)
		}
	}
	return tapes, nil
}

// UpconvertedName returns the output path for an upconverted capture:
// the input path with its extension replaced by "_25KHz.dd".
func UpconvertedName(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + upconvertedTag + tapeExt
}

// MultiplexedName returns the output path for a multiplexed recording with
// the given base name.
func MultiplexedName(base string) string {
	return base + multiplexedTag + daqExt
}
