// Package progress reports how far a long-running conversion has got.
package progress

import "log"

const (
	interval     = 10 // Log progress every N%
	percentScale = 100
)

// Tracker logs progress each time another interval percent of the total is
// done. The unit of the total (bytes, frames) is up to the caller.
type Tracker struct {
	logger       *log.Logger
	name         string
	total        int64
	lastProgress int
	verbose      bool
}

// New creates a tracker. Nothing is logged unless verbose is set.
// An empty name drops the "name: " prefix.
func New(logger *log.Logger, name string, total int64, verbose bool) *Tracker {
	if logger == nil {
		logger = log.Default()
	}
	return &Tracker{
		logger:  logger,
		name:    name,
		total:   total,
		verbose: verbose,
	}
}

// ReportIfNeeded reports progress if threshold crossed.
func (p *Tracker) ReportIfNeeded(current int64) {
	if !p.verbose || p.total == 0 {
		return
	}

	progress := int(float64(current) / float64(p.total) * percentScale)
	if progress < p.lastProgress+interval {
		return
	}
	if p.name != "" {
		p.logger.Printf("%s: Progress: %d%%", p.name, progress)
	} else {
		p.logger.Printf("Progress: %d%%", progress)
	}
	p.lastProgress = progress
}
