// Package pulse locates the peaks of the 5 Hz timing pulse recorded on a
// tape's sync channel.
//
// The first pulse on these tapes is usually poor: low amplitude and bouncing
// around zero. A pulse is only accepted after DebounceRises consecutive
// strictly increasing positive samples. The peak is then taken as the last
// sample before the first decrease, which assumes the pulse is locally
// strictly monotonic on both flanks.
package pulse

// DebounceRises is the number of consecutive strictly increasing positive
// samples, following the first positive one, that confirm a pulse.
const DebounceRises = 10

// State is the detector state.
type State int

const (
	// Seeking waits for a positive sample.
	Seeking State = iota

	// Rising tracks a run of increasing positive samples that is not yet confirmed.
	Rising

	// Confirmed follows the rising flank of an accepted pulse, looking for the peak.
	Confirmed

	// Found is terminal: the previous maximum is the peak.
	Found
)

func (s State) String() string {
	switch s {
	case Seeking:
		return "seeking"
	case Rising:
		return "rising"
	case Confirmed:
		return "confirmed"
	case Found:
		return "found"
	default:
		return "unknown"
	}
}

// Detector is the peak detection state machine. The zero value is a
// detector in the Seeking state. Step never mutates its receiver.
type Detector struct {
	state State
	start int64 // position of the first sample of the current run
	peak  int64 // position of the running maximum
	max   int16
	rises int
}

// State returns the current state.
func (d Detector) State() State { return d.state }

// Peak returns the position of the running maximum.
func (d Detector) Peak() int64 { return d.peak }

// Start returns the position where the current rising run began.
func (d Detector) Start() int64 { return d.start }

// Max returns the running maximum sample.
func (d Detector) Max() int16 { return d.max }

// Rises returns the length of the current strictly increasing run.
func (d Detector) Rises() int { return d.rises }

// Step feeds the sample read at pos and returns the next detector.
func (d Detector) Step(pos int64, sample int16) Detector {
	switch d.state {
	case Seeking:
		return seeking(pos, sample)
	case Rising:
		return d.rising(pos, sample)
	case Confirmed:
		return d.confirmed(pos, sample)
	default:
		return d
	}
}

func seeking(pos int64, sample int16) Detector {
	if sample <= 0 {
		return Detector{}
	}
	return candidate(pos, sample)
}

// candidate starts a new run at pos.
func candidate(pos int64, sample int16) Detector {
	return Detector{state: Rising, start: pos, peak: pos, max: sample}
}

func (d Detector) rising(pos int64, sample int16) Detector {
	switch {
	case sample <= 0:
		return Detector{}
	case sample > d.max:
		d.max = sample
		d.peak = pos
		d.rises++
		if d.rises >= DebounceRises {
			d.state = Confirmed
		}
		return d
	case sample < d.max:
		// Fell before the pulse was confirmed: noise. Restart from here.
		return candidate(pos, sample)
	default:
		return d
	}
}

func (d Detector) confirmed(pos int64, sample int16) Detector {
	switch {
	case sample > d.max:
		d.max = sample
		d.peak = pos
	case sample < d.max:
		d.state = Found
	}
	return d
}
