package resample

// Rates and interval geometry
const (
	// SourceRate is the nominal tape sample rate in Hz.
	SourceRate = 24000.0

	// TargetRate is the canonical output sample rate in Hz.
	TargetRate = 25000.0

	// PulseRate is the timing pulse frequency in Hz.
	PulseRate = 5

	// IdealSourceCount is the nominal number of source blocks between peaks.
	IdealSourceCount = int(SourceRate) / PulseRate

	// TargetCount is the exact number of output blocks per pulse interval.
	TargetCount = int(TargetRate) / PulseRate
)

// Quality gates
const (
	// MaxSourceExcess is how far a segment may exceed IdealSourceCount before
	// the capture is suspected of still containing retried tape sectors.
	MaxSourceExcess = 10

	// MaxDeficit is the largest routinely observed shortfall of source blocks.
	MaxDeficit = 2
)

// Bracket walking
const (
	// maxTicksPerBracket bounds how many target ticks fall between two
	// adjacent source ticks. The rate ratio is ~1.0417, so a bracket holds
	// one tick and occasionally two.
	maxTicksPerBracket = 2

	// MinSourceCount is the shortest segment whose brackets are guaranteed to
	// hold at most maxTicksPerBracket target ticks.
	MinSourceCount = TargetCount/maxTicksPerBracket + 1
)
