package resample

import "fmt"

// Warning is a data quality finding for one segment. Warnings never stop
// processing.
type Warning int

const (
	// WarnExcessSource flags a segment with more than
	// IdealSourceCount+MaxSourceExcess source blocks. The capture probably
	// still contains retried tape sectors.
	WarnExcessSource Warning = iota

	// WarnLargeDeficit flags a segment short by more than MaxDeficit blocks.
	WarnLargeDeficit

	// WarnUnusedTargets flags a segment whose source ran out before every
	// target tick was produced.
	WarnUnusedTargets

	// WarnUnusedSources flags a segment with source blocks left over after
	// every target tick was produced.
	WarnUnusedSources
)

func (w Warning) String() string {
	switch w {
	case WarnExcessSource:
		return "too many source blocks, capture not fixed up"
	case WarnLargeDeficit:
		return "unusually large source deficit"
	case WarnUnusedTargets:
		return "did not use all target slots"
	case WarnUnusedSources:
		return "did not use all source slots"
	default:
		return "unknown warning"
	}
}

// Report describes how one segment was resampled.
type Report struct {
	Segment Segment

	// Read and Written count source and output blocks.
	Read, Written int

	// DoubleBrackets counts brackets that produced two output blocks.
	DoubleBrackets int

	// EmptyBrackets counts brackets that produced no output block. Only
	// segments longer than TargetCount have them.
	EmptyBrackets int

	UnusedTargets int
	UnusedSources int

	Warnings []Warning
}

// OK reports whether the segment raised no warnings.
func (r *Report) OK() bool {
	return len(r.Warnings) == 0
}

func (r *Report) String() string {
	return fmt.Sprintf("%s: read %d, wrote %d, %d double brackets, %d empty brackets",
		r.Segment, r.Read, r.Written, r.DoubleBrackets, r.EmptyBrackets)
}
