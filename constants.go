package tapesync

// Tape labels
const (
	// tapeLabels are the labels of the tape slots, in frame quadrant order.
	tapeLabels = "ABCD"
)

// Output naming
const (
	upconvertedTag = "_25KHz"
	tapeExt        = ".dd"
	multiplexedTag = "_from_cyg_1-64"
	daqExt         = ".daq"
)

// Tape argument syntax: "file,channel"
const (
	tapeArgSep    = ","
	tapeArgFields = 2
)
