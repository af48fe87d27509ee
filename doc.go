// Package tapesync re-times and merges multichannel acquisition tape captures
// using a 5 Hz timing pulse recorded on one channel of every tape.
//
// A capture is a 65024 byte header sector followed by sample blocks of 16
// little-endian int16 channels. The recorder nominally runs at 24 kHz but its
// clock drifts, so the number of blocks between two timing pulse peaks is
// 4800 give or take a few.
//
// # Upconversion
//
// [Upconvert] rewrites every tape onto a canonical 25 kHz grid: the header
// and every block before the first peak are copied verbatim, each interval
// between consecutive peaks is resampled to exactly 5000 blocks by linear
// interpolation, and everything after the last peak is copied verbatim.
//
//	cfg := &tapesync.Config{
//	    Tapes: []tapesync.Tape{
//	        {Label: "A", Path: "tape_a.dd", SyncChannel: 16},
//	    },
//	}
//	stats, err := tapesync.Upconvert(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Multiplexing
//
// [Multiplex] aligns up to four tapes on their first timing pulse and
// interleaves them block by block into frames of 64 offset-binary channels,
// tape A holding channels 1-16, tape B 17-32 and so on.
//
//	stats, err := tapesync.Multiplex(cfg, tapesync.MultiplexedName("session1"))
//
// # Data quality
//
// Intervals that are much longer than 4800 blocks usually mean the capture
// still holds retried tape sectors. These and other anomalies are logged as
// warnings and returned in the run statistics; they never stop processing.
package tapesync
