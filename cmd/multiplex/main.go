// Command multiplex aligns up to four tape captures on their first timing
// pulse and interleaves them into a 64 channel offset-binary frame stream.
//
// Usage:
//
//	multiplex -a run1_a_25KHz.dd,16 -b run1_b_25KHz.dd,16 -o run1
//
// The output is written to <base>_from_cyg_1-64.daq. Tape A occupies
// channels 1-16, B 17-32, C 33-48 and D 49-64.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tapesync "github.com/tphakala/go-tapesync"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	tapeA := flag.String("a", "", "Tape A as file,channel")
	tapeB := flag.String("b", "", "Tape B as file,channel")
	tapeC := flag.String("c", "", "Tape C as file,channel")
	tapeD := flag.String("d", "", "Tape D as file,channel")
	outBase := flag.String("o", "", "Output base name")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	tapes, err := tapesync.ParseTapeArgs(map[string]string{
		"A": *tapeA, "B": *tapeB, "C": *tapeC, "D": *tapeD,
	})
	if err != nil {
		return err
	}
	if len(tapes) == 0 || *outBase == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -a file,channel [-b ...] [-c ...] [-d ...] -o basename\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("need at least one tape and an output base name")
	}

	cfg := &tapesync.Config{Tapes: tapes, Verbose: *verbose}
	outPath := tapesync.MultiplexedName(*outBase)

	start := time.Now()
	stats, err := tapesync.Multiplex(cfg, outPath)
	if err != nil {
		return err
	}
	printSummary(os.Stdout, stats)
	fmt.Printf("Done in %.2fs\n", time.Since(start).Seconds())
	return nil
}

// printSummary writes a human readable summary of one multiplexing run.
func printSummary(w io.Writer, s *tapesync.MultiplexStats) {
	fmt.Fprintf(w, "Multiplexed %d tapes -> %s (%d frames)\n", len(s.Tapes), s.Output, s.Frames)
	for _, t := range s.Tapes {
		fmt.Fprintf(w, "  %s: first peak at block %d, skipped %d, merged %d blocks\n",
			t.Label, t.FirstPeakBlock, t.SkipBlocks, t.Blocks)
	}
}
