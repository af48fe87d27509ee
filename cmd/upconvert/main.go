// Command upconvert re-times tape captures onto a canonical 25 kHz grid using
// the 5 Hz timing pulse recorded on each tape.
//
// Usage:
//
//	upconvert -a run1_a.dd,16
//	upconvert -a run1_a.dd,16 -b run1_b.dd,16 -v
//
// Each tape is given as "file,channel" where channel is the logical channel
// (1-16) carrying the timing pulse. The output is written next to the input
// with "_25KHz.dd" replacing its extension.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tapesync "github.com/tphakala/go-tapesync"
	"github.com/tphakala/go-tapesync/internal/simdops"
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
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	tapes, err := tapesync.ParseTapeArgs(map[string]string{
		"A": *tapeA, "B": *tapeB, "C": *tapeC, "D": *tapeD,
	})
	if err != nil {
		return err
	}
	if len(tapes) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s -a file,channel [-b file,channel] [-c ...] [-d ...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("no tapes given")
	}

	cfg := &tapesync.Config{Tapes: tapes, Verbose: *verbose}
	if *verbose {
		log.Printf("SIMD: %s", simdops.Info())
	}

	start := time.Now()
	all, err := tapesync.Upconvert(cfg)
	for _, stats := range all {
		printSummary(os.Stdout, stats)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Done in %.2fs\n", time.Since(start).Seconds())
	return nil
}

// printSummary writes a human readable summary of one conversion.
func printSummary(w io.Writer, s *tapesync.UpconvertStats) {
	fmt.Fprintf(w, "Upconverted %s -> %s\n", s.Input, s.Output)
	fmt.Fprintf(w, "  %d pulses, %d segments resampled", s.Pulses, s.Resampled)
	if s.Copied > 0 {
		fmt.Fprintf(w, ", %d copied verbatim", s.Copied)
	}
	fmt.Fprintln(w)
	if len(s.SourceCounts) > 0 {
		fmt.Fprintf(w, "  source blocks per segment: mean %.2f, stddev %.2f\n",
			s.MeanSourceCount, s.StdDevSourceCount)
	}
	fmt.Fprintf(w, "  %d bytes -> %d bytes\n", s.BytesIn, s.BytesOut)
	if n := len(s.Warnings); n > 0 {
		fmt.Fprintf(w, "  %d warnings\n", n)
	}
}
