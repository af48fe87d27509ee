// Command tapeinfo prints the header record of tape captures and, optionally,
// every timing pulse peak with the length of each interval between peaks.
//
// Usage:
//
//	tapeinfo run1_a.dd run1_b.dd
//	tapeinfo -chan 16 -pulses run1_a.dd
//
// Interval lengths far above 4800 blocks usually mean the capture still
// contains retried tape sectors and should be fixed up before upconversion.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tphakala/go-tapesync/internal/tape"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	channel := flag.Int("chan", 0, "Logical channel carrying the timing pulse (1-16)")
	pulses := flag.Bool("pulses", false, "List every timing pulse peak (needs -chan)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file.dd...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("no input files")
	}
	if *pulses && !tape.ValidChannel(*channel) {
		return fmt.Errorf("-pulses needs -chan between 1 and %d", tape.Channels)
	}

	for _, path := range flag.Args() {
		if err := inspect(path, *channel, *pulses); err != nil {
			return err
		}
	}
	return nil
}

func inspect(path string, channel int, pulses bool) (err error) {
	s, err := tape.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := describeFile(os.Stdout, s); err != nil {
		return err
	}
	if !pulses {
		return nil
	}
	return describePulses(os.Stdout, s, channel)
}
