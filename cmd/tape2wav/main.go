// Command tape2wav exports selected channels of a tape capture (.dd) or of a
// multiplexed frame stream (.daq) as a 16-bit PCM WAV file for inspection in
// an audio editor.
//
// Usage:
//
//	tape2wav -chans 1,16 run1_a_25KHz.dd run1_a.wav
//	tape2wav -chans 16,32,48,64 run1_from_cyg_1-64.daq pulses.wav
//
// Tape channels are logical channel numbers (1-16); frame stream channels
// are output channel numbers (1-64). The sample rate defaults to 25000 Hz
// for upconverted and multiplexed input and 24000 Hz otherwise.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	chans := flag.String("chans", "1", "Comma separated channels to export")
	rate := flag.Int("rate", 0, "Sample rate in Hz (0 = guess from input)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.dd|input.daq output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}
	inputPath, outputPath := args[0], args[1]

	sampleRate := *rate
	if sampleRate == 0 {
		sampleRate = defaultRate(inputPath)
	}

	start := time.Now()
	frames, channels, err := exportFile(inputPath, outputPath, *chans, sampleRate, *verbose)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  channels %v at %d Hz, %d frames (%.2fs of signal)\n",
		channels, sampleRate, frames, float64(frames)/float64(sampleRate))
	fmt.Printf("  Done in %.2fs\n", time.Since(start).Seconds())
	return nil
}
