package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	tapesync "github.com/tphakala/go-tapesync"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &tapesync.UpconvertStats{
		Input:             "a.dd",
		Output:            "a_25KHz.dd",
		Pulses:            4,
		Resampled:         2,
		Copied:            1,
		SourceCounts:      []int{4800, 1000, 4799},
		MeanSourceCount:   3533,
		StdDevSourceCount: 2194.08,
		BytesIn:           1000,
		BytesOut:          1040,
		Warnings:          []tapesync.Warning{{Segment: 1}},
	})

	out := buf.String()
	assert.Contains(t, out, "Upconverted a.dd -> a_25KHz.dd\n")
	assert.Contains(t, out, "4 pulses, 2 segments resampled, 1 copied verbatim\n")
	assert.Contains(t, out, "mean 3533.00, stddev 2194.08")
	assert.Contains(t, out, "1000 bytes -> 1040 bytes")
	assert.Contains(t, out, "1 warnings")
}

func TestPrintSummary_NoSegments(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &tapesync.UpconvertStats{Input: "a.dd", Output: "a_25KHz.dd"})
	assert.NotContains(t, buf.String(), "mean")
	assert.NotContains(t, buf.String(), "warnings")
}
