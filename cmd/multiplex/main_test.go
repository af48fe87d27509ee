package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	tapesync "github.com/tphakala/go-tapesync"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &tapesync.MultiplexStats{
		Output: "run_from_cyg_1-64.daq",
		Frames: 320,
		Tapes: []tapesync.TapeAlignment{
			{Label: "A", FirstPeakBlock: 47, Blocks: 300},
			{Label: "B", FirstPeakBlock: 50, SkipBlocks: 3, Blocks: 277},
		},
	})

	assert.Equal(t,
		"Multiplexed 2 tapes -> run_from_cyg_1-64.daq (320 frames)\n"+
			"  A: first peak at block 47, skipped 0, merged 300 blocks\n"+
			"  B: first peak at block 50, skipped 3, merged 277 blocks\n",
		buf.String())
}
