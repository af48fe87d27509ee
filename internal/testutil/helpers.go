// Package testutil provides reusable test helpers for the tape sync packages.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-tapesync/internal/tape"
)

// DefaultTolerance is the tolerance for tick time comparisons.
const DefaultTolerance = 1e-12

// AssertStrictlyIncreasing verifies that a slice is strictly increasing.
func AssertStrictlyIncreasing(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return assert.Fail(t, "not strictly increasing",
				"s[%d]=%g <= s[%d]=%g", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%g is outside range [%g, %g]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertBlockAt verifies that the block stored at a block number of a
// capture equals want.
func AssertBlockAt(t *testing.T, capture []byte, block int64, want tape.SampleBlock, msgAndArgs ...any) bool {
	t.Helper()
	off := tape.BlockOffset(block)
	if off+tape.BlockSize > int64(len(capture)) {
		return assert.Fail(t, "block out of range", "block %d beyond capture of %d bytes", block, len(capture))
	}
	return assert.Equal(t, want, tape.DecodeBlock(capture[off:]), msgAndArgs...)
}

// BlockAt decodes the block stored at a block number of a capture.
func BlockAt(capture []byte, block int64) tape.SampleBlock {
	return tape.DecodeBlock(capture[tape.BlockOffset(block):])
}
