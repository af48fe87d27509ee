package progress

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	var buf bytes.Buffer
	p := New(log.New(&buf, "", 0), "a.dd", 1000, true)
	for _, n := range []int64{50, 100, 150, 260, 999, 1000} {
		p.ReportIfNeeded(n)
	}
	assert.Equal(t, "a.dd: Progress: 10%\na.dd: Progress: 26%\na.dd: Progress: 99%\n", buf.String())
}

func TestTracker_Quiet(t *testing.T) {
	var buf bytes.Buffer
	New(log.New(&buf, "", 0), "a.dd", 1000, false).ReportIfNeeded(1000)
	assert.Empty(t, buf.String())

	New(log.New(&buf, "", 0), "a.dd", 0, true).ReportIfNeeded(1000)
	assert.Empty(t, buf.String(), "unknown total")
}

func TestTracker_Frames(t *testing.T) {
	var buf bytes.Buffer
	p := New(log.New(&buf, "", 0), "", 8192*4, true)
	for n := int64(8192); n <= 8192*4; n += 8192 {
		p.ReportIfNeeded(n)
	}
	assert.Equal(t, "Progress: 25%\nProgress: 50%\nProgress: 75%\nProgress: 100%\n", buf.String())
}
