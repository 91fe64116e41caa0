// Package progress reports row progress for long-running exports.
package progress

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/johndauphine/csvlist/internal/logging"
)

// Tracker counts processed rows and optionally draws a progress bar.
type Tracker struct {
	bar         *progressbar.ProgressBar
	description string
	out         io.Writer
	total       int64
	current     atomic.Int64
	startTime   time.Time
}

// New creates a tracker. A nil writer disables the bar; counting still works.
func New(description string, out io.Writer) *Tracker {
	return &Tracker{
		description: description,
		out:         out,
		startTime:   time.Now(),
	}
}

// Stderr returns a tracker drawing to standard error.
func Stderr(description string) *Tracker {
	return New(description, os.Stderr)
}

// SetTotal sets the total number of rows and creates the bar.
func (t *Tracker) SetTotal(total int64) {
	t.total = total
	if t.out == nil {
		return
	}
	t.bar = progressbar.NewOptions64(
		total,
		progressbar.OptionSetWriter(t.out),
		progressbar.OptionSetDescription(t.description),
		progressbar.OptionShowBytes(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Total returns the expected row count.
func (t *Tracker) Total() int64 {
	return t.total
}

// Add increments the progress counter.
func (t *Tracker) Add(n int64) {
	t.current.Add(n)
	if t.bar != nil {
		_ = t.bar.Add64(n)
	}
}

// Current returns the current count.
func (t *Tracker) Current() int64 {
	return t.current.Load()
}

// Finish completes the bar and logs throughput.
func (t *Tracker) Finish() {
	if t.bar != nil {
		_ = t.bar.Finish()
		_, _ = io.WriteString(t.out, "\n")
	}

	elapsed := time.Since(t.startTime)
	var rowsPerSec float64
	if elapsed > 0 {
		rowsPerSec = float64(t.current.Load()) / elapsed.Seconds()
	}
	logging.Info("%s %d rows in %s (%.0f rows/sec)",
		t.description, t.current.Load(), elapsed.Round(time.Millisecond), rowsPerSec)
}
