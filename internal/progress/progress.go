// Package progress renders terminal progress bars for long-running
// scans and parses. All output goes to stderr so it never mixes with
// formatted results on stdout.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for file processing. A nil or disabled
// Tracker is safe to use; every method becomes a no-op.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewTracker creates a progress bar with the given label and total
// count. When enabled is false the returned Tracker discards all
// output, which keeps call sites free of conditionals.
func NewTracker(label string, total int, enabled bool) *Tracker {
	if !enabled {
		return &Tracker{}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label}
}

// NewSpinner creates a spinner for operations with unknown total count.
func NewSpinner(label string, enabled bool) *Tracker {
	if !enabled {
		return &Tracker{}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, label: label}
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	if t == nil || t.bar == nil {
		return
	}
	t.bar.Add(1)
}

// Set moves the bar to an absolute position.
func (t *Tracker) Set(n int) {
	if t == nil || t.bar == nil {
		return
	}
	t.bar.Set(n)
}

// Finish clears the bar completely.
func (t *Tracker) Finish() {
	if t == nil || t.bar == nil {
		return
	}
	t.bar.Finish()
	t.bar.Clear()
}

// FinishError clears the bar and prints an error message to stderr.
func (t *Tracker) FinishError(err error) {
	if t == nil || t.bar == nil {
		return
	}
	t.bar.Finish()
	t.bar.Clear()
	fmt.Fprintf(os.Stderr, "  %s error: %v\n", t.label, err)
}

// Enabled reports whether a terminal is attached to the writer, used to
// decide whether progress output makes sense at all.
func Enabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
