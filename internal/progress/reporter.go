// Package progress shows feedback while a reading or talisman is generated.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback during a generation call whose
// length is unknown.
type Reporter interface {
	Start(message string)
	Update(message string)
	Finish(message string)
}

// NewReporter returns a SpinnerReporter for interactive terminals, or a
// LineReporter if the CI environment variable is set.
func NewReporter(w io.Writer) Reporter {
	if w == nil {
		w = os.Stderr
	}
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LineReporter{w: w}
	}
	return NewSpinner(w)
}

// SpinnerReporter animates an indeterminate spinner until Finish.
type SpinnerReporter struct {
	w        io.Writer
	interval time.Duration

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner that writes to w.
func NewSpinner(w io.Writer) *SpinnerReporter {
	return &SpinnerReporter{w: w, interval: 120 * time.Millisecond}
}

func (r *SpinnerReporter) Start(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		return
	}

	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.spin(r.bar, r.stop, r.done)
}

func (r *SpinnerReporter) spin(bar *progressbar.ProgressBar, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func (r *SpinnerReporter) Update(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		r.bar.Describe(message)
	}
}

func (r *SpinnerReporter) Finish(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		return
	}
	close(r.stop)
	<-r.done
	_ = r.bar.Finish()
	r.bar = nil
	if message != "" {
		fmt.Fprintln(r.w, message)
	}
}

// LineReporter prints line-by-line progress suitable for CI logs.
type LineReporter struct {
	w io.Writer
}

// NewLineReporter creates a LineReporter that writes to w.
func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{w: w}
}

func (r *LineReporter) Start(message string) {
	fmt.Fprintf(r.w, "%s\n", message)
}

func (r *LineReporter) Update(message string) {
	fmt.Fprintf(r.w, "  %s\n", message)
}

func (r *LineReporter) Finish(message string) {
	if message != "" {
		fmt.Fprintln(r.w, message)
	}
}
