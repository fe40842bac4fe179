package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// SpinnerProgressReporter shows a spinner while steps run and a line per
// finished step.
type SpinnerProgressReporter struct {
	spinner *spinner.Spinner
	out     io.Writer

	current   string
	startTime time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.finishCurrent()

	if !event.Spinner {
		if r.spinner.Active() {
			r.spinner.Stop()
		}
		return
	}

	label := event.Message
	if event.Total > 0 {
		label = fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message)
	}
	r.current = label
	r.startTime = time.Now()
	r.spinner.Suffix = " " + color.New(color.FgYellow).Sprint(label)
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.printPaused(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.printPaused(color.New(color.FgRed), message)
}

func (r *SpinnerProgressReporter) printPaused(c *color.Color, message string) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	_, _ = c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// Stop halts the spinner without marking the current step finished
func (r *SpinnerProgressReporter) Stop() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
	r.current = ""
}

// finishCurrent prints the completed step with its duration
func (r *SpinnerProgressReporter) finishCurrent() {
	if r.current == "" {
		return
	}
	if r.spinner.Active() {
		r.spinner.Stop()
	}
	duration := time.Since(r.startTime).Round(time.Millisecond)
	_, _ = fmt.Fprintf(r.out, "%s %s (%s)\n", color.GreenString("✓"), r.current, duration)
	r.current = ""
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
