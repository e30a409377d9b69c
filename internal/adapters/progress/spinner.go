// Package progress provides ProgressSink implementations for the CLI.
package progress

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

// SpinnerSink reports progress with a terminal spinner
type SpinnerSink struct {
	spinner *spinner.Spinner
}

// NewSpinnerSink creates a spinner-based progress sink
func NewSpinnerSink() *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.HideCursor = false

	return &SpinnerSink{spinner: s}
}

// Start begins spinning with the given message
func (s *SpinnerSink) Start(message string) {
	s.spinner.Suffix = " " + message
	if !s.spinner.Active() {
		s.spinner.Start()
	}
}

// Stop halts the spinner
func (s *SpinnerSink) Stop() {
	s.spinner.Stop()
}

// Info prints an informational message, pausing the spinner
func (s *SpinnerSink) Info(message string) {
	active := s.spinner.Active()
	if active {
		s.spinner.Stop()
	}
	fmt.Println(message)
	if active {
		s.spinner.Start()
	}
}

// Error prints an error message in red
func (s *SpinnerSink) Error(message string) {
	if s.spinner.Active() {
		s.spinner.Stop()
	}
	color.New(color.FgRed).Println(message)
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
