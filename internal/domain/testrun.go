package domain

import "time"

// TestStatus is the outcome class of a single test item.
type TestStatus string

const (
	TestPassed  TestStatus = "passed"
	TestFailed  TestStatus = "failed"
	TestSkipped TestStatus = "skipped"
)

// TestOutcome records the result of one test item.
type TestOutcome struct {
	Name     string
	Status   TestStatus
	Err      error // nil unless Status is TestFailed
	Reason   string
	Duration time.Duration
}

// RunSummary aggregates the outcomes of a session.
type RunSummary struct {
	Outcomes []TestOutcome
	Duration time.Duration
}

// Counts returns the number of passed, failed and skipped items.
func (s *RunSummary) Counts() (passed, failed, skipped int) {
	for _, o := range s.Outcomes {
		switch o.Status {
		case TestPassed:
			passed++
		case TestFailed:
			failed++
		case TestSkipped:
			skipped++
		}
	}
	return
}

// Failed reports whether any item failed.
func (s *RunSummary) Failed() bool {
	_, failed, _ := s.Counts()
	return failed > 0
}
