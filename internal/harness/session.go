package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/trebuchet-org/crucible/internal/domain"
)

// Session runs a suite sequentially, driving the hooks around each
// item. Tests never run concurrently, so the session holds no locks.
type Session struct {
	hooks Hooks
	log   *slog.Logger
}

// NewSession creates a session over the given hooks
func NewSession(hooks Hooks, log *slog.Logger) *Session {
	return &Session{
		hooks: hooks,
		log:   log,
	}
}

// Run executes the suite. The returned summary covers every item that
// ran; err reports setup or teardown failures, never test failures.
// Teardown is attempted even when setup failed; the setup error takes
// precedence in the returned error.
func (s *Session) Run(ctx context.Context, suite *Suite) (*domain.RunSummary, error) {
	start := time.Now()
	summary := &domain.RunSummary{}

	s.hooks.OnSessionStart(ctx)

	items := suite.Items()
	runErr := s.hooks.OnCollectionFinish(ctx, len(items))
	if runErr != nil {
		runErr = fmt.Errorf("session setup failed: %w", runErr)
	}

	env := &Env{provider: s.hooks.ActiveProvider}

	if runErr == nil {
		for _, item := range items {
			outcome, ran, err := s.runItem(ctx, item, env)
			if ran {
				summary.Outcomes = append(summary.Outcomes, outcome)
			}
			if err != nil {
				runErr = err
				break
			}
		}
	}

	if finErr := s.hooks.OnSessionFinish(ctx); finErr != nil && runErr == nil {
		runErr = fmt.Errorf("session teardown failed: %w", finErr)
	}

	summary.Duration = time.Since(start)
	return summary, runErr
}

// runItem wraps one item with the hooks and classifies its outcome.
// Panics in the body are recovered into failures before the hooks see
// them, so the isolation wrapper's cleanup runs on every exit path.
// ran is false when the wrapping failed before the body could execute.
func (s *Session) runItem(ctx context.Context, item Item, env *Env) (outcome domain.TestOutcome, ran bool, infraErr error) {
	start := time.Now()
	s.log.Debug("running test", "name", item.Name)

	body := func(ctx context.Context) (err error) {
		ran = true
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic: %v\n%s", p, debug.Stack())
			}
		}()
		return item.Fn(ctx, env)
	}

	var bodyErr error
	bodyErr, infraErr = s.hooks.AroundTest(ctx, item.Name, body)

	outcome = domain.TestOutcome{
		Name:     item.Name,
		Duration: time.Since(start),
	}

	switch {
	case bodyErr == nil:
		outcome.Status = domain.TestPassed
	case errors.Is(bodyErr, domain.ErrSkipped):
		outcome.Status = domain.TestSkipped
		outcome.Reason = bodyErr.Error()
	default:
		outcome.Status = domain.TestFailed
		outcome.Err = bodyErr
	}

	return outcome, ran, infraErr
}
