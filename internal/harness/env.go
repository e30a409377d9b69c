package harness

import (
	"errors"
	"fmt"
	"strings"

	"github.com/trebuchet-org/crucible/internal/domain"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

// Env is handed to each test body. It exposes the provider activated
// for the session, if any, plus a scratch space shared across the
// session's items. The provider is shared across items; state isolation
// between items is the isolation hooks' concern, not the test body's.
type Env struct {
	provider func() usecase.TestProvider
	scratch  map[string]any
}

// Provider returns the active provider, or nil when the session runs
// without one (collection-only dry run, or no hooks configured).
func (e *Env) Provider() usecase.TestProvider {
	if e.provider == nil {
		return nil
	}
	return e.provider()
}

// Set stores a session-scoped value. Unlike chain state, scratch values
// are not reverted between items; items run on one goroutine, so no
// locking.
func (e *Env) Set(key string, value any) {
	if e.scratch == nil {
		e.scratch = make(map[string]any)
	}
	e.scratch[key] = value
}

// Value returns a session-scoped value stored by an earlier item.
func (e *Env) Value(key string) (any, bool) {
	v, ok := e.scratch[key]
	return v, ok
}

// ExpectRevert runs fn and succeeds only when it fails with an EVM
// execution revert. A non-empty reason must appear in the revert reason
// reported by the backend; an empty reason accepts any revert.
func (e *Env) ExpectRevert(reason string, fn func() error) error {
	err := fn()
	if err == nil {
		return errors.New("expected revert, call succeeded")
	}

	got, ok := domain.RevertReason(err)
	if !ok {
		return fmt.Errorf("expected revert, call failed with: %w", err)
	}
	if reason != "" && !strings.Contains(got, reason) {
		return fmt.Errorf("expected revert reason containing %q, got %q", reason, got)
	}
	return nil
}
