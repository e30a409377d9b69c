package harness

import (
	"context"

	"github.com/trebuchet-org/crucible/internal/usecase"
)

// Hooks is the extension surface the session drives. The four methods
// map onto the host lifecycle: session start, collection finish,
// per-test wrapping and session finish. Hook methods are called from a
// single goroutine in strict order.
type Hooks interface {
	// OnSessionStart runs before collection begins.
	OnSessionStart(ctx context.Context)

	// OnCollectionFinish runs once after the suite's items are
	// collected. Errors abort the run before any test executes.
	OnCollectionFinish(ctx context.Context, collected int) error

	// AroundTest wraps one test body. bodyErr is the body's own
	// outcome and must be passed through untouched; err reports an
	// infrastructure failure of the wrapping itself.
	AroundTest(ctx context.Context, name string, body func(context.Context) error) (bodyErr error, err error)

	// OnSessionFinish runs once after the last item, regardless of
	// outcomes. It also runs when OnCollectionFinish failed.
	OnSessionFinish(ctx context.Context) error

	// ActiveProvider returns the provider activated for this session,
	// or nil.
	ActiveProvider() usecase.TestProvider
}

// NopHooks runs the suite with no isolation and no provider.
type NopHooks struct{}

func (NopHooks) OnSessionStart(context.Context) {}

func (NopHooks) OnCollectionFinish(context.Context, int) error { return nil }

func (NopHooks) AroundTest(ctx context.Context, _ string, body func(context.Context) error) (error, error) {
	return body(ctx), nil
}

func (NopHooks) OnSessionFinish(context.Context) error { return nil }

func (NopHooks) ActiveProvider() usecase.TestProvider { return nil }
