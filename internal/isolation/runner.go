// Package isolation wraps a test session with snapshot/revert state
// isolation against the active provider.
package isolation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gethlog "github.com/ethereum/go-ethereum/log"
	"github.com/trebuchet-org/crucible/internal/domain"
	"github.com/trebuchet-org/crucible/internal/harness"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

// MissingSnapshotWarning is logged once per session when the connected
// provider cannot isolate tests.
const MissingSnapshotWarning = "The connected provider does not support snapshotting. " +
	"Tests will not be completely isolated."

// Runner is the session-scoped isolation controller. It lazily
// activates a provider once tests are known to exist, wraps each test
// with snapshot-before/revert-after, and tears the provider down at
// session end. A session runs tests from a single goroutine, so the
// runner keeps no locks.
type Runner struct {
	resolver      usecase.ProviderResolver
	networkChoice string
	log           *slog.Logger

	provider                     usecase.TestProvider
	warnedMissingSnapshotSupport bool
}

// NewRunner creates a runner for one session. networkChoice is the raw
// --network value; resolution is deferred until tests are collected.
func NewRunner(resolver usecase.ProviderResolver, networkChoice string, log *slog.Logger) *Runner {
	return &Runner{
		resolver:      resolver,
		networkChoice: networkChoice,
		log:           log,
	}
}

// OnSessionStart silences go-ethereum's global root logger for the
// session. Its output (connection retries, RPC noise) is irrelevant to
// users running tests and would interleave with outcome reporting.
func (r *Runner) OnSessionStart(ctx context.Context) {
	gethlog.SetDefault(gethlog.NewLogger(gethlog.DiscardHandler()))
}

// OnCollectionFinish activates a provider, but only when there is at
// least one test to run and none is active yet. Calling it again with
// an active provider is a no-op. Resolution and connect errors
// propagate unmodified; they are fatal to the session.
func (r *Runner) OnCollectionFinish(ctx context.Context, collected int) error {
	if collected == 0 || r.provider != nil {
		return nil
	}

	provider, err := r.resolver.ResolveProvider(ctx, r.networkChoice)
	if err != nil {
		return err
	}

	if err := provider.Connect(ctx); err != nil {
		return err
	}

	r.provider = provider
	r.log.Debug("provider connected",
		"network", provider.Network().Name,
		"snapshots", provider.SupportsSnapshots())
	return nil
}

// AroundTest wraps one test body with snapshot/revert. The body's
// error is returned untouched as bodyErr; err reports failures of the
// wrapping itself. Degraded capability (no snapshot support) is not an
// error: it is logged once per session and the body still runs.
func (r *Runner) AroundTest(ctx context.Context, name string, body func(context.Context) error) (bodyErr error, err error) {
	var snapshotID domain.SnapshotID

	if r.provider != nil {
		if !r.provider.SupportsSnapshots() {
			r.warnMissingSnapshotSupport()
		} else {
			id, serr := r.provider.Snapshot(ctx)
			switch {
			case errors.Is(serr, domain.ErrSnapshotNotSupported):
				r.warnMissingSnapshotSupport()
			case serr != nil:
				return nil, fmt.Errorf("failed to snapshot before %s: %w", name, serr)
			default:
				snapshotID = id
			}
		}
	}

	// Revert must run on every exit path out of the body, including
	// panics that unwind through it.
	defer func() {
		if !snapshotID.Valid() {
			return
		}
		if rerr := r.provider.Revert(ctx, snapshotID); rerr != nil && err == nil {
			err = fmt.Errorf("failed to revert after %s: %w", name, rerr)
		}
	}()

	bodyErr = body(ctx)
	return bodyErr, nil
}

// OnSessionFinish disconnects the provider if one was activated.
// Disconnect errors surface as teardown errors and are not retried.
func (r *Runner) OnSessionFinish(ctx context.Context) error {
	if r.provider == nil {
		return nil
	}
	return r.provider.Disconnect(ctx)
}

// ActiveProvider returns the provider activated for this session, or
// nil before collection finished or when no tests were collected.
func (r *Runner) ActiveProvider() usecase.TestProvider {
	return r.provider
}

// Ensure the runner satisfies the session hook surface
var _ harness.Hooks = (*Runner)(nil)

func (r *Runner) warnMissingSnapshotSupport() {
	if r.warnedMissingSnapshotSupport {
		return
	}
	r.log.Warn(MissingSnapshotWarning)
	r.warnedMissingSnapshotSupport = true
}
