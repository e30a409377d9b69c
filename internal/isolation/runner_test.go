package isolation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/crucible/internal/domain"
	"github.com/trebuchet-org/crucible/internal/harness"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

// fakeProvider simulates a snapshot-capable chain backend with a
// key/value state that snapshots capture and reverts restore.
type fakeProvider struct {
	network  *domain.Network
	supports bool

	// notImplemented makes Snapshot return the degraded-mode signal
	// even though the capability is declared.
	notImplemented bool
	snapshotErr    error
	revertErr      error
	connectErr     error
	disconnectErr  error

	state     map[string]string
	snapshots map[domain.SnapshotID]map[string]string
	nextID    int

	connects    int
	disconnects int
	taken       []domain.SnapshotID
	reverted    []domain.SnapshotID
}

func newFakeProvider(supports bool) *fakeProvider {
	return &fakeProvider{
		network:   &domain.Network{Name: "anvil", ChainID: domain.DevChainID, Snapshots: supports},
		supports:  supports,
		state:     make(map[string]string),
		snapshots: make(map[domain.SnapshotID]map[string]string),
	}
}

func (p *fakeProvider) Connect(ctx context.Context) error {
	p.connects++
	return p.connectErr
}

func (p *fakeProvider) Disconnect(ctx context.Context) error {
	p.disconnects++
	return p.disconnectErr
}

func (p *fakeProvider) SupportsSnapshots() bool { return p.supports }

func (p *fakeProvider) Snapshot(ctx context.Context) (domain.SnapshotID, error) {
	if p.notImplemented {
		return "", domain.ErrSnapshotNotSupported
	}
	if p.snapshotErr != nil {
		return "", p.snapshotErr
	}

	p.nextID++
	id := domain.SnapshotID(fmt.Sprintf("0x%x", p.nextID))

	saved := make(map[string]string, len(p.state))
	for k, v := range p.state {
		saved[k] = v
	}
	p.snapshots[id] = saved
	p.taken = append(p.taken, id)

	return id, nil
}

func (p *fakeProvider) Revert(ctx context.Context, id domain.SnapshotID) error {
	p.reverted = append(p.reverted, id)
	if p.revertErr != nil {
		return p.revertErr
	}

	saved, ok := p.snapshots[id]
	if !ok {
		return fmt.Errorf("unknown snapshot %s", id)
	}
	p.state = saved
	delete(p.snapshots, id)

	return nil
}

func (p *fakeProvider) Network() *domain.Network { return p.network }

// fakeResolver hands out a fixed provider
type fakeResolver struct {
	provider   usecase.TestProvider
	resolveErr error
	resolves   int
}

func (r *fakeResolver) ResolveProvider(ctx context.Context, networkChoice string) (usecase.TestProvider, error) {
	r.resolves++
	if r.resolveErr != nil {
		return nil, r.resolveErr
	}
	return r.provider, nil
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

func warningCount(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), "does not support snapshotting")
}

func TestRunnerLazyConnect(t *testing.T) {
	t.Run("connects once tests are collected", func(t *testing.T) {
		provider := newFakeProvider(true)
		resolver := &fakeResolver{provider: provider}
		log, _ := testLogger()
		runner := NewRunner(resolver, "anvil", log)

		require.NoError(t, runner.OnCollectionFinish(context.Background(), 3))
		assert.Equal(t, 1, provider.connects)
		assert.Same(t, provider, runner.ActiveProvider().(*fakeProvider))
	})

	t.Run("no tests collected means no connection", func(t *testing.T) {
		provider := newFakeProvider(true)
		resolver := &fakeResolver{provider: provider}
		log, _ := testLogger()
		runner := NewRunner(resolver, "anvil", log)

		require.NoError(t, runner.OnCollectionFinish(context.Background(), 0))
		assert.Zero(t, resolver.resolves)
		assert.Zero(t, provider.connects)
		assert.Nil(t, runner.ActiveProvider())
	})

	t.Run("idempotent when a provider is already active", func(t *testing.T) {
		provider := newFakeProvider(true)
		resolver := &fakeResolver{provider: provider}
		log, _ := testLogger()
		runner := NewRunner(resolver, "anvil", log)

		require.NoError(t, runner.OnCollectionFinish(context.Background(), 2))
		require.NoError(t, runner.OnCollectionFinish(context.Background(), 2))
		assert.Equal(t, 1, resolver.resolves)
		assert.Equal(t, 1, provider.connects)
	})

	t.Run("resolution failure propagates unmodified", func(t *testing.T) {
		resolveErr := errors.New("no such network")
		resolver := &fakeResolver{resolveErr: resolveErr}
		log, _ := testLogger()
		runner := NewRunner(resolver, "bogus", log)

		err := runner.OnCollectionFinish(context.Background(), 1)
		require.ErrorIs(t, err, resolveErr)
		assert.Nil(t, runner.ActiveProvider())
	})

	t.Run("connect failure propagates unmodified", func(t *testing.T) {
		provider := newFakeProvider(true)
		provider.connectErr = errors.New("connection refused")
		resolver := &fakeResolver{provider: provider}
		log, _ := testLogger()
		runner := NewRunner(resolver, "anvil", log)

		err := runner.OnCollectionFinish(context.Background(), 1)
		require.ErrorIs(t, err, provider.connectErr)
		assert.Nil(t, runner.ActiveProvider())
	})
}

func TestRunnerAroundTest(t *testing.T) {
	ctx := context.Background()

	activate := func(t *testing.T, provider *fakeProvider) (*Runner, *bytes.Buffer) {
		t.Helper()
		log, buf := testLogger()
		runner := NewRunner(&fakeResolver{provider: provider}, "anvil", log)
		require.NoError(t, runner.OnCollectionFinish(ctx, 1))
		return runner, buf
	}

	t.Run("reverts to the exact snapshot taken for the test", func(t *testing.T) {
		provider := newFakeProvider(true)
		runner, _ := activate(t, provider)

		for i := 0; i < 3; i++ {
			bodyErr, err := runner.AroundTest(ctx, "test", func(context.Context) error { return nil })
			require.NoError(t, err)
			require.NoError(t, bodyErr)
		}

		require.Len(t, provider.taken, 3)
		assert.Equal(t, provider.taken, provider.reverted)
	})

	t.Run("state mutations are rolled back between tests", func(t *testing.T) {
		provider := newFakeProvider(true)
		runner, _ := activate(t, provider)

		provider.state["balance"] = "100"

		bodyErr, err := runner.AroundTest(ctx, "mutate", func(context.Context) error {
			provider.state["balance"] = "0"
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, bodyErr)

		bodyErr, err = runner.AroundTest(ctx, "observe", func(context.Context) error {
			if provider.state["balance"] != "100" {
				return fmt.Errorf("expected baseline balance, got %s", provider.state["balance"])
			}
			return nil
		})
		require.NoError(t, err)
		assert.NoError(t, bodyErr)
	})

	t.Run("reverts even when the body fails", func(t *testing.T) {
		provider := newFakeProvider(true)
		runner, _ := activate(t, provider)

		bodyErr, err := runner.AroundTest(ctx, "failing", func(context.Context) error {
			provider.state["nonce"] = "7"
			return errors.New("assertion failed")
		})
		require.NoError(t, err)
		assert.EqualError(t, bodyErr, "assertion failed")
		assert.Len(t, provider.reverted, 1)
		assert.Empty(t, provider.state)
	})

	t.Run("reverts even when the body panics", func(t *testing.T) {
		provider := newFakeProvider(true)
		runner, _ := activate(t, provider)

		require.Panics(t, func() {
			_, _ = runner.AroundTest(ctx, "panicking", func(context.Context) error {
				panic("boom")
			})
		})
		assert.Len(t, provider.reverted, 1)
	})

	t.Run("runs safely with no active provider", func(t *testing.T) {
		log, _ := testLogger()
		runner := NewRunner(&fakeResolver{}, "anvil", log)

		ran := false
		bodyErr, err := runner.AroundTest(ctx, "dry", func(context.Context) error {
			ran = true
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, bodyErr)
		assert.True(t, ran)
	})

	t.Run("degraded snapshot failure does not mask the test outcome", func(t *testing.T) {
		provider := newFakeProvider(true)
		provider.notImplemented = true
		runner, buf := activate(t, provider)

		bodyErr, err := runner.AroundTest(ctx, "failing", func(context.Context) error {
			return errors.New("assertion failed")
		})
		require.NoError(t, err)
		assert.EqualError(t, bodyErr, "assertion failed")
		assert.Empty(t, provider.reverted)
		assert.Equal(t, 1, warningCount(buf))
	})

	t.Run("unexpected snapshot failure aborts before the body", func(t *testing.T) {
		provider := newFakeProvider(true)
		provider.snapshotErr = errors.New("connection reset")
		runner, _ := activate(t, provider)

		ran := false
		_, err := runner.AroundTest(ctx, "test", func(context.Context) error {
			ran = true
			return nil
		})
		require.ErrorIs(t, err, provider.snapshotErr)
		assert.False(t, ran)
	})

	t.Run("revert failure surfaces as an infrastructure error", func(t *testing.T) {
		provider := newFakeProvider(true)
		provider.revertErr = errors.New("revert rejected")
		runner, _ := activate(t, provider)

		bodyErr, err := runner.AroundTest(ctx, "test", func(context.Context) error { return nil })
		require.NoError(t, bodyErr)
		require.ErrorIs(t, err, provider.revertErr)
	})
}

func TestRunnerWarnsOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("capability absent", func(t *testing.T) {
		provider := newFakeProvider(false)
		log, buf := testLogger()
		runner := NewRunner(&fakeResolver{provider: provider}, "anvil", log)
		require.NoError(t, runner.OnCollectionFinish(ctx, 3))

		for i := 0; i < 3; i++ {
			bodyErr, err := runner.AroundTest(ctx, "test", func(context.Context) error { return nil })
			require.NoError(t, err)
			require.NoError(t, bodyErr)
		}

		assert.Equal(t, 1, warningCount(buf))
		assert.Contains(t, buf.String(), "Tests will not be completely isolated")
		assert.Empty(t, provider.taken)
	})

	t.Run("capability declared but not implemented", func(t *testing.T) {
		provider := newFakeProvider(true)
		provider.notImplemented = true
		log, buf := testLogger()
		runner := NewRunner(&fakeResolver{provider: provider}, "anvil", log)
		require.NoError(t, runner.OnCollectionFinish(ctx, 3))

		for i := 0; i < 3; i++ {
			_, err := runner.AroundTest(ctx, "test", func(context.Context) error { return nil })
			require.NoError(t, err)
		}

		assert.Equal(t, 1, warningCount(buf))
	})

	t.Run("separate sessions warn independently", func(t *testing.T) {
		log, buf := testLogger()

		for i := 0; i < 2; i++ {
			provider := newFakeProvider(false)
			runner := NewRunner(&fakeResolver{provider: provider}, "anvil", log)
			require.NoError(t, runner.OnCollectionFinish(ctx, 1))
			_, err := runner.AroundTest(ctx, "test", func(context.Context) error { return nil })
			require.NoError(t, err)
		}

		// The flag is per runner instance, not process-wide
		assert.Equal(t, 2, warningCount(buf))
	})
}

func TestRunnerSessionFinish(t *testing.T) {
	ctx := context.Background()

	t.Run("disconnects the activated provider", func(t *testing.T) {
		provider := newFakeProvider(true)
		log, _ := testLogger()
		runner := NewRunner(&fakeResolver{provider: provider}, "anvil", log)
		require.NoError(t, runner.OnCollectionFinish(ctx, 1))

		require.NoError(t, runner.OnSessionFinish(ctx))
		assert.Equal(t, 1, provider.disconnects)
	})

	t.Run("no-op when no provider was activated", func(t *testing.T) {
		provider := newFakeProvider(true)
		log, _ := testLogger()
		runner := NewRunner(&fakeResolver{provider: provider}, "anvil", log)
		require.NoError(t, runner.OnCollectionFinish(ctx, 0))

		require.NoError(t, runner.OnSessionFinish(ctx))
		assert.Zero(t, provider.disconnects)
	})

	t.Run("disconnect failure surfaces as teardown error", func(t *testing.T) {
		provider := newFakeProvider(true)
		provider.disconnectErr = errors.New("already closed")
		log, _ := testLogger()
		runner := NewRunner(&fakeResolver{provider: provider}, "anvil", log)
		require.NoError(t, runner.OnCollectionFinish(ctx, 1))

		require.ErrorIs(t, runner.OnSessionFinish(ctx), provider.disconnectErr)
	})
}

// End-to-end: the runner driving a real session over a suite.
func TestRunnerWithSession(t *testing.T) {
	ctx := context.Background()

	t.Run("isolates suite items against a snapshot-capable provider", func(t *testing.T) {
		provider := newFakeProvider(true)
		log, _ := testLogger()
		runner := NewRunner(&fakeResolver{provider: provider}, "anvil", log)
		session := harness.NewSession(runner, log)

		suite := harness.NewSuite("isolation")
		suite.MustAdd("mutates", func(ctx context.Context, env *harness.Env) error {
			env.Provider().(*fakeProvider).state["owner"] = "attacker"
			return nil
		})
		suite.MustAdd("observes baseline", func(ctx context.Context, env *harness.Env) error {
			if owner, ok := env.Provider().(*fakeProvider).state["owner"]; ok {
				return fmt.Errorf("state leaked between tests: owner=%s", owner)
			}
			return nil
		})

		summary, err := session.Run(ctx, suite)
		require.NoError(t, err)
		require.Len(t, summary.Outcomes, 2)
		for _, outcome := range summary.Outcomes {
			assert.Equal(t, domain.TestPassed, outcome.Status, outcome.Name)
		}
		assert.Equal(t, 1, provider.disconnects)
	})

	t.Run("failed tests stay failed in degraded mode", func(t *testing.T) {
		provider := newFakeProvider(false)
		log, buf := testLogger()
		runner := NewRunner(&fakeResolver{provider: provider}, "anvil", log)
		session := harness.NewSession(runner, log)

		suite := harness.NewSuite("degraded")
		suite.MustAdd("fails", func(ctx context.Context, env *harness.Env) error {
			return errors.New("intentional failure")
		})
		suite.MustAdd("passes", func(ctx context.Context, env *harness.Env) error {
			return nil
		})
		suite.MustAdd("skips", func(ctx context.Context, env *harness.Env) error {
			return domain.Skipf("not on this network")
		})

		summary, err := session.Run(ctx, suite)
		require.NoError(t, err)
		require.Len(t, summary.Outcomes, 3)
		assert.Equal(t, domain.TestFailed, summary.Outcomes[0].Status)
		assert.Equal(t, domain.TestPassed, summary.Outcomes[1].Status)
		assert.Equal(t, domain.TestSkipped, summary.Outcomes[2].Status)
		assert.Equal(t, 1, warningCount(buf))
	})

	t.Run("empty suite never touches the network", func(t *testing.T) {
		provider := newFakeProvider(true)
		resolver := &fakeResolver{provider: provider}
		log, _ := testLogger()
		runner := NewRunner(resolver, "anvil", log)
		session := harness.NewSession(runner, log)

		summary, err := session.Run(ctx, harness.NewSuite("empty"))
		require.NoError(t, err)
		assert.Empty(t, summary.Outcomes)
		assert.Zero(t, resolver.resolves)
		assert.Zero(t, provider.connects)
		assert.Zero(t, provider.disconnects)
	})
}
