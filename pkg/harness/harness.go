// Package harness is the public entry point for writing crucible test
// suites. A suite is an ordered list of named test functions executed
// sequentially against a configured network, each wrapped with
// snapshot/revert isolation when the provider supports it.
package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
	"github.com/trebuchet-org/crucible/internal/adapters/network"
	"github.com/trebuchet-org/crucible/internal/config"
	"github.com/trebuchet-org/crucible/internal/domain"
	internalharness "github.com/trebuchet-org/crucible/internal/harness"
	"github.com/trebuchet-org/crucible/internal/isolation"
	"github.com/trebuchet-org/crucible/internal/logging"
)

// Public surface of the session model.
type (
	// Suite is an ordered collection of test items
	Suite = internalharness.Suite

	// Env is passed to every test body
	Env = internalharness.Env

	// TestFunc is a single test body
	TestFunc = internalharness.TestFunc

	// Result summarizes a session
	Result = domain.RunSummary

	// Outcome is the result of one test item
	Outcome = domain.TestOutcome
)

// Outcome classes.
const (
	Passed  = domain.TestPassed
	Failed  = domain.TestFailed
	Skipped = domain.TestSkipped
)

// Skipf marks the current test as skipped when returned from its body.
func Skipf(format string, args ...any) error {
	return domain.Skipf(format, args...)
}

// NewSuite creates an empty suite
func NewSuite(name string) *Suite {
	return internalharness.NewSuite(name)
}

// Config controls a session run.
type Config struct {
	// Network is the network choice (name from foundry.toml
	// [rpc_endpoints] or crucible.yaml, a chain alias, or a raw RPC
	// URL). Empty falls back to the project's configured default.
	Network string

	// ProjectRoot overrides project discovery. Empty walks up from the
	// working directory looking for foundry.toml or crucible.yaml.
	ProjectRoot string

	// DisableWarnings suppresses warn-level diagnostics, including the
	// degraded-isolation notice. It never changes run behavior.
	DisableWarnings bool

	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

// Run executes the suite as one session: the provider is connected
// lazily once tests are known to exist, every test is wrapped with
// snapshot/revert isolation, and the provider is disconnected at the
// end. The returned error covers session setup and teardown failures
// only; individual test failures are reported in the result.
func Run(ctx context.Context, cfg Config, suite *Suite) (*Result, error) {
	projectRoot := cfg.ProjectRoot
	if projectRoot == "" {
		var err error
		projectRoot, err = config.FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	v := viper.New()
	v.Set("project_root", projectRoot)
	v.Set("network", cfg.Network)
	v.Set("disable_warnings", cfg.DisableWarnings)

	rc, err := config.Provider(v)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = logging.NewLogger(rc)
	}

	resolver := network.NewResolver(config.NewNetworkResolver(rc))
	runner := isolation.NewRunner(resolver, rc.NetworkChoice, log)
	session := internalharness.NewSession(runner, log)

	return session.Run(ctx, suite)
}
