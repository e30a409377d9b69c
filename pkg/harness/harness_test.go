package harness_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/crucible/pkg/harness"
)

func writeProject(t *testing.T, crucibleYAML string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "foundry.toml"), []byte("[profile.default]\n"), 0644))
	if crucibleYAML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "crucible.yaml"), []byte(crucibleYAML), 0644))
	}
	return root
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunEmptySuiteNeverConnects(t *testing.T) {
	root := writeProject(t, "")
	suite := harness.NewSuite("empty")

	// the network choice is bogus, but with nothing collected the
	// session must finish without ever resolving a provider
	result, err := harness.Run(context.Background(), harness.Config{
		Network:     "no-such-network",
		ProjectRoot: root,
		Logger:      quiet(),
	}, suite)
	require.NoError(t, err)
	assert.Empty(t, result.Outcomes)
}

func TestRunUnknownNetworkFailsSetup(t *testing.T) {
	root := writeProject(t, "")
	suite := harness.NewSuite("one")
	require.NoError(t, suite.Add("test_something", func(ctx context.Context, env *harness.Env) error {
		t.Fatal("body must not run when session setup fails")
		return nil
	}))

	result, err := harness.Run(context.Background(), harness.Config{
		Network:     "no-such-network",
		ProjectRoot: root,
		Logger:      quiet(),
	}, suite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session setup failed")
	assert.Empty(t, result.Outcomes)
}

func TestRunDefaultNetworkFromCrucibleYAML(t *testing.T) {
	root := writeProject(t, "network: no-such-network\n")
	suite := harness.NewSuite("one")
	require.NoError(t, suite.Add("test_something", func(ctx context.Context, env *harness.Env) error {
		return nil
	}))

	// empty Network picks up the crucible.yaml default, which points at
	// nothing resolvable; the failure proves the default was honored
	_, err := harness.Run(context.Background(), harness.Config{
		ProjectRoot: root,
		Logger:      quiet(),
	}, suite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session setup failed")
}

func TestSuiteRejectsDuplicateNames(t *testing.T) {
	suite := harness.NewSuite("dup")
	body := func(ctx context.Context, env *harness.Env) error { return nil }
	require.NoError(t, suite.Add("test_once", body))
	require.Error(t, suite.Add("test_once", body))
}
