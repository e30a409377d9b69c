package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandContextReleasedOnError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "foundry.toml"), []byte("[profile.default]\n"), 0644))
	t.Chdir(root)

	var captured context.Context
	rootCmd := NewRootCmd()
	rootCmd.SilenceErrors = true
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.AddCommand(&cobra.Command{
		Use: "failing",
		RunE: func(cmd *cobra.Command, args []string) error {
			captured = cmd.Context()
			return errors.New("boom")
		},
	})
	rootCmd.SetArgs([]string{"failing"})

	require.Error(t, rootCmd.Execute())
	require.NotNil(t, captured)

	_, hasDeadline := captured.Deadline()
	assert.True(t, hasDeadline)

	select {
	case <-captured.Done():
	default:
		t.Fatal("command context still live after RunE returned")
	}
}
