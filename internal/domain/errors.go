package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrSnapshotNotSupported is returned by providers whose backend
	// rejects evm_snapshot. It signals degraded mode, not a failure.
	ErrSnapshotNotSupported = errors.New("snapshot not supported")

	// ErrNotConnected is returned when a provider operation is invoked
	// before a successful Connect.
	ErrNotConnected = errors.New("provider not connected")

	// ErrSkipped marks a test body that chose not to run. Items
	// returning an error wrapping this sentinel are reported as
	// skipped, not failed.
	ErrSkipped = errors.New("test skipped")

	// ErrUnknownNetwork is returned when a network choice cannot be
	// resolved from foundry.toml, crucible.yaml or the built-in chains.
	ErrUnknownNetwork = errors.New("unknown network")
)

// Skipf returns an error marking the current test as skipped.
func Skipf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSkipped, fmt.Sprintf(format, args...))
}

// DuplicateItemErr is returned when a suite contains two items with the
// same name.
type DuplicateItemErr struct {
	Name string
}

func (e DuplicateItemErr) Error() string {
	return fmt.Sprintf("duplicate test item name: %s", e.Name)
}

// ChainIDMismatchErr is returned when the chain ID reported by an RPC
// endpoint does not match the configured network.
type ChainIDMismatchErr struct {
	Network  string
	Expected uint64
	Actual   uint64
}

func (e ChainIDMismatchErr) Error() string {
	return fmt.Sprintf("chain ID mismatch for network %s: expected %d, got %d", e.Network, e.Expected, e.Actual)
}
