package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/crucible/internal/domain"
)

// CheckNetwork connects to a network and probes whether tests against
// it will be isolated.
type CheckNetwork struct {
	resolver ProviderResolver
	progress ProgressSink
}

// NewCheckNetwork creates the check network use case
func NewCheckNetwork(resolver ProviderResolver, progress ProgressSink) *CheckNetwork {
	return &CheckNetwork{
		resolver: resolver,
		progress: progress,
	}
}

// CheckNetworkResult contains the probe result
type CheckNetworkResult struct {
	Network *domain.Network

	// Isolated reports whether a snapshot/revert round trip succeeded
	Isolated bool

	// Reason explains degraded mode when Isolated is false
	Reason string
}

// Run resolves and connects the configured network, then attempts a
// snapshot/revert round trip. A provider without snapshot support is a
// degraded result, not an error.
func (uc *CheckNetwork) Run(ctx context.Context, networkChoice string) (*CheckNetworkResult, error) {
	provider, err := uc.resolver.ResolveProvider(ctx, networkChoice)
	if err != nil {
		return nil, err
	}

	uc.progress.Start(fmt.Sprintf("Connecting to %s...", provider.Network().Name))
	err = provider.Connect(ctx)
	uc.progress.Stop()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = provider.Disconnect(ctx)
	}()

	result := &CheckNetworkResult{Network: provider.Network()}

	if !provider.SupportsSnapshots() {
		result.Reason = "network configuration declares no snapshot support"
		return result, nil
	}

	uc.progress.Start("Probing snapshot support...")
	id, err := provider.Snapshot(ctx)
	uc.progress.Stop()

	switch {
	case errors.Is(err, domain.ErrSnapshotNotSupported):
		result.Reason = "the backend rejected evm_snapshot"
		return result, nil
	case err != nil:
		return nil, fmt.Errorf("snapshot probe failed: %w", err)
	}

	if err := provider.Revert(ctx, id); err != nil {
		return nil, fmt.Errorf("revert probe failed: %w", err)
	}

	result.Isolated = true
	return result, nil
}
