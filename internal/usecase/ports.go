package usecase

import (
	"context"
	"io"

	"github.com/trebuchet-org/crucible/internal/domain"
)

// TestProvider executes blockchain operations against a network for the
// duration of a test session. Snapshot capability is declared
// explicitly via SupportsSnapshots; implementations whose backend turns
// out not to honor evm_snapshot return domain.ErrSnapshotNotSupported
// from Snapshot, which degrades the session identically.
type TestProvider interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error

	SupportsSnapshots() bool
	Snapshot(ctx context.Context) (domain.SnapshotID, error)
	Revert(ctx context.Context, id domain.SnapshotID) error

	Network() *domain.Network
}

// ProviderResolver resolves a network choice to a connected-capable
// provider. Resolution does not connect; the session decides when.
type ProviderResolver interface {
	ResolveProvider(ctx context.Context, networkChoice string) (TestProvider, error)
}

// NetworkLister enumerates and resolves configured networks
type NetworkLister interface {
	Names(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*domain.Network, error)
}

// NodeManager manages local anvil dev node instances
type NodeManager interface {
	Start(ctx context.Context, instance *domain.NodeInstance) error
	Stop(ctx context.Context, instance *domain.NodeInstance) error
	GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error)
	StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error
}

// ProgressSink receives progress events from long-running operations
type ProgressSink interface {
	Start(message string)
	Stop()
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) Start(string) {}
func (NopProgress) Stop()        {}
func (NopProgress) Info(string)  {}
func (NopProgress) Error(string) {}
