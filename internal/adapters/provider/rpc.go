// Package provider implements the test provider over JSON-RPC, backed
// by anvil/hardhat dev nodes or live endpoints.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/crucible/internal/domain"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

// methodNotFoundCode is the JSON-RPC error code for unknown methods.
const methodNotFoundCode = -32601

// RPCProvider is a TestProvider over a JSON-RPC endpoint. Snapshot and
// revert use the evm_snapshot/evm_revert methods implemented by anvil
// and hardhat.
type RPCProvider struct {
	network *domain.Network
	client  *gethrpc.Client
}

// NewRPCProvider creates a provider for the given network. No
// connection is made until Connect.
func NewRPCProvider(network *domain.Network) *RPCProvider {
	return &RPCProvider{network: network}
}

// Connect dials the endpoint and verifies its chain ID against the
// network configuration.
func (p *RPCProvider) Connect(ctx context.Context) error {
	if p.client != nil {
		return nil
	}

	client, err := gethrpc.DialContext(ctx, p.network.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", p.network.RPCURL, err)
	}

	chainID, err := ethclient.NewClient(client).ChainID(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to get chain ID from %s: %w", p.network.RPCURL, err)
	}

	if p.network.ChainID != 0 && chainID.Uint64() != p.network.ChainID {
		client.Close()
		return domain.ChainIDMismatchErr{
			Network:  p.network.Name,
			Expected: p.network.ChainID,
			Actual:   chainID.Uint64(),
		}
	}

	p.client = client
	return nil
}

// Disconnect closes the underlying RPC client
func (p *RPCProvider) Disconnect(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	p.client.Close()
	p.client = nil
	return nil
}

// SupportsSnapshots reports the capability declared by the network
// configuration. Backends that declare support but reject evm_snapshot
// at runtime surface domain.ErrSnapshotNotSupported from Snapshot.
func (p *RPCProvider) SupportsSnapshots() bool {
	return p.network.Snapshots
}

// Snapshot captures the chain state and returns its token
func (p *RPCProvider) Snapshot(ctx context.Context) (domain.SnapshotID, error) {
	if p.client == nil {
		return "", domain.ErrNotConnected
	}

	var id string
	if err := p.client.CallContext(ctx, &id, "evm_snapshot"); err != nil {
		if isMethodNotFound(err) {
			return "", domain.ErrSnapshotNotSupported
		}
		return "", fmt.Errorf("evm_snapshot failed: %w", err)
	}

	return domain.SnapshotID(id), nil
}

// Revert restores the chain state captured by the given token. The
// token is consumed whether or not the call succeeds.
func (p *RPCProvider) Revert(ctx context.Context, id domain.SnapshotID) error {
	if p.client == nil {
		return domain.ErrNotConnected
	}

	var ok bool
	if err := p.client.CallContext(ctx, &ok, "evm_revert", id.String()); err != nil {
		return fmt.Errorf("evm_revert failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("evm_revert rejected snapshot %s: stale or already reverted", id)
	}

	return nil
}

// Network returns the network this provider targets
func (p *RPCProvider) Network() *domain.Network {
	return p.network
}

// isMethodNotFound detects the "not implemented" signal across
// backends: the standard -32601 code, or the message-only variants
// some nodes return.
func isMethodNotFound(err error) bool {
	var rpcErr gethrpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == methodNotFoundCode {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "method not found") ||
		strings.Contains(msg, "not supported") ||
		strings.Contains(msg, "does not exist/is not available")
}

var _ usecase.TestProvider = (*RPCProvider)(nil)
