// Package network adapts the config-layer network resolver to the
// use-case ports.
package network

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/crucible/internal/adapters/provider"
	"github.com/trebuchet-org/crucible/internal/config"
	"github.com/trebuchet-org/crucible/internal/domain"
	"github.com/trebuchet-org/crucible/internal/usecase"
)

// Resolver resolves network choices to providers and enumerates known
// networks.
type Resolver struct {
	networks *config.NetworkResolver
}

// NewResolver creates a resolver over the project configuration
func NewResolver(networks *config.NetworkResolver) *Resolver {
	return &Resolver{networks: networks}
}

// ResolveProvider resolves a network choice to an unconnected provider
func (r *Resolver) ResolveProvider(ctx context.Context, networkChoice string) (usecase.TestProvider, error) {
	network, err := r.networks.Resolve(networkChoice)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %q: %w", networkChoice, err)
	}

	return provider.NewRPCProvider(network), nil
}

// Names returns all configured network names
func (r *Resolver) Names(ctx context.Context) []string {
	return r.networks.Names()
}

// ResolveNetwork resolves a network name to its configuration
func (r *Resolver) ResolveNetwork(ctx context.Context, networkName string) (*domain.Network, error) {
	return r.networks.Resolve(networkName)
}

var (
	_ usecase.ProviderResolver = (*Resolver)(nil)
	_ usecase.NetworkLister    = (*Resolver)(nil)
)
