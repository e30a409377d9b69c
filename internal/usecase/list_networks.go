package usecase

import (
	"context"

	"github.com/trebuchet-org/crucible/internal/domain"
)

// ListNetworks lists configured networks with their resolution status
type ListNetworks struct {
	networks NetworkLister
}

// NewListNetworks creates the list networks use case
func NewListNetworks(networks NetworkLister) *ListNetworks {
	return &ListNetworks{networks: networks}
}

// NetworkInfo is one row of the networks listing
type NetworkInfo struct {
	Name    string
	Network *domain.Network // nil when resolution failed
	Error   error
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkInfo
}

// Run resolves every known network name. Resolution failures are
// reported per network, not as a use case error.
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	result := &ListNetworksResult{}

	for _, name := range uc.networks.Names(ctx) {
		info := NetworkInfo{Name: name}
		network, err := uc.networks.ResolveNetwork(ctx, name)
		if err != nil {
			info.Error = err
		} else {
			info.Network = network
		}
		result.Networks = append(result.Networks, info)
	}

	return result, nil
}
