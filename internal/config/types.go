package config

import (
	"time"

	"github.com/trebuchet-org/crucible/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	NetworkChoice string          // Raw --network value; resolved lazily by the runner
	Network       *domain.Network // nil if not resolved yet

	// Execution settings
	Debug           bool
	DisableWarnings bool
	JSON            bool
	Timeout         time.Duration

	// Resolved configurations
	FoundryConfig  *FoundryConfig
	CrucibleConfig *CrucibleConfig
}

// FoundryConfig is the subset of foundry.toml crucible cares about
type FoundryConfig struct {
	RpcEndpoints map[string]string          `toml:"rpc_endpoints"`
	Etherscan    map[string]EtherscanConfig `toml:"etherscan,omitempty"`
}

// EtherscanConfig represents Etherscan configuration for a network
// This matches Foundry's expected structure
type EtherscanConfig struct {
	Key string `toml:"key,omitempty"`
	URL string `toml:"url,omitempty"`
}

// CrucibleConfig represents the optional crucible.yaml project file
type CrucibleConfig struct {
	// DefaultNetwork is used when --network is not given
	DefaultNetwork string `yaml:"network,omitempty"`

	// Networks adds or overrides network definitions beyond foundry.toml
	Networks map[string]NetworkEntry `yaml:"networks,omitempty"`
}

// NetworkEntry is a crucible.yaml network definition
type NetworkEntry struct {
	RPCURL      string `yaml:"rpc_url"`
	ChainID     uint64 `yaml:"chain_id,omitempty"`
	ExplorerURL string `yaml:"explorer_url,omitempty"`

	// Snapshots declares whether the backend honors evm_snapshot.
	// Defaults to false; foundry.toml anvil-style endpoints default to
	// true based on chain ID.
	Snapshots bool `yaml:"snapshots,omitempty"`
}
