package domain

// Network represents a resolved network configuration
type Network struct {
	Name        string
	ChainID     uint64
	RPCURL      string
	ExplorerURL string

	// Snapshots reports whether the network's backend is expected to
	// honor evm_snapshot/evm_revert. Dev nodes (anvil, hardhat) do,
	// live networks do not. The provider still probes at runtime; this
	// flag only controls whether a probe is attempted.
	Snapshots bool
}

// IsDevNode reports whether the network points at a local development
// node rather than a live chain.
func (n *Network) IsDevNode() bool {
	return n.ChainID == DevChainID
}

// DevChainID is the chain ID used by anvil and hardhat by default.
const DevChainID uint64 = 31337
