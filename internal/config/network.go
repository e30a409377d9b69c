package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/crucible/internal/domain"
)

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	dataDir        string
	foundryConfig  *FoundryConfig
	crucibleConfig *CrucibleConfig
	cache          *NetworkCache
	httpClient     *http.Client
	mu             sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	Networks  map[string]uint64 `json:"networks"` // name -> chainID
	RPCs      map[string]uint64 `json:"rpcs"`     // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

// builtinNetworks are always available even without project config.
var builtinNetworks = map[string]domain.Network{
	"anvil":     {Name: "anvil", ChainID: domain.DevChainID, RPCURL: "http://localhost:8545", Snapshots: true},
	"localhost": {Name: "localhost", ChainID: domain.DevChainID, RPCURL: "http://localhost:8545", Snapshots: true},
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(cfg *RuntimeConfig) *NetworkResolver {
	r := &NetworkResolver{
		dataDir:        cfg.DataDir,
		foundryConfig:  cfg.FoundryConfig,
		crucibleConfig: cfg.CrucibleConfig,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	r.loadCache()

	return r
}

// Resolve resolves a network choice to its configuration. The choice is
// looked up in crucible.yaml networks, then foundry.toml [rpc_endpoints],
// then the built-in dev networks. A raw RPC URL is accepted as-is.
func (r *NetworkResolver) Resolve(networkName string) (*domain.Network, error) {
	if networkName == "" {
		return nil, fmt.Errorf("%w: network not specified", domain.ErrUnknownNetwork)
	}

	if entry, ok := r.crucibleConfig.Networks[networkName]; ok {
		return r.resolveEntry(networkName, entry)
	}

	if rpcURL, ok := r.foundryConfig.RpcEndpoints[networkName]; ok {
		chainID, err := r.chainIDFor(networkName, rpcURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
		}
		return &domain.Network{
			Name:        networkName,
			ChainID:     chainID,
			RPCURL:      rpcURL,
			ExplorerURL: r.getExplorerURL(networkName, chainID),
			Snapshots:   chainID == domain.DevChainID,
		}, nil
	}

	if network, ok := builtinNetworks[strings.ToLower(networkName)]; ok {
		return &network, nil
	}

	// Raw RPC URL: ad-hoc network, capability discovered on first snapshot.
	// Cache entries are keyed by the URL itself; distinct ad-hoc endpoints
	// must never share a cached chain ID.
	if strings.HasPrefix(networkName, "http://") || strings.HasPrefix(networkName, "https://") ||
		strings.HasPrefix(networkName, "ws://") || strings.HasPrefix(networkName, "wss://") {
		chainID, err := r.chainIDFor(networkName, networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for %s: %w", networkName, err)
		}
		return &domain.Network{
			Name:      "custom",
			ChainID:   chainID,
			RPCURL:    networkName,
			Snapshots: chainID == domain.DevChainID,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s (not in crucible.yaml, foundry.toml [rpc_endpoints] or built-ins)", domain.ErrUnknownNetwork, networkName)
}

// resolveEntry materializes a crucible.yaml network entry.
func (r *NetworkResolver) resolveEntry(name string, entry NetworkEntry) (*domain.Network, error) {
	chainID := entry.ChainID
	if chainID == 0 {
		fetched, err := r.chainIDFor(name, entry.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", name, err)
		}
		chainID = fetched
	}

	return &domain.Network{
		Name:        name,
		ChainID:     chainID,
		RPCURL:      entry.RPCURL,
		ExplorerURL: entry.ExplorerURL,
		Snapshots:   entry.Snapshots || chainID == domain.DevChainID,
	}, nil
}

// Names returns all known network names, sorted.
func (r *NetworkResolver) Names() []string {
	names := lo.Uniq(append(
		append(lo.Keys(r.crucibleConfig.Networks), lo.Keys(r.foundryConfig.RpcEndpoints)...),
		lo.Keys(builtinNetworks)...,
	))
	sort.Strings(names)
	return names
}

// chainIDFor fetches the chain ID for an RPC endpoint, with caching.
func (r *NetworkResolver) chainIDFor(networkName, rpcURL string) (uint64, error) {
	r.mu.RLock()
	if chainID, ok := r.cache.Networks[networkName]; ok {
		r.mu.RUnlock()
		return chainID, nil
	}
	if chainID, ok := r.cache.RPCs[rpcURL]; ok {
		r.mu.RUnlock()
		return chainID, nil
	}
	r.mu.RUnlock()

	chainID, err := r.fetchChainID(rpcURL)
	if err != nil {
		return 0, err
	}

	r.updateCache(networkName, rpcURL, chainID)
	return chainID, nil
}

// fetchChainID fetches the chain ID from an RPC endpoint
func (r *NetworkResolver) fetchChainID(rpcURL string) (uint64, error) {
	requestBody := `{"jsonrpc":"2.0","method":"eth_chainId","params":[],"id":1}`

	resp, err := r.httpClient.Post(rpcURL, "application/json", strings.NewReader(requestBody))
	if err != nil {
		return 0, fmt.Errorf("failed to make RPC request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	var rpcResponse struct {
		Result string `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &rpcResponse); err != nil {
		return 0, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if rpcResponse.Error != nil {
		return 0, fmt.Errorf("RPC error: %s", rpcResponse.Error.Message)
	}

	if rpcResponse.Result == "" {
		return 0, fmt.Errorf("empty chain ID response")
	}

	chainIDStr := strings.TrimPrefix(rpcResponse.Result, "0x")
	chainID, err := strconv.ParseUint(chainIDStr, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse chain ID: %w", err)
	}

	return chainID, nil
}

// getExplorerURL returns the explorer URL for a network
func (r *NetworkResolver) getExplorerURL(networkName string, chainID uint64) string {
	if etherscan, exists := r.foundryConfig.Etherscan[networkName]; exists && etherscan.URL != "" {
		return etherscan.URL
	}

	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 43114:
		return "https://snowtrace.io"
	case 56:
		return "https://bscscan.com"
	case 250:
		return "https://ftmscan.com"
	case 42220:
		return "https://celoscan.io"
	default:
		return ""
	}
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = &NetworkCache{
		Networks:  make(map[string]uint64),
		RPCs:      make(map[string]uint64),
		UpdatedAt: time.Now(),
	}

	cachePath := filepath.Join(r.dataDir, "cache", "chainIds.json")

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return
	}

	if err := json.Unmarshal(data, &r.cache); err != nil {
		r.cache = &NetworkCache{
			Networks:  make(map[string]uint64),
			RPCs:      make(map[string]uint64),
			UpdatedAt: time.Now(),
		}
	}
}

// updateCache updates the cache with new chain ID information
func (r *NetworkResolver) updateCache(networkName, rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Networks[networkName] = chainID
	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	// Cache is just for performance, write errors are ignored
	_ = r.saveCache()
}

// saveCache saves the cache to disk
func (r *NetworkResolver) saveCache() error {
	cacheDir := filepath.Join(r.dataDir, "cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(cacheDir, "chainIds.json"), data, 0644)
}
