package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// foundryTOML represents the raw foundry.toml structure
type foundryTOML struct {
	RpcEndpoints map[string]string            `toml:"rpc_endpoints"`
	Etherscan    map[string]map[string]string `toml:"etherscan"`
}

// loadFoundryConfig loads and parses foundry.toml
func loadFoundryConfig(projectRoot string) (*FoundryConfig, error) {
	// Load .env files first for variable expansion
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}

	foundryPath := filepath.Join(projectRoot, "foundry.toml")
	var raw foundryTOML

	if _, err := toml.DecodeFile(foundryPath, &raw); err != nil {
		if os.IsNotExist(err) {
			// A project without foundry.toml still works off crucible.yaml
			// and the built-in networks.
			return &FoundryConfig{
				RpcEndpoints: make(map[string]string),
				Etherscan:    make(map[string]EtherscanConfig),
			}, nil
		}
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	cfg := &FoundryConfig{
		RpcEndpoints: make(map[string]string),
		Etherscan:    make(map[string]EtherscanConfig),
	}

	// Expand ${VAR} references against the environment
	for name, url := range raw.RpcEndpoints {
		cfg.RpcEndpoints[name] = os.ExpandEnv(url)
	}

	for network, ethConfig := range raw.Etherscan {
		ec := EtherscanConfig{}
		if url, ok := ethConfig["url"]; ok {
			ec.URL = os.ExpandEnv(url)
		}
		if key, ok := ethConfig["key"]; ok {
			ec.Key = os.ExpandEnv(key)
		}
		cfg.Etherscan[network] = ec
	}

	return cfg, nil
}
