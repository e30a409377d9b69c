package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// crucibleFileNames are probed in order; the first one found wins.
var crucibleFileNames = []string{"crucible.yaml", "crucible.yml"}

// loadCrucibleConfig loads the optional crucible.yaml project file.
// A missing file is not an error.
func loadCrucibleConfig(projectRoot string) (*CrucibleConfig, error) {
	for _, name := range crucibleFileNames {
		path := filepath.Join(projectRoot, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		cfg := &CrucibleConfig{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}

		// Expand ${VAR} references the same way foundry.toml endpoints are
		for name, entry := range cfg.Networks {
			entry.RPCURL = os.ExpandEnv(entry.RPCURL)
			cfg.Networks[name] = entry
		}

		return cfg, nil
	}

	return &CrucibleConfig{}, nil
}
