package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
)

// ProjectFileName is the optional per-project configuration file
const ProjectFileName = "mintctl.toml"

// loadEnvFiles loads .env files from the project root. Variables already set
// in the environment win.
func loadEnvFiles(projectRoot string) {
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
}

// loadProjectConfig reads mintctl.toml. A missing file yields nil, nil.
// String values may reference environment variables as ${VAR}.
func loadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	path := filepath.Join(projectRoot, ProjectFileName)

	var cfg config.ProjectConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}

	cfg.Network.RPCURL = os.ExpandEnv(cfg.Network.RPCURL)
	cfg.Network.RequiredChain = os.ExpandEnv(cfg.Network.RequiredChain)
	cfg.Contract.Address = os.ExpandEnv(cfg.Contract.Address)
	cfg.Mint.IPFSGateway = os.ExpandEnv(cfg.Mint.IPFSGateway)
	for name, entry := range cfg.Networks {
		entry.ExplorerURL = os.ExpandEnv(entry.ExplorerURL)
		entry.MarketplaceURL = os.ExpandEnv(entry.MarketplaceURL)
		cfg.Networks[name] = entry
	}

	return &cfg, nil
}
