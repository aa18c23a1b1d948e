package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/mintctl/internal/adapters/network"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:           projectRoot,
		DataDir:               filepath.Join(projectRoot, ".mintctl"),
		RPCURL:                v.GetString("rpc_url"),
		RevalidateAfterSwitch: v.GetBool("revalidate_after_switch"),
		Contract: config.ContractConfig{
			ABIPath:     v.GetString("contract_abi"),
			MintMethod:  v.GetString("mint_method"),
			CountMethod: v.GetString("count_method"),
			MintEvent:   v.GetString("mint_event"),
			TotalSupply: v.GetUint64("total_supply"),
		},
		Resolver:            config.ResolverStrategy(strings.ToLower(v.GetString("resolver"))),
		ConfirmationTimeout: v.GetDuration("confirmation_timeout"),
		PollInterval:        v.GetDuration("poll_interval"),
		WatchInterval:       v.GetDuration("watch_interval"),
		IPFSGateway:         v.GetString("ipfs_gateway"),
		Debug:               v.GetBool("debug"),
		NonInteractive:      v.GetBool("non_interactive"),
		JSON:                v.GetBool("json"),
		Yes:                 v.GetBool("yes"),
		Timeout:             v.GetDuration("timeout"),
		ConfigSource:        v.GetString("config_source"),
	}

	switch cfg.Resolver {
	case config.ResolverEvent, config.ResolverPoll:
	default:
		return nil, fmt.Errorf("invalid resolver %q: expected %q or %q", cfg.Resolver, config.ResolverEvent, config.ResolverPoll)
	}

	for name, d := range map[string]time.Duration{
		"confirmation_timeout": cfg.ConfirmationTimeout,
		"poll_interval":        cfg.PollInterval,
		"watch_interval":       cfg.WatchInterval,
	} {
		if d <= 0 {
			return nil, fmt.Errorf("invalid %s %q: must be a positive duration", name, v.GetString(name))
		}
	}

	address := v.GetString("contract_address")
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid contract address %q: %w", address, domain.ErrInvalidAddress)
	}
	cfg.Contract.Address = common.HexToAddress(address)

	networks, err := customNetworks(v)
	if err != nil {
		return nil, err
	}
	cfg.Networks = networks

	registry := network.NewResolverFromConfig(cfg)
	required := v.GetString("required_chain")
	requiredNetwork, err := registry.Resolve(required)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve required chain: %w", err)
	}
	cfg.RequiredChainID = requiredNetwork.ChainID
	if known, ok := registry.ByChainID(requiredNetwork.ChainID); ok {
		cfg.RequiredNetwork = known
	}

	return cfg, nil
}

// customNetworks decodes the [networks.<name>] entries carried over from
// mintctl.toml
func customNetworks(v *viper.Viper) (map[string]*domain.Network, error) {
	raw, ok := v.Get("networks").(map[string]config.CustomNetworkEntry)
	if !ok || len(raw) == 0 {
		return nil, nil
	}

	networks := make(map[string]*domain.Network, len(raw))
	for name, entry := range raw {
		id, err := domain.ParseChainID(entry.ChainID)
		if err != nil {
			return nil, fmt.Errorf("invalid chain_id for network %s: %w", name, err)
		}
		networks[name] = &domain.Network{
			Name:           name,
			ChainID:        id,
			ExplorerURL:    entry.ExplorerURL,
			MarketplaceURL: entry.MarketplaceURL,
			Testnet:        entry.Testnet,
		}
	}
	return networks, nil
}

// FindProjectRoot walks up from the current directory looking for
// mintctl.toml and falls back to the current directory
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance. Precedence is flags,
// environment, .mintctl/config.local.json, mintctl.toml, then defaults.
func SetupViper(projectRoot string, cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()

	loadEnvFiles(projectRoot)

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".mintctl"))

	// Set up environment variables
	v.SetEnvPrefix("MINTCTL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("project_root", projectRoot)
	v.SetDefault("rpc_url", "")
	v.SetDefault("required_chain", config.DefaultRequiredChain)
	v.SetDefault("revalidate_after_switch", false)
	v.SetDefault("contract_address", config.DefaultContractAddress)
	v.SetDefault("contract_abi", "")
	v.SetDefault("mint_method", config.DefaultMintMethod)
	v.SetDefault("count_method", config.DefaultCountMethod)
	v.SetDefault("mint_event", config.DefaultMintEvent)
	v.SetDefault("total_supply", config.DefaultTotalSupply)
	v.SetDefault("resolver", string(config.ResolverEvent))
	v.SetDefault("confirmation_timeout", config.DefaultConfirmationTimeout.String())
	v.SetDefault("poll_interval", config.DefaultPollInterval.String())
	v.SetDefault("watch_interval", config.DefaultWatchInterval.String())
	v.SetDefault("ipfs_gateway", config.DefaultIPFSGateway)
	v.SetDefault("timeout", "30s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)
	v.SetDefault("yes", false)

	// mintctl.toml values sit between the defaults and everything else
	project, err := loadProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	if project != nil {
		applyProjectDefaults(v, project)
		v.SetDefault("config_source", ProjectFileName)
	}

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v, nil
}

func applyProjectDefaults(v *viper.Viper, p *config.ProjectConfig) {
	setIf := func(key, value string) {
		if value != "" {
			v.SetDefault(key, value)
		}
	}

	setIf("rpc_url", p.Network.RPCURL)
	setIf("required_chain", p.Network.RequiredChain)
	if p.Network.RevalidateAfterSwitch {
		v.SetDefault("revalidate_after_switch", true)
	}

	setIf("contract_address", p.Contract.Address)
	setIf("contract_abi", p.Contract.ABI)
	setIf("mint_method", p.Contract.MintMethod)
	setIf("count_method", p.Contract.CountMethod)
	setIf("mint_event", p.Contract.MintEvent)
	if p.Contract.TotalSupply > 0 {
		v.SetDefault("total_supply", p.Contract.TotalSupply)
	}

	setIf("resolver", p.Mint.Resolver)
	setIf("confirmation_timeout", p.Mint.ConfirmationTimeout)
	setIf("poll_interval", p.Mint.PollInterval)
	setIf("watch_interval", p.Mint.WatchInterval)
	setIf("ipfs_gateway", p.Mint.IPFSGateway)

	if len(p.Networks) > 0 {
		v.SetDefault("networks", p.Networks)
	}
}
