package config

// ProjectConfig represents the optional mintctl.toml project file
type ProjectConfig struct {
	Network  NetworkSection                `toml:"network"`
	Contract ContractSection               `toml:"contract"`
	Mint     MintSection                   `toml:"mint"`
	Networks map[string]CustomNetworkEntry `toml:"networks"`
}

// NetworkSection is the [network] table
type NetworkSection struct {
	RequiredChain         string `toml:"required_chain"`
	RPCURL                string `toml:"rpc_url"`
	RevalidateAfterSwitch bool   `toml:"revalidate_after_switch"`
}

// ContractSection is the [contract] table
type ContractSection struct {
	Address     string `toml:"address"`
	ABI         string `toml:"abi"`
	MintMethod  string `toml:"mint_method"`
	CountMethod string `toml:"count_method"`
	MintEvent   string `toml:"mint_event"`
	TotalSupply uint64 `toml:"total_supply"`
}

// MintSection is the [mint] table
type MintSection struct {
	Resolver            string `toml:"resolver"`
	ConfirmationTimeout string `toml:"confirmation_timeout"`
	PollInterval        string `toml:"poll_interval"`
	WatchInterval       string `toml:"watch_interval"`
	IPFSGateway         string `toml:"ipfs_gateway"`
}

// CustomNetworkEntry is a [networks.<name>] table
type CustomNetworkEntry struct {
	ChainID        string `toml:"chain_id"`
	ExplorerURL    string `toml:"explorer_url"`
	MarketplaceURL string `toml:"marketplace_url"`
	Testnet        bool   `toml:"testnet"`
}
