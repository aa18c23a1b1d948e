package config

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/mintctl/internal/domain"
)

// ResolverStrategy selects how a confirmed mint is turned into a token
type ResolverStrategy string

const (
	// ResolverEvent decodes the contract's mint event
	ResolverEvent ResolverStrategy = "event"
	// ResolverPoll reads the minted count and derives id = count - 1
	ResolverPoll ResolverStrategy = "poll"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Wallet provider endpoint; empty means no provider is available
	RPCURL string

	// Network requirements
	RequiredChainID       domain.ChainID
	RequiredNetwork       *domain.Network // nil when the chain id is not a known network
	RevalidateAfterSwitch bool

	// Contract settings
	Contract ContractConfig

	// Mint settings
	Resolver            ResolverStrategy
	ConfirmationTimeout time.Duration
	PollInterval        time.Duration
	WatchInterval       time.Duration
	IPFSGateway         string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Yes            bool // Skip confirmation prompts
	Timeout        time.Duration

	// Config source tracking
	ConfigSource string // "mintctl.toml" or "" when no project file was found

	// Extra networks declared in the project file
	Networks map[string]*domain.Network
}

// ContractConfig describes the mint contract's interface
type ContractConfig struct {
	Address     common.Address
	ABIPath     string // artifact JSON; empty uses the embedded EpicNFT ABI
	MintMethod  string
	CountMethod string
	MintEvent   string
	TotalSupply uint64 // display-only cap
}

// Defaults applied when neither flags, env nor files set a value
const (
	DefaultRequiredChain       = "sepolia"
	DefaultContractAddress     = "0x712a7bF3d4EF3f7672cb508cCD65557Bf363FA99"
	DefaultMintMethod          = "makeAnEpicNFT"
	DefaultCountMethod         = "getTotalNFTsMintedSoFar"
	DefaultMintEvent           = "NewEpicNFTMinted"
	DefaultTotalSupply         = 50
	DefaultConfirmationTimeout = 5 * time.Minute
	DefaultPollInterval        = 2 * time.Second
	DefaultWatchInterval       = 4 * time.Second
	DefaultIPFSGateway         = "https://ipfs.io/ipfs/"
)
