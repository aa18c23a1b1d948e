package network

import (
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// Resolver handles network lookup by name or chain id
type Resolver struct {
	networks      map[string]*domain.Network
	chainIDLookup map[domain.ChainID]string // chainID -> preferred network name
}

// NewResolver creates a resolver seeded with well-known networks
func NewResolver() *Resolver {
	r := &Resolver{
		networks:      make(map[string]*domain.Network),
		chainIDLookup: make(map[domain.ChainID]string),
	}

	r.initializeDefaultNetworks()

	return r
}

// NewResolverFromConfig adds the networks declared in the project file
func NewResolverFromConfig(cfg *config.RuntimeConfig) *Resolver {
	r := NewResolver()
	r.LoadNetworks(cfg.Networks)
	return r
}

// initializeDefaultNetworks sets up well-known networks
func (r *Resolver) initializeDefaultNetworks() {
	defaultNetworks := []domain.Network{
		{ChainID: domain.ChainIDFromUint64(1), Name: "mainnet", ExplorerURL: "https://etherscan.io", MarketplaceURL: "https://opensea.io/assets/ethereum"},
		{ChainID: domain.ChainIDFromUint64(11155111), Name: "sepolia", ExplorerURL: "https://sepolia.etherscan.io", MarketplaceURL: "https://testnets.opensea.io/assets/sepolia", Testnet: true},
		{ChainID: domain.ChainIDFromUint64(17000), Name: "holesky", ExplorerURL: "https://holesky.etherscan.io", Testnet: true},
		{ChainID: domain.ChainIDFromUint64(10), Name: "optimism", ExplorerURL: "https://optimistic.etherscan.io", MarketplaceURL: "https://opensea.io/assets/optimism"},
		{ChainID: domain.ChainIDFromUint64(42161), Name: "arbitrum", ExplorerURL: "https://arbiscan.io", MarketplaceURL: "https://opensea.io/assets/arbitrum"},
		{ChainID: domain.ChainIDFromUint64(137), Name: "polygon", ExplorerURL: "https://polygonscan.com", MarketplaceURL: "https://opensea.io/assets/matic"},
		{ChainID: domain.ChainIDFromUint64(80002), Name: "amoy", ExplorerURL: "https://amoy.polygonscan.com", MarketplaceURL: "https://testnets.opensea.io/assets/amoy", Testnet: true},
		{ChainID: domain.ChainIDFromUint64(8453), Name: "base", ExplorerURL: "https://basescan.org", MarketplaceURL: "https://opensea.io/assets/base"},
		{ChainID: domain.ChainIDFromUint64(84532), Name: "base-sepolia", ExplorerURL: "https://sepolia.basescan.org", MarketplaceURL: "https://testnets.opensea.io/assets/base_sepolia", Testnet: true},
		{ChainID: domain.ChainIDFromUint64(43114), Name: "avalanche", ExplorerURL: "https://snowtrace.io", MarketplaceURL: "https://opensea.io/assets/avalanche"},
		{ChainID: domain.ChainIDFromUint64(56), Name: "bsc", ExplorerURL: "https://bscscan.com", MarketplaceURL: "https://opensea.io/assets/bsc"},
		{ChainID: domain.ChainIDFromUint64(31337), Name: "anvil", Testnet: true},
	}

	for _, network := range defaultNetworks {
		r.addNetwork(&network)
	}
}

// addNetwork adds a network; a later entry for the same chain id becomes
// the preferred name
func (r *Resolver) addNetwork(network *domain.Network) {
	r.networks[strings.ToLower(network.Name)] = network
	r.chainIDLookup[network.ChainID] = strings.ToLower(network.Name)
}

// LoadNetworks loads additional network configurations
func (r *Resolver) LoadNetworks(networks map[string]*domain.Network) {
	// Sorted so the preferred name for a shared chain id is stable
	names := lo.Keys(networks)
	slices.Sort(names)
	for _, name := range names {
		network := *networks[name]
		if network.Name == "" {
			network.Name = name
		}
		r.addNetwork(&network)
	}
}

// Resolve finds a network by name, hex chain id or decimal chain id. Unknown
// chain ids yield an ad-hoc network; unknown names are an error carrying
// suggestions.
func (r *Resolver) Resolve(input string) (*domain.Network, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: network not specified", domain.ErrUnknownNetwork)
	}

	if network, ok := r.networks[strings.ToLower(input)]; ok {
		return network, nil
	}

	if id, err := domain.ParseChainID(input); err == nil {
		if network, ok := r.ByChainID(id); ok {
			return network, nil
		}
		return &domain.Network{
			Name:    fmt.Sprintf("chain-%s", id.Decimal()),
			ChainID: id,
		}, nil
	}

	if suggestions := r.Suggest(input); len(suggestions) > 0 {
		return nil, fmt.Errorf("%w: %s (did you mean %s?)", domain.ErrUnknownNetwork, input, strings.Join(suggestions, ", "))
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownNetwork, input)
}

// maxSuggestDistance bounds the edit distance of typo suggestions
const maxSuggestDistance = 2

// Suggest returns up to three known names closest to input. Subsequence
// matches rank first; typos such as swapped letters fall back to edit
// distance.
func (r *Resolver) Suggest(input string) []string {
	input = strings.ToLower(input)
	names := lo.Keys(r.networks)
	slices.Sort(names)

	if matches := fuzzy.Find(input, names); len(matches) > 0 {
		return lo.Map(lo.Slice(matches, 0, 3), func(m fuzzy.Match, _ int) string {
			return m.Str
		})
	}

	distances := lo.SliceToMap(names, func(name string) (string, int) {
		return name, levenshtein.ComputeDistance(input, name)
	})
	nearby := lo.Filter(names, func(name string, _ int) bool {
		return distances[name] <= maxSuggestDistance
	})
	slices.SortStableFunc(nearby, func(a, b string) int {
		return distances[a] - distances[b]
	})
	return lo.Slice(nearby, 0, 3)
}

// ByChainID returns the preferred network for a chain id
func (r *Resolver) ByChainID(id domain.ChainID) (*domain.Network, bool) {
	canonical, err := domain.ParseChainID(string(id))
	if err != nil {
		return nil, false
	}
	name, ok := r.chainIDLookup[canonical]
	if !ok {
		return nil, false
	}
	return r.networks[name], true
}

// List returns one network per chain id ordered by chain id
func (r *Resolver) List() []*domain.Network {
	networks := lo.Map(lo.Values(r.chainIDLookup), func(name string, _ int) *domain.Network {
		return r.networks[name]
	})
	slices.SortFunc(networks, func(a, b *domain.Network) int {
		ai, bi := a.ChainID.Uint64(), b.ChainID.Uint64()
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return networks
}

// ExplorerTxURL links a transaction on the network's explorer; empty when
// the network has none
func (r *Resolver) ExplorerTxURL(id domain.ChainID, hash common.Hash) string {
	network, ok := r.ByChainID(id)
	if !ok || network.ExplorerURL == "" {
		return ""
	}
	return strings.TrimRight(network.ExplorerURL, "/") + "/tx/" + hash.Hex()
}

// MarketplaceTokenURL links a token on the network's marketplace; empty when
// the network has none
func (r *Resolver) MarketplaceTokenURL(id domain.ChainID, contract common.Address, tokenID *big.Int) string {
	network, ok := r.ByChainID(id)
	if !ok || network.MarketplaceURL == "" || tokenID == nil {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(network.MarketplaceURL, "/"), contract.Hex(), tokenID.String())
}

var _ usecase.NetworkRegistry = (*Resolver)(nil)
