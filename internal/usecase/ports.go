package usecase

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
)

// Provider events delivered through WalletProvider.Subscribe
const (
	ProviderEventAccountsChanged = "accountsChanged"
	ProviderEventChainChanged    = "chainChanged"
)

// WalletProvider is the injected wallet capability. It mirrors the EIP-1193
// request/event surface. A nil WalletProvider means no wallet is present.
type WalletProvider interface {
	// Request sends one JSON-RPC request and decodes the result into result
	Request(ctx context.Context, result any, method string, params ...any) error
	// Subscribe delivers raw payloads of a provider event (accountsChanged, chainChanged)
	Subscribe(ctx context.Context, event string, ch chan<- json.RawMessage) (ethereum.Subscription, error)
	// SubscribeLogs delivers contract logs matching the query
	SubscribeLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
}

// NotificationSink receives user-facing status messages
type NotificationSink interface {
	Notify(ctx context.Context, n domain.Notification)
}

// MintContract describes the contract entry points used by the mint flow
type MintContract interface {
	Address() common.Address
	PackMint() ([]byte, error)
	PackCount() ([]byte, error)
	UnpackCount(data []byte) (*big.Int, error)
	MintEventID() common.Hash
	UnpackMintEvent(log *types.Log) (*domain.MintEvent, error)
}

// MetadataDecoder turns a mint event payload into token metadata
type MetadataDecoder interface {
	// Decode returns the metadata and the resolved image reference
	Decode(payload string) (*domain.TokenMetadata, string, error)
}

// MintedTokenResolver recovers the minted token once a mint is confirmed
type MintedTokenResolver interface {
	Strategy() config.ResolverStrategy
	Resolve(ctx context.Context, req domain.MintRequest, receipt *types.Receipt) (*domain.MintedToken, error)
}

// NetworkRegistry knows the networks the client can name and link to
type NetworkRegistry interface {
	ByChainID(id domain.ChainID) (*domain.Network, bool)
	Resolve(input string) (*domain.Network, error)
	List() []*domain.Network
	ExplorerTxURL(id domain.ChainID, hash common.Hash) string
	MarketplaceTokenURL(id domain.ChainID, contract common.Address, tokenID *big.Int) string
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// Confirmer asks the user to approve an action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// NetworkSelector lets the user pick a network
type NetworkSelector interface {
	SelectNetwork(ctx context.Context, networks []*domain.Network, prompt string) (*domain.Network, error)
}
