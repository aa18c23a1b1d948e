package domain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Account is the address of the externally-owned account the wallet exposes.
// The zero value means no account is active.
type Account string

// NewAccount validates and normalizes an address returned by the wallet
func NewAccount(address string) (Account, error) {
	if !common.IsHexAddress(address) {
		return "", ErrInvalidAddress
	}
	return Account(strings.ToLower(common.HexToAddress(address).Hex())), nil
}

// IsZero reports whether no account is set
func (a Account) IsZero() bool {
	return a == ""
}

// Address returns the account as a go-ethereum address
func (a Account) Address() common.Address {
	return common.HexToAddress(string(a))
}

func (a Account) String() string {
	return string(a)
}

// Short returns an abbreviated form like 0x1234…abcd for display
func (a Account) Short() string {
	s := string(a)
	if len(s) <= 12 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}

// Network describes a known chain
type Network struct {
	Name           string  `json:"name" yaml:"name"`
	ChainID        ChainID `json:"chainId" yaml:"chainId"`
	ExplorerURL    string  `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
	MarketplaceURL string  `json:"marketplaceUrl,omitempty" yaml:"marketplaceUrl,omitempty"`
	Testnet        bool    `json:"testnet" yaml:"testnet"`
}

// TokenMetadata is the JSON document carried by a mint event payload
type TokenMetadata struct {
	Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string           `json:"image,omitempty" yaml:"image,omitempty"`
	Attributes  []TokenAttribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// TokenAttribute is one entry of the metadata attributes list
type TokenAttribute struct {
	TraitType string `json:"trait_type" yaml:"traitType"`
	Value     any    `json:"value" yaml:"value"`
}

// MintedToken is a token observed after a confirmed mint. It is never mutated
// after construction.
type MintedToken struct {
	tokenID  *big.Int
	txHash   common.Hash
	payload  string
	metadata *TokenMetadata
	imageRef string
}

// NewMintedToken builds a token. metadata may be nil when the resolver only
// learned the id.
func NewMintedToken(tokenID *big.Int, txHash common.Hash, payload string, metadata *TokenMetadata, imageRef string) *MintedToken {
	var md *TokenMetadata
	if metadata != nil {
		cp := *metadata
		cp.Attributes = append([]TokenAttribute(nil), metadata.Attributes...)
		md = &cp
	}
	return &MintedToken{
		tokenID:  new(big.Int).Set(tokenID),
		txHash:   txHash,
		payload:  payload,
		metadata: md,
		imageRef: imageRef,
	}
}

// TokenID returns a copy of the token id
func (t *MintedToken) TokenID() *big.Int {
	return new(big.Int).Set(t.tokenID)
}

func (t *MintedToken) TxHash() common.Hash { return t.txHash }
func (t *MintedToken) Payload() string     { return t.payload }
func (t *MintedToken) ImageRef() string    { return t.imageRef }

// Metadata returns a copy of the decoded metadata, or nil
func (t *MintedToken) Metadata() *TokenMetadata {
	if t.metadata == nil {
		return nil
	}
	cp := *t.metadata
	cp.Attributes = append([]TokenAttribute(nil), t.metadata.Attributes...)
	return &cp
}

// Name returns the metadata name, falling back to the token id
func (t *MintedToken) Name() string {
	if t.metadata != nil && t.metadata.Name != "" {
		return t.metadata.Name
	}
	return "#" + t.tokenID.String()
}
