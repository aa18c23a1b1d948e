package usecase

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
)

// SessionStatus is a read-only snapshot of the session
type SessionStatus struct {
	ProviderPresent bool
	Account         domain.Account
	ActiveChainID   domain.ChainID
	RequiredChainID domain.ChainID
	RequiredNetwork *domain.Network
	ChainMatched    bool
	Contract        common.Address
	Resolver        config.ResolverStrategy
	MintCount       uint64
	TotalSupply     uint64
	// MintedSoFar is read from the contract; nil when unavailable
	MintedSoFar *uint64
	LatestToken *domain.MintedToken
	LastAttempt *domain.MintRequest
}

// ShowStatus assembles a session snapshot for display
type ShowStatus struct {
	provider WalletProvider
	contract MintContract
	state    *SessionState
	cfg      *config.RuntimeConfig
	log      *slog.Logger
}

// NewShowStatus creates a new ShowStatus use case
func NewShowStatus(provider WalletProvider, contract MintContract, state *SessionState, cfg *config.RuntimeConfig, log *slog.Logger) *ShowStatus {
	return &ShowStatus{
		provider: provider,
		contract: contract,
		state:    state,
		cfg:      cfg,
		log:      log.With("component", "ShowStatus"),
	}
}

// Run executes the use case. Provider reads are best effort.
func (uc *ShowStatus) Run(ctx context.Context) (*SessionStatus, error) {
	account, _ := uc.state.Account()
	status := &SessionStatus{
		ProviderPresent: uc.provider != nil,
		Account:         account,
		ActiveChainID:   uc.state.ChainID(),
		RequiredChainID: uc.cfg.RequiredChainID,
		RequiredNetwork: uc.cfg.RequiredNetwork,
		Contract:        uc.contract.Address(),
		Resolver:        uc.cfg.Resolver,
		MintCount:       uc.state.MintCount(),
		TotalSupply:     uc.cfg.Contract.TotalSupply,
		LatestToken:     uc.state.LatestToken(),
	}
	if last, ok := uc.state.LastAttempt(); ok {
		status.LastAttempt = &last
	}

	if uc.provider == nil {
		return status, nil
	}

	// A fresh process has no session yet; peek at authorized accounts
	// without adopting them
	if status.Account.IsZero() {
		var accounts []string
		if err := uc.provider.Request(ctx, &accounts, "eth_accounts"); err != nil {
			uc.log.Debug("Failed to list authorized accounts", "error", err)
		} else if account, err := firstAccount(accounts); err == nil {
			status.Account = account
		}
	}

	if status.ActiveChainID == "" {
		var raw string
		if err := uc.provider.Request(ctx, &raw, "eth_chainId"); err != nil {
			uc.log.Debug("Failed to read chain id", "error", err)
		} else if id, err := domain.ParseChainID(raw); err == nil {
			status.ActiveChainID = id
		}
	}
	status.ChainMatched = status.ActiveChainID.Equal(status.RequiredChainID)

	// Only query the contract on the chain it lives on
	if status.ChainMatched {
		count, err := ReadMintedCount(ctx, uc.provider, uc.contract, nil)
		if err != nil {
			uc.log.Debug("Failed to read minted count", "error", err)
		} else if count.IsUint64() {
			n := count.Uint64()
			status.MintedSoFar = &n
		}
	}

	return status, nil
}
