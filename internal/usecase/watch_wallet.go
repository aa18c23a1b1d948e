package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/mintctl/internal/domain"
)

// WatchWalletParams contains parameters for watching the wallet
type WatchWalletParams struct {
	// OnEvent is called after each reaction; may be nil
	OnEvent func(domain.WatchEvent)
}

// WatchWallet reacts to account and chain changes reported by the wallet and
// re-runs chain validation
type WatchWallet struct {
	provider  WalletProvider
	sessions  *SessionManager
	validator *NetworkValidator
	state     *SessionState
	log       *slog.Logger
}

// NewWatchWallet creates a new WatchWallet use case
func NewWatchWallet(
	provider WalletProvider,
	sessions *SessionManager,
	validator *NetworkValidator,
	state *SessionState,
	log *slog.Logger,
) *WatchWallet {
	return &WatchWallet{
		provider:  provider,
		sessions:  sessions,
		validator: validator,
		state:     state,
		log:       log.With("component", "WatchWallet"),
	}
}

// Run subscribes to accountsChanged and chainChanged and blocks until ctx is
// cancelled or a subscription fails
func (uc *WatchWallet) Run(ctx context.Context, params WatchWalletParams) error {
	if uc.provider == nil {
		return domain.ErrProviderAbsent
	}

	accountsCh := make(chan json.RawMessage, 4)
	accountsSub, err := uc.provider.Subscribe(ctx, ProviderEventAccountsChanged, accountsCh)
	if err != nil {
		return fmt.Errorf("failed to subscribe to account changes: %w", err)
	}
	defer accountsSub.Unsubscribe()

	chainCh := make(chan json.RawMessage, 4)
	chainSub, err := uc.provider.Subscribe(ctx, ProviderEventChainChanged, chainCh)
	if err != nil {
		return fmt.Errorf("failed to subscribe to chain changes: %w", err)
	}
	defer chainSub.Unsubscribe()

	uc.log.Info("Watching wallet for account and chain changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-accountsSub.Err():
			return subscriptionEnded(ctx, "account", err)
		case err := <-chainSub.Err():
			return subscriptionEnded(ctx, "chain", err)
		case raw := <-accountsCh:
			uc.report(params, uc.onAccounts(ctx, raw))
		case raw := <-chainCh:
			uc.report(params, uc.onChain(ctx, raw))
		}
	}
}

func (uc *WatchWallet) onAccounts(ctx context.Context, raw json.RawMessage) domain.WatchEvent {
	event := domain.WatchEvent{Kind: domain.WatchAccountsChanged}

	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		event.Err = fmt.Errorf("malformed accountsChanged payload: %w", err)
		return event
	}

	account, err := uc.sessions.HandleAccountsChanged(ctx, accounts)
	if err != nil {
		event.Err = err
		return event
	}
	event.Account = account
	if account.IsZero() {
		return event
	}

	event.Check, event.Err = uc.validator.EnsureRequiredChain(ctx)
	if event.Check != nil {
		event.ChainID = event.Check.Active
	}
	return event
}

func (uc *WatchWallet) onChain(ctx context.Context, raw json.RawMessage) domain.WatchEvent {
	event := domain.WatchEvent{Kind: domain.WatchChainChanged}

	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		event.Err = fmt.Errorf("malformed chainChanged payload: %w", err)
		return event
	}
	id, err := domain.ParseChainID(hex)
	if err != nil {
		event.Err = err
		return event
	}
	uc.state.setChainID(id)
	event.ChainID = id

	account, ok := uc.state.Account()
	event.Account = account
	if !ok {
		uc.log.Debug("Chain changed without an active account", "chainId", id)
		return event
	}

	event.Check, event.Err = uc.validator.EnsureRequiredChain(ctx)
	return event
}

func subscriptionEnded(ctx context.Context, name string, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	if err == nil {
		return fmt.Errorf("%s subscription closed", name)
	}
	return fmt.Errorf("%s subscription ended: %w", name, err)
}

func (uc *WatchWallet) report(params WatchWalletParams, event domain.WatchEvent) {
	if event.Err != nil {
		uc.log.Warn("Wallet change handling failed", "kind", event.Kind, "error", event.Err)
	}
	if params.OnEvent != nil {
		params.OnEvent(event)
	}
}
