package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/mintctl/internal/domain"
)

// SessionResult is the outcome of a session operation
type SessionResult struct {
	Account domain.Account
	Found   bool
	// Chain is set when the network validator ran as part of the operation
	Chain    *domain.ChainCheckResult
	ChainErr error
}

// SessionManager discovers and tracks the single active wallet account
type SessionManager struct {
	provider  WalletProvider
	validator *NetworkValidator
	state     *SessionState
	notify    NotificationSink
	log       *slog.Logger
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(
	provider WalletProvider,
	validator *NetworkValidator,
	state *SessionState,
	notify NotificationSink,
	log *slog.Logger,
) *SessionManager {
	return &SessionManager{
		provider:  provider,
		validator: validator,
		state:     state,
		notify:    notify,
		log:       log.With("component", "SessionManager"),
	}
}

// Account returns the active account and whether one is set
func (m *SessionManager) Account() (domain.Account, bool) {
	return m.state.Account()
}

// DetectExistingSession looks for an already authorized account without
// prompting the user. When one is found the required chain is checked.
func (m *SessionManager) DetectExistingSession(ctx context.Context) (*SessionResult, error) {
	if m.provider == nil {
		m.log.Warn("Make sure you have a wallet available")
		m.emit(ctx, domain.NotifyError, "Wallet not found", "Make sure you have a wallet available!")
		return &SessionResult{}, domain.ErrProviderAbsent
	}
	m.log.Debug("Wallet provider present")

	var accounts []string
	if err := m.provider.Request(ctx, &accounts, "eth_accounts"); err != nil {
		m.log.Error("Failed to list authorized accounts", "error", err)
		return &SessionResult{}, fmt.Errorf("failed to list authorized accounts: %w", err)
	}

	account, err := firstAccount(accounts)
	if err != nil {
		return &SessionResult{}, err
	}
	if account.IsZero() {
		m.log.Info("No authorized account found")
		return &SessionResult{}, nil
	}

	m.log.Info("Found an authorized account", "account", account)
	m.state.setAccount(account)

	result := &SessionResult{Account: account, Found: true}
	result.Chain, result.ChainErr = m.validator.EnsureRequiredChain(ctx)
	if result.ChainErr != nil {
		m.log.Warn("Chain check did not complete", "error", result.ChainErr)
	}
	return result, nil
}

// RequestConnection prompts the wallet for account access. On rejection the
// current account is left untouched.
func (m *SessionManager) RequestConnection(ctx context.Context) (*SessionResult, error) {
	if m.provider == nil {
		m.log.Warn("Get a wallet provider to connect")
		m.emit(ctx, domain.NotifyError, "Wallet not found", "Make sure you have a wallet available!")
		return &SessionResult{}, domain.ErrProviderAbsent
	}

	var accounts []string
	if err := m.provider.Request(ctx, &accounts, "eth_requestAccounts"); err != nil {
		m.log.Error("Connection request failed", "error", err)
		if errors.Is(err, domain.ErrUserRejected) {
			m.emit(ctx, domain.NotifyError, "Connection rejected", "The wallet connection request was rejected.")
			return &SessionResult{}, fmt.Errorf("connection request: %w", err)
		}
		m.emit(ctx, domain.NotifyError, "Connection failed", err.Error())
		return &SessionResult{}, fmt.Errorf("connection request failed: %w", err)
	}

	account, err := firstAccount(accounts)
	if err != nil {
		m.emit(ctx, domain.NotifyError, "Connection failed", err.Error())
		return &SessionResult{}, err
	}
	if account.IsZero() {
		m.emit(ctx, domain.NotifyError, "Connection failed", "The wallet returned no accounts.")
		return &SessionResult{}, fmt.Errorf("%w: wallet returned no accounts", domain.ErrNoAccount)
	}

	m.log.Info("Connected", "account", account)
	m.state.setAccount(account)
	m.emit(ctx, domain.NotifySuccess, "Wallet connected", fmt.Sprintf("Connected as %s", account.Short()))

	return &SessionResult{Account: account, Found: true}, nil
}

// Disconnect forgets the active account locally. Wallet permissions are
// owned by the wallet and are not revoked.
func (m *SessionManager) Disconnect(ctx context.Context) {
	account, ok := m.state.Account()
	if !ok {
		return
	}
	m.state.setAccount("")
	m.log.Info("Disconnected", "account", account)
	m.emit(ctx, domain.NotifyInfo, "Wallet disconnected", fmt.Sprintf("%s is no longer active", account.Short()))
}

// HandleAccountsChanged applies an external account change reported by the
// wallet. An empty list clears the session.
func (m *SessionManager) HandleAccountsChanged(ctx context.Context, accounts []string) (domain.Account, error) {
	account, err := firstAccount(accounts)
	if err != nil {
		return "", err
	}
	if account.IsZero() {
		m.Disconnect(ctx)
		return "", nil
	}

	previous, _ := m.state.Account()
	if previous != account {
		m.log.Info("Active account changed", "from", previous, "to", account)
		m.state.setAccount(account)
	}
	return account, nil
}

func firstAccount(accounts []string) (domain.Account, error) {
	if len(accounts) == 0 {
		return "", nil
	}
	account, err := domain.NewAccount(accounts[0])
	if err != nil {
		return "", fmt.Errorf("wallet returned %q: %w", accounts[0], err)
	}
	return account, nil
}

func (m *SessionManager) emit(ctx context.Context, kind domain.NotificationKind, title, detail string) {
	m.notify.Notify(ctx, domain.Notification{Kind: kind, Title: title, Detail: detail, Time: time.Now()})
}
