package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
)

// NetworkValidator checks that the wallet is on the required chain and asks
// it to switch when it is not
type NetworkValidator struct {
	provider WalletProvider
	networks NetworkRegistry
	state    *SessionState
	notify   NotificationSink
	cfg      *config.RuntimeConfig
	log      *slog.Logger
}

// NewNetworkValidator creates a new NetworkValidator
func NewNetworkValidator(
	provider WalletProvider,
	networks NetworkRegistry,
	state *SessionState,
	notify NotificationSink,
	cfg *config.RuntimeConfig,
	log *slog.Logger,
) *NetworkValidator {
	return &NetworkValidator{
		provider: provider,
		networks: networks,
		state:    state,
		notify:   notify,
		cfg:      cfg,
		log:      log.With("component", "NetworkValidator"),
	}
}

// RequiredChainID returns the configured chain id
func (v *NetworkValidator) RequiredChainID() domain.ChainID {
	return v.cfg.RequiredChainID
}

// EnsureRequiredChain compares the active chain with the required one. It
// emits exactly one notification per call and requests a switch only on a
// mismatch. The outcome of the switch is not awaited unless re-validation is
// enabled.
func (v *NetworkValidator) EnsureRequiredChain(ctx context.Context) (*domain.ChainCheckResult, error) {
	required := v.cfg.RequiredChainID
	result := &domain.ChainCheckResult{Required: required}

	if v.provider == nil {
		v.log.Warn("No wallet provider, skipping chain check")
		v.emit(ctx, domain.NotifyError, "Wallet not found", "Make sure you have a wallet available!")
		return result, domain.ErrProviderAbsent
	}

	active, err := v.readChainID(ctx)
	if err != nil {
		v.log.Error("Failed to read chain id", "error", err)
		v.emit(ctx, domain.NotifyError, "Network check failed", err.Error())
		return result, fmt.Errorf("failed to read chain id: %w", err)
	}
	result.Active = active
	v.state.setChainID(active)
	v.log.Info("Connected to chain", "chainId", active)

	if active.Equal(required) {
		result.Matched = true
		v.emit(ctx, domain.NotifySuccess, "Correct network",
			fmt.Sprintf("You are connected to the %s network!", v.label(required)))
		return result, nil
	}

	v.emit(ctx, domain.NotifyError, "Incorrect network",
		fmt.Sprintf("You are not connected to the %s network!", v.label(required)))

	result.SwitchRequested = true
	if err := v.provider.Request(ctx, nil, "wallet_switchEthereumChain", map[string]string{"chainId": required.String()}); err != nil {
		v.log.Error("Network switch request failed", "required", required, "error", err)
		if code, ok := domain.ProviderErrorCode(err); ok && code == domain.CodeUnrecognizedChain {
			return result, fmt.Errorf("%w: wallet does not know chain %s, add it to the wallet first: %w", domain.ErrWrongNetwork, required, err)
		}
		return result, fmt.Errorf("%w: switch to %s failed: %w", domain.ErrWrongNetwork, required, err)
	}

	if v.cfg.RevalidateAfterSwitch {
		after, err := v.readChainID(ctx)
		if err != nil {
			v.log.Warn("Failed to re-read chain id after switch", "error", err)
			return result, nil
		}
		v.state.setChainID(after)
		result.Active = after
		result.SwitchVerified = after.Equal(required)
		v.log.Debug("Re-validated chain after switch", "chainId", after, "verified", result.SwitchVerified)
	}

	return result, nil
}

func (v *NetworkValidator) readChainID(ctx context.Context) (domain.ChainID, error) {
	var raw string
	if err := v.provider.Request(ctx, &raw, "eth_chainId"); err != nil {
		return "", err
	}
	return domain.ParseChainID(raw)
}

func (v *NetworkValidator) label(id domain.ChainID) string {
	if v.networks != nil {
		if network, ok := v.networks.ByChainID(id); ok {
			return network.Name
		}
	}
	return id.String()
}

func (v *NetworkValidator) emit(ctx context.Context, kind domain.NotificationKind, title, detail string) {
	v.notify.Notify(ctx, domain.Notification{Kind: kind, Title: title, Detail: detail, Time: time.Now()})
}
