package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
)

func TestEnsureRequiredChain(t *testing.T) {
	tests := []struct {
		name       string
		active     string
		required   domain.ChainID
		wantMatch  bool
		wantKind   domain.NotificationKind
		wantTitle  string
		wantSwitch bool
	}{
		{
			name:      "on the required chain",
			active:    "0xaa36a7",
			required:  sepoliaID,
			wantMatch: true,
			wantKind:  domain.NotifySuccess,
			wantTitle: "Correct network",
		},
		{
			name:      "hex case and padding are ignored",
			active:    "0x00AA36A7",
			required:  sepoliaID,
			wantMatch: true,
			wantKind:  domain.NotifySuccess,
			wantTitle: "Correct network",
		},
		{
			name:       "mainnet instead of sepolia",
			active:     "0x1",
			required:   sepoliaID,
			wantKind:   domain.NotifyError,
			wantTitle:  "Incorrect network",
			wantSwitch: true,
		},
		{
			name:       "sepolia instead of an unnamed chain",
			active:     "0xaa36a7",
			required:   domain.MustChainID("0x539"),
			wantKind:   domain.NotifyError,
			wantTitle:  "Incorrect network",
			wantSwitch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, connectedWallet(tt.active), func(cfg *config.RuntimeConfig) {
				cfg.RequiredChainID = tt.required
			})

			result, err := h.validator.EnsureRequiredChain(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatch, result.Matched)
			assert.Equal(t, tt.wantSwitch, result.SwitchRequested)
			assert.Equal(t, tt.required, result.Required)

			// Exactly one notification per invocation
			notes := h.notes.all()
			require.Len(t, notes, 1)
			assert.Equal(t, tt.wantKind, notes[0].Kind)
			assert.Equal(t, tt.wantTitle, notes[0].Title)

			switches := h.wallet.callsTo("wallet_switchEthereumChain")
			if tt.wantSwitch {
				require.Len(t, switches, 1)
				assert.Equal(t, []any{map[string]string{"chainId": tt.required.String()}}, switches[0].Params)
			} else {
				assert.Empty(t, switches)
			}
		})
	}
}

func TestEnsureRequiredChain_SwitchParams(t *testing.T) {
	h := newHarness(t, connectedWallet("0x1"))

	result, err := h.validator.EnsureRequiredChain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mainnetID, result.Active)
	assert.Equal(t, mainnetID, h.state.ChainID())

	assert.Equal(t, domain.NotifyError, h.notes.last().Kind)
	assert.Equal(t, "You are not connected to the sepolia network!", h.notes.last().Detail)

	switches := h.wallet.callsTo("wallet_switchEthereumChain")
	require.Len(t, switches, 1)
	assert.Equal(t, map[string]string{"chainId": "0xaa36a7"}, switches[0].Params[0])
}

func TestEnsureRequiredChain_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("switch rejected", func(t *testing.T) {
		h := newHarness(t, connectedWallet("0x1").
			fails("wallet_switchEthereumChain", &domain.ProviderError{Code: domain.CodeUserRejected, Message: "User rejected the request."}))

		result, err := h.validator.EnsureRequiredChain(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrWrongNetwork)
		assert.ErrorIs(t, err, domain.ErrUserRejected)
		assert.True(t, result.SwitchRequested)
		assert.Len(t, h.notes.all(), 1)
	})

	t.Run("unknown chain in the wallet", func(t *testing.T) {
		h := newHarness(t, connectedWallet("0x1").
			fails("wallet_switchEthereumChain", &domain.ProviderError{Code: domain.CodeUnrecognizedChain, Message: "Unrecognized chain ID"}))

		_, err := h.validator.EnsureRequiredChain(ctx)
		assert.ErrorIs(t, err, domain.ErrWrongNetwork)
		assert.ErrorContains(t, err, "add it to the wallet first")
	})

	t.Run("chain id unreadable", func(t *testing.T) {
		h := newHarness(t, connectedWallet("0x1").fails("eth_chainId", errors.New("connection refused")))

		result, err := h.validator.EnsureRequiredChain(ctx)
		assert.ErrorContains(t, err, "failed to read chain id")
		assert.False(t, result.SwitchRequested)
		require.Len(t, h.notes.all(), 1)
		assert.Equal(t, "Network check failed", h.notes.last().Title)
	})

	t.Run("no provider", func(t *testing.T) {
		h := newHarness(t, nil)

		_, err := h.validator.EnsureRequiredChain(ctx)
		assert.ErrorIs(t, err, domain.ErrProviderAbsent)
		assert.Len(t, h.notes.all(), 1)
	})
}

func TestEnsureRequiredChain_Revalidate(t *testing.T) {
	var switched atomic.Bool
	wallet := connectedWallet("0x1").
		on("eth_chainId", func([]any) (any, error) {
			if switched.Load() {
				return "0xaa36a7", nil
			}
			return "0x1", nil
		}).
		on("wallet_switchEthereumChain", func([]any) (any, error) {
			switched.Store(true)
			return nil, nil
		})

	h := newHarness(t, wallet, func(cfg *config.RuntimeConfig) {
		cfg.RevalidateAfterSwitch = true
	})

	result, err := h.validator.EnsureRequiredChain(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.True(t, result.SwitchRequested)
	assert.True(t, result.SwitchVerified)
	assert.Equal(t, sepoliaID, result.Active)
	assert.Equal(t, sepoliaID, h.state.ChainID())
	assert.Len(t, h.notes.all(), 1)
}

func TestEnsureRequiredChain_NoRevalidateByDefault(t *testing.T) {
	h := newHarness(t, connectedWallet("0x1"))

	result, err := h.validator.EnsureRequiredChain(context.Background())
	require.NoError(t, err)
	assert.False(t, result.SwitchVerified)
	assert.Len(t, h.wallet.callsTo("eth_chainId"), 1)
}
