package domain

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintRequestLifecycle(t *testing.T) {
	now := time.Unix(1700000000, 0)

	t.Run("happy path", func(t *testing.T) {
		req := NewMintRequest("m1", "0xabc", now)
		assert.Equal(t, MintIdle, req.Status)

		require.NoError(t, req.Transition(MintSubmitting, now))
		assert.True(t, req.Status.InFlight())
		require.NoError(t, req.Transition(MintAwaitingConfirmation, now))
		require.NoError(t, req.Transition(MintConfirmed, now.Add(time.Second)))

		assert.True(t, req.Status.IsTerminal())
		assert.Equal(t, now.Add(time.Second), req.UpdatedAt)
	})

	t.Run("no state is skipped", func(t *testing.T) {
		req := NewMintRequest("m2", "0xabc", now)
		err := req.Transition(MintAwaitingConfirmation, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, MintIdle, req.Status)

		err = req.Transition(MintConfirmed, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("submission can fail", func(t *testing.T) {
		req := NewMintRequest("m3", "0xabc", now)
		require.NoError(t, req.Transition(MintSubmitting, now))
		require.NoError(t, req.Transition(MintFailed, now))
	})

	t.Run("terminal states are final", func(t *testing.T) {
		for _, terminal := range []MintStatus{MintConfirmed, MintFailed, MintUnknown} {
			req := &MintRequest{Status: terminal}
			for _, next := range []MintStatus{MintIdle, MintSubmitting, MintAwaitingConfirmation, MintConfirmed, MintFailed, MintUnknown} {
				assert.ErrorIs(t, req.Transition(next, now), ErrInvalidTransition, "%s -> %s", terminal, next)
			}
		}
	})

	t.Run("tx hash assigned once", func(t *testing.T) {
		req := NewMintRequest("m4", "0xabc", now)
		require.NoError(t, req.SetTxHash(common.HexToHash("0x01")))
		assert.ErrorIs(t, req.SetTxHash(common.HexToHash("0x02")), ErrInvalidTransition)
		assert.Equal(t, common.HexToHash("0x01"), req.TxHash)
	})
}

func TestMintedTokenIsImmutable(t *testing.T) {
	id := big.NewInt(5)
	md := &TokenMetadata{Name: "Epic", Attributes: []TokenAttribute{{TraitType: "color", Value: "red"}}}
	token := NewMintedToken(id, common.HexToHash("0xabc"), "payload", md, "ipfs://x")

	id.SetInt64(99)
	md.Name = "changed"
	md.Attributes[0].Value = "blue"

	assert.Equal(t, int64(5), token.TokenID().Int64())
	assert.Equal(t, "Epic", token.Name())
	assert.Equal(t, "red", token.Metadata().Attributes[0].Value)

	token.TokenID().SetInt64(7)
	assert.Equal(t, int64(5), token.TokenID().Int64())
}

func TestMintedTokenNameFallback(t *testing.T) {
	token := NewMintedToken(big.NewInt(3), common.Hash{}, "", nil, "")
	assert.Equal(t, "#3", token.Name())
	assert.Nil(t, token.Metadata())
}

func TestNewAccount(t *testing.T) {
	acct, err := NewAccount("0xAbCdEf0123456789aBcDeF0123456789abCDef01")
	require.NoError(t, err)
	assert.Equal(t, Account("0xabcdef0123456789abcdef0123456789abcdef01"), acct)
	assert.Equal(t, "0xabcd…ef01", acct.Short())

	_, err = NewAccount("not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestProviderErrorIs(t *testing.T) {
	rejected := &ProviderError{Code: CodeUserRejected, Message: "User rejected the request."}
	assert.ErrorIs(t, rejected, ErrUserRejected)
	assert.NotErrorIs(t, rejected, ErrProviderAbsent)

	disconnected := &ProviderError{Code: CodeDisconnected, Message: "disconnected"}
	assert.ErrorIs(t, disconnected, ErrProviderAbsent)

	code, ok := ProviderErrorCode(errWrap(rejected))
	assert.True(t, ok)
	assert.Equal(t, CodeUserRejected, code)

	assert.ErrorIs(t, ErrTransactionReverted, ErrSubmissionFailure)
}

func errWrap(err error) error {
	return &wrapped{err}
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }
