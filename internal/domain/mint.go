package domain

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// MintStatus is the lifecycle state of one mint attempt
type MintStatus string

const (
	MintIdle                 MintStatus = "idle"
	MintSubmitting           MintStatus = "submitting"
	MintAwaitingConfirmation MintStatus = "awaiting_confirmation"
	MintConfirmed            MintStatus = "confirmed"
	MintFailed               MintStatus = "failed"
	// MintUnknown means the local wait was abandoned; the transaction may
	// still be included later.
	MintUnknown MintStatus = "unknown"
)

var mintTransitions = map[MintStatus][]MintStatus{
	MintIdle:                 {MintSubmitting},
	MintSubmitting:           {MintAwaitingConfirmation, MintFailed},
	MintAwaitingConfirmation: {MintConfirmed, MintFailed, MintUnknown},
}

// IsTerminal reports whether no further transition is allowed
func (s MintStatus) IsTerminal() bool {
	return s == MintConfirmed || s == MintFailed || s == MintUnknown
}

// InFlight reports whether the attempt still holds the provider
func (s MintStatus) InFlight() bool {
	return s == MintSubmitting || s == MintAwaitingConfirmation
}

// CanTransition reports whether from -> to is a legal step
func (s MintStatus) CanTransition(to MintStatus) bool {
	for _, next := range mintTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// MintRequest tracks a single mint attempt from submission to a terminal state
type MintRequest struct {
	ID          string
	Account     Account
	TxHash      common.Hash
	Status      MintStatus
	BlockNumber uint64
	Err         error
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewMintRequest creates an idle attempt for the given account
func NewMintRequest(id string, account Account, now time.Time) *MintRequest {
	return &MintRequest{
		ID:        id,
		Account:   account,
		Status:    MintIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the attempt to the next state
func (r *MintRequest) Transition(to MintStatus, now time.Time) error {
	if !r.Status.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, to)
	}
	r.Status = to
	r.UpdatedAt = now
	return nil
}

// SetTxHash records the hash. It can only be assigned once.
func (r *MintRequest) SetTxHash(hash common.Hash) error {
	if r.TxHash != (common.Hash{}) {
		return fmt.Errorf("%w: tx hash already assigned", ErrInvalidTransition)
	}
	r.TxHash = hash
	return nil
}

// Snapshot returns a copy safe to hand to callers
func (r *MintRequest) Snapshot() MintRequest {
	return *r
}
