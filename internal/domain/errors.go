package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for session and mint operations
var (
	// ErrProviderAbsent is returned when no wallet provider is available
	ErrProviderAbsent = errors.New("wallet provider not found")

	// ErrUserRejected is returned when the user declines a wallet prompt
	ErrUserRejected = errors.New("user rejected the request")

	// ErrWrongNetwork is returned when the active chain is not the required one
	ErrWrongNetwork = errors.New("wrong network")

	// ErrSubmissionFailure is returned when the network refuses a transaction
	ErrSubmissionFailure = errors.New("transaction submission failed")

	// ErrDecodeFailure is returned when a mint event payload cannot be decoded
	ErrDecodeFailure = errors.New("failed to decode mint event")

	// ErrNoAccount is returned when an operation needs a connected account
	ErrNoAccount = errors.New("no connected account")

	// ErrMintInProgress is returned when a mint is already awaiting confirmation
	ErrMintInProgress = errors.New("a mint is already in progress")

	// ErrConfirmationTimeout is returned when the local wait for inclusion expires
	ErrConfirmationTimeout = errors.New("timed out waiting for confirmation")

	// ErrTransactionReverted is returned when a mined transaction has status 0
	ErrTransactionReverted = fmt.Errorf("%w: transaction reverted", ErrSubmissionFailure)

	// ErrInvalidChainID is returned when a chain ID is invalid
	ErrInvalidChainID = errors.New("invalid chain ID")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidTransition is returned on an illegal mint status change
	ErrInvalidTransition = errors.New("invalid mint status transition")

	// ErrUnknownNetwork is returned when a network name is not registered
	ErrUnknownNetwork = errors.New("unknown network")
)

// EIP-1193 and JSON-RPC error codes returned by wallet providers
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupportedMethod = 4200
	CodeDisconnected      = 4900
	CodeChainDisconnected = 4901
	CodeUnrecognizedChain = 4902
	CodeInvalidInput      = -32000
	CodeMethodNotFound    = -32601
)

// ProviderError is an error object returned by the wallet provider
type ProviderError struct {
	Code    int
	Message string
	Data    any
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// Is maps provider codes onto the sentinel taxonomy
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrUserRejected:
		return e.Code == CodeUserRejected
	case ErrProviderAbsent:
		return e.Code == CodeDisconnected || e.Code == CodeChainDisconnected
	}
	return false
}

// ProviderErrorCode extracts the provider code from an error chain
func ProviderErrorCode(err error) (int, bool) {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Code, true
	}
	return 0, false
}
