package domain

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ChainID is the hex-encoded chain identifier reported by eth_chainId.
// Values are kept in canonical form: lower-case, 0x prefix, no leading zeros.
type ChainID string

// ParseChainID accepts a hex (0x-prefixed) or decimal chain id
func ParseChainID(s string) (ChainID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidChainID)
	}

	digits, base := s, 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits, base = s[2:], 16
	}
	// SetString accepts a sign; chain ids are bare digits
	if digits == "" || strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		return "", fmt.Errorf("%w: %q", ErrInvalidChainID, s)
	}

	n := new(big.Int)
	_, ok := n.SetString(digits, base)
	if !ok || n.Sign() < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidChainID, s)
	}

	return ChainID("0x" + n.Text(16)), nil
}

// MustChainID is ParseChainID for constants
func MustChainID(s string) ChainID {
	id, err := ParseChainID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// ChainIDFromUint64 converts a numeric chain id
func ChainIDFromUint64(n uint64) ChainID {
	return ChainID("0x" + strconv.FormatUint(n, 16))
}

// Equal compares two chain ids strictly after canonicalisation
func (c ChainID) Equal(other ChainID) bool {
	a, errA := ParseChainID(string(c))
	b, errB := ParseChainID(string(other))
	if errA != nil || errB != nil {
		return false
	}
	return a == b
}

// Uint64 returns the numeric value, or 0 if it does not fit
func (c ChainID) Uint64() uint64 {
	n, ok := new(big.Int).SetString(strings.TrimPrefix(string(c), "0x"), 16)
	if !ok || !n.IsUint64() {
		return 0
	}
	return n.Uint64()
}

// Decimal renders the chain id in base 10, e.g. 11155111
func (c ChainID) Decimal() string {
	n, ok := new(big.Int).SetString(strings.TrimPrefix(string(c), "0x"), 16)
	if !ok {
		return string(c)
	}
	return n.String()
}

func (c ChainID) String() string {
	return string(c)
}

// ChainCheckResult describes one run of the network validator
type ChainCheckResult struct {
	Active          ChainID
	Required        ChainID
	Matched         bool
	SwitchRequested bool
	// SwitchVerified is set only when re-validation after a switch is enabled
	SwitchVerified bool
}
