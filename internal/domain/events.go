package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// MintEvent is the decoded mint event before its payload is interpreted
type MintEvent struct {
	TokenID  *big.Int
	Payload  string
	TxHash   common.Hash
	Block    uint64
	LogIndex uint
}

// WatchEventKind identifies what the wallet watcher observed
type WatchEventKind string

const (
	WatchAccountsChanged WatchEventKind = "accountsChanged"
	WatchChainChanged    WatchEventKind = "chainChanged"
)

// WatchEvent is one reaction of the wallet watcher
type WatchEvent struct {
	Kind    WatchEventKind
	Account Account
	ChainID ChainID
	Check   *ChainCheckResult
	Err     error
}
