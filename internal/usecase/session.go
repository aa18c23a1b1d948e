package usecase

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/mintctl/internal/domain"
)

// SessionState is the in-memory state of one wallet session. Nothing here is
// persisted; a new process starts from the zero state.
type SessionState struct {
	mu          sync.RWMutex
	account     domain.Account
	chainID     domain.ChainID
	mintCount   uint64
	latestToken *domain.MintedToken
	counted     map[common.Hash]struct{}
	lastAttempt *domain.MintRequest
}

// NewSessionState creates an empty session
func NewSessionState() *SessionState {
	return &SessionState{
		counted: make(map[common.Hash]struct{}),
	}
}

// Account returns the active account and whether one is set
func (s *SessionState) Account() (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, !s.account.IsZero()
}

func (s *SessionState) setAccount(account domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = account
}

// ChainID returns the last observed chain id, if any
func (s *SessionState) ChainID() domain.ChainID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chainID
}

func (s *SessionState) setChainID(id domain.ChainID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chainID = id
}

// MintCount returns the local mint tally of this session
func (s *SessionState) MintCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mintCount
}

// LatestToken returns the most recently resolved token, or nil
func (s *SessionState) LatestToken() *domain.MintedToken {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestToken
}

// LastAttempt returns a copy of the last finished mint attempt
func (s *SessionState) LastAttempt() (domain.MintRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastAttempt == nil {
		return domain.MintRequest{}, false
	}
	return *s.lastAttempt, true
}

func (s *SessionState) setLastAttempt(req domain.MintRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAttempt = &req
}

// recordMint counts a resolved token once per transaction hash. It returns
// the resulting count and whether this call incremented it.
func (s *SessionState) recordMint(hash common.Hash, token *domain.MintedToken) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.counted[hash]; seen {
		return s.mintCount, false
	}
	s.counted[hash] = struct{}{}
	s.mintCount++
	s.latestToken = token
	return s.mintCount, true
}
