package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
)

// NewMintedTokenResolver picks the resolver strategy from configuration
func NewMintedTokenResolver(
	cfg *config.RuntimeConfig,
	provider WalletProvider,
	contract MintContract,
	decoder MetadataDecoder,
	log *slog.Logger,
) MintedTokenResolver {
	if cfg.Resolver == config.ResolverPoll {
		return NewPollResolver(provider, contract, log)
	}
	return NewEventResolver(provider, contract, decoder, log)
}

// PollResolver reads the contract's minted count after confirmation and
// derives the new token id as count - 1
type PollResolver struct {
	provider WalletProvider
	contract MintContract
	log      *slog.Logger
}

// NewPollResolver creates a new PollResolver
func NewPollResolver(provider WalletProvider, contract MintContract, log *slog.Logger) *PollResolver {
	return &PollResolver{
		provider: provider,
		contract: contract,
		log:      log.With("component", "PollResolver"),
	}
}

func (r *PollResolver) Strategy() config.ResolverStrategy {
	return config.ResolverPoll
}

// Resolve queries the count at the block the mint was included in
func (r *PollResolver) Resolve(ctx context.Context, req domain.MintRequest, receipt *types.Receipt) (*domain.MintedToken, error) {
	count, err := ReadMintedCount(ctx, r.provider, r.contract, receipt.BlockNumber)
	if err != nil {
		return nil, err
	}
	if count.Sign() <= 0 {
		return nil, fmt.Errorf("%w: minted count is %s after a confirmed mint", domain.ErrDecodeFailure, count)
	}

	tokenID := new(big.Int).Sub(count, big.NewInt(1))
	r.log.Debug("Derived token id from count", "count", count, "tokenId", tokenID)
	return domain.NewMintedToken(tokenID, req.TxHash, "", nil, ""), nil
}

// ReadMintedCount calls the contract's count method. A nil block reads latest.
func ReadMintedCount(ctx context.Context, provider WalletProvider, contract MintContract, block *big.Int) (*big.Int, error) {
	if provider == nil {
		return nil, domain.ErrProviderAbsent
	}
	data, err := contract.PackCount()
	if err != nil {
		return nil, fmt.Errorf("failed to pack count call: %w", err)
	}

	blockTag := "latest"
	if block != nil {
		blockTag = hexutil.EncodeBig(block)
	}

	var out hexutil.Bytes
	call := map[string]any{
		"to":   contract.Address(),
		"data": hexutil.Bytes(data),
	}
	if err := provider.Request(ctx, &out, "eth_call", call, blockTag); err != nil {
		return nil, fmt.Errorf("failed to read minted count: %w", err)
	}

	count, err := contract.UnpackCount(out)
	if err != nil {
		return nil, fmt.Errorf("%w: count result: %w", domain.ErrDecodeFailure, err)
	}
	return count, nil
}

// maxPendingEvents bounds events kept for hashes nobody has asked for yet
const maxPendingEvents = 64

// EventResolver decodes the contract's mint event for a confirmed
// transaction. A single standing log subscription is opened on first use and
// kept for the resolver's lifetime; each transaction hash is delivered at
// most once.
type EventResolver struct {
	provider WalletProvider
	contract MintContract
	decoder  MetadataDecoder
	log      *slog.Logger

	once   sync.Once
	cancel context.CancelFunc

	mu           sync.Mutex
	waiters      map[common.Hash]chan types.Log
	delivered    map[common.Hash]struct{}
	pending      map[common.Hash]types.Log
	pendingOrder []common.Hash
}

// NewEventResolver creates a new EventResolver
func NewEventResolver(provider WalletProvider, contract MintContract, decoder MetadataDecoder, log *slog.Logger) *EventResolver {
	return &EventResolver{
		provider:  provider,
		contract:  contract,
		decoder:   decoder,
		log:       log.With("component", "EventResolver"),
		waiters:   make(map[common.Hash]chan types.Log),
		delivered: make(map[common.Hash]struct{}),
		pending:   make(map[common.Hash]types.Log),
	}
}

func (r *EventResolver) Strategy() config.ResolverStrategy {
	return config.ResolverEvent
}

// Resolve returns the token minted by the given transaction. It looks at the
// receipt logs first and otherwise waits for the subscription to deliver a
// matching event until ctx is done.
func (r *EventResolver) Resolve(ctx context.Context, req domain.MintRequest, receipt *types.Receipt) (*domain.MintedToken, error) {
	r.ensureSubscribed()

	if log, ok := r.fromReceipt(receipt); ok {
		if !r.claim(req.TxHash) {
			return nil, fmt.Errorf("mint event for %s already delivered", req.TxHash.Hex())
		}
		return r.decode(&log)
	}

	ch, log, ok := r.wait(req.TxHash)
	if ok {
		return r.decode(&log)
	}
	if ch == nil {
		return nil, fmt.Errorf("mint event for %s already delivered", req.TxHash.Hex())
	}
	defer r.dropWaiter(req.TxHash)

	select {
	case log := <-ch:
		return r.decode(&log)
	case <-ctx.Done():
		return nil, fmt.Errorf("no mint event observed for %s: %w", req.TxHash.Hex(), ctx.Err())
	}
}

// Close stops the standing subscription
func (r *EventResolver) Close() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (r *EventResolver) ensureSubscribed() {
	r.once.Do(func() {
		if r.provider == nil {
			return
		}
		ctx, cancel := context.WithCancel(context.Background())
		r.mu.Lock()
		r.cancel = cancel
		r.mu.Unlock()

		logs := make(chan types.Log, 16)
		query := ethereum.FilterQuery{
			Addresses: []common.Address{r.contract.Address()},
			Topics:    [][]common.Hash{{r.contract.MintEventID()}},
		}
		sub, err := r.provider.SubscribeLogs(ctx, query, logs)
		if err != nil {
			r.log.Warn("Mint event subscription unavailable, relying on receipts", "error", err)
			cancel()
			return
		}
		r.log.Debug("Subscribed to mint events", "contract", r.contract.Address())
		go r.loop(ctx, sub, logs)
	})
}

func (r *EventResolver) loop(ctx context.Context, sub ethereum.Subscription, logs <-chan types.Log) {
	defer sub.Unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-sub.Err():
			if ok && err != nil {
				r.log.Warn("Mint event subscription ended", "error", err)
			}
			return
		case log := <-logs:
			r.dispatch(log)
		}
	}
}

func (r *EventResolver) dispatch(log types.Log) {
	if log.Removed {
		r.log.Debug("Ignoring removed log", "tx", log.TxHash)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, done := r.delivered[log.TxHash]; done {
		r.log.Debug("Dropping duplicate mint event", "tx", log.TxHash)
		return
	}
	if ch, ok := r.waiters[log.TxHash]; ok {
		r.delivered[log.TxHash] = struct{}{}
		delete(r.waiters, log.TxHash)
		ch <- log
		return
	}
	if _, ok := r.pending[log.TxHash]; ok {
		return
	}
	r.pending[log.TxHash] = log
	r.pendingOrder = append(r.pendingOrder, log.TxHash)
	if len(r.pendingOrder) > maxPendingEvents {
		oldest := r.pendingOrder[0]
		r.pendingOrder = r.pendingOrder[1:]
		delete(r.pending, oldest)
	}
}

// wait registers a waiter for hash. If the event already arrived it is
// returned directly. A nil channel with ok=false means the hash was already
// delivered.
func (r *EventResolver) wait(hash common.Hash) (chan types.Log, types.Log, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, done := r.delivered[hash]; done {
		return nil, types.Log{}, false
	}
	if log, ok := r.pending[hash]; ok {
		delete(r.pending, hash)
		r.delivered[hash] = struct{}{}
		return nil, log, true
	}
	ch := make(chan types.Log, 1)
	r.waiters[hash] = ch
	return ch, types.Log{}, false
}

func (r *EventResolver) dropWaiter(hash common.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.waiters, hash)
}

// claim marks hash as delivered; false if it already was
func (r *EventResolver) claim(hash common.Hash) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, done := r.delivered[hash]; done {
		return false
	}
	r.delivered[hash] = struct{}{}
	delete(r.pending, hash)
	return true
}

func (r *EventResolver) fromReceipt(receipt *types.Receipt) (types.Log, bool) {
	if receipt == nil {
		return types.Log{}, false
	}
	eventID := r.contract.MintEventID()
	for _, log := range receipt.Logs {
		if log == nil || len(log.Topics) == 0 {
			continue
		}
		if log.Address == r.contract.Address() && log.Topics[0] == eventID {
			return *log, true
		}
	}
	return types.Log{}, false
}

func (r *EventResolver) decode(log *types.Log) (*domain.MintedToken, error) {
	event, err := r.contract.UnpackMintEvent(log)
	if err != nil {
		r.log.Warn("Dropping undecodable mint event", "tx", log.TxHash, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrDecodeFailure, err)
	}

	metadata, image, err := r.decoder.Decode(event.Payload)
	if err != nil {
		r.log.Warn("Dropping mint event with malformed payload", "tx", log.TxHash, "tokenId", event.TokenID, "error", err)
		if !errors.Is(err, domain.ErrDecodeFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrDecodeFailure, err)
		}
		return nil, err
	}

	r.log.Debug("Decoded mint event", "tx", log.TxHash, "tokenId", event.TokenID)
	return domain.NewMintedToken(event.TokenID, log.TxHash, event.Payload, metadata, image), nil
}
