package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// RPCProvider implements the WalletProvider port over a JSON-RPC endpoint
// such as a wallet bridge or a dev node with unlocked accounts
type RPCProvider struct {
	client   *rpc.Client
	interval time.Duration
	log      *slog.Logger
}

// Dial connects to the wallet endpoint
func Dial(ctx context.Context, rawURL string, interval time.Duration, log *slog.Logger) (*RPCProvider, error) {
	client, err := rpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to wallet provider: %w", err)
	}
	return NewRPCProvider(client, interval, log), nil
}

// NewRPCProvider wraps an existing rpc client
func NewRPCProvider(client *rpc.Client, interval time.Duration, log *slog.Logger) *RPCProvider {
	if interval <= 0 {
		interval = 4 * time.Second
	}
	return &RPCProvider{
		client:   client,
		interval: interval,
		log:      log.With("component", "RPCProvider"),
	}
}

// Close releases the underlying connection
func (p *RPCProvider) Close() {
	p.client.Close()
}

// Request sends a single JSON-RPC call
func (p *RPCProvider) Request(ctx context.Context, result any, method string, params ...any) error {
	p.log.Debug("Provider request", "method", method)
	if err := p.client.CallContext(ctx, result, method, params...); err != nil {
		return mapError(method, err)
	}
	return nil
}

// Subscribe emulates wallet events by polling: accountsChanged compares
// eth_accounts, chainChanged compares eth_chainId. The first observation is
// the baseline and is not delivered.
func (p *RPCProvider) Subscribe(ctx context.Context, eventName string, ch chan<- json.RawMessage) (ethereum.Subscription, error) {
	var method string
	switch eventName {
	case usecase.ProviderEventAccountsChanged:
		method = "eth_accounts"
	case usecase.ProviderEventChainChanged:
		method = "eth_chainId"
	default:
		return nil, &domain.ProviderError{Code: domain.CodeUnsupportedMethod, Message: "unsupported event " + eventName}
	}

	var baseline json.RawMessage
	if err := p.Request(ctx, &baseline, method); err != nil {
		return nil, err
	}

	return event.NewSubscription(func(quit <-chan struct{}) error {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		last, err := canonicalJSON(baseline)
		if err != nil {
			return err
		}
		for {
			select {
			case <-quit:
				return nil
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}

			var current json.RawMessage
			if err := p.Request(ctx, &current, method); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				p.log.Debug("Event poll failed", "event", eventName, "error", err)
				continue
			}
			key, err := canonicalJSON(current)
			if err != nil {
				p.log.Debug("Ignoring malformed poll result", "event", eventName, "error", err)
				continue
			}
			if key == last {
				continue
			}
			last = key

			select {
			case ch <- current:
			case <-quit:
				return nil
			case <-ctx.Done():
				return nil
			}
		}
	}), nil
}

// SubscribeLogs uses eth_subscribe when the transport supports
// notifications and falls back to polling eth_getLogs otherwise
func (p *RPCProvider) SubscribeLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	sub, err := p.client.EthSubscribe(ctx, ch, "logs", toFilterArg(query))
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, rpc.ErrNotificationsUnsupported) {
		return nil, mapError("eth_subscribe", err)
	}

	p.log.Debug("Notifications unsupported, polling for logs")
	var head hexutil.Uint64
	if err := p.Request(ctx, &head, "eth_blockNumber"); err != nil {
		return nil, err
	}

	return event.NewSubscription(func(quit <-chan struct{}) error {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		from := uint64(head)
		for {
			select {
			case <-quit:
				return nil
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}

			var latest hexutil.Uint64
			if err := p.Request(ctx, &latest, "eth_blockNumber"); err != nil {
				p.log.Debug("Block number poll failed", "error", err)
				continue
			}
			if uint64(latest) < from {
				continue
			}

			q := query
			q.FromBlock = new(big.Int).SetUint64(from)
			q.ToBlock = new(big.Int).SetUint64(uint64(latest))
			var logs []types.Log
			if err := p.Request(ctx, &logs, "eth_getLogs", toFilterArg(q)); err != nil {
				p.log.Debug("Log poll failed", "error", err)
				continue
			}
			for _, log := range logs {
				select {
				case ch <- log:
				case <-quit:
					return nil
				case <-ctx.Done():
					return nil
				}
			}
			from = uint64(latest) + 1
		}
	}), nil
}

// toFilterArg renders a filter query the way eth_getLogs and eth_subscribe expect
func toFilterArg(q ethereum.FilterQuery) map[string]any {
	arg := map[string]any{
		"address": q.Addresses,
		"topics":  q.Topics,
	}
	if q.BlockHash != nil {
		arg["blockHash"] = *q.BlockHash
		return arg
	}
	if q.FromBlock != nil {
		arg["fromBlock"] = hexutil.EncodeBig(q.FromBlock)
	}
	if q.ToBlock != nil {
		arg["toBlock"] = hexutil.EncodeBig(q.ToBlock)
	}
	return arg
}

// mapError converts transport and JSON-RPC errors into provider errors
func mapError(method string, err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		perr := &domain.ProviderError{Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}
		var dataErr rpc.DataError
		if errors.As(err, &dataErr) {
			perr.Data = dataErr.ErrorData()
		}
		return fmt.Errorf("%s: %w", method, perr)
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Errorf("%s: %w", method, &domain.ProviderError{Code: domain.CodeDisconnected, Message: httpErr.Error()})
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", method, &domain.ProviderError{Code: domain.CodeDisconnected, Message: err.Error()})
	}

	return fmt.Errorf("%s: %w", method, err)
}

// canonicalJSON normalizes a payload so key order and spacing do not
// register as a change
func canonicalJSON(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

var _ usecase.WalletProvider = (*RPCProvider)(nil)
