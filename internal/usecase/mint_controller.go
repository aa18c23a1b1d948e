package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
)

// Progress stages published while a mint runs
const (
	StageSubmitting           = string(domain.MintSubmitting)
	StageAwaitingConfirmation = string(domain.MintAwaitingConfirmation)
	StageConfirmed            = string(domain.MintConfirmed)
	StageFailed               = string(domain.MintFailed)
	StageUnknown              = string(domain.MintUnknown)
)

// MintResult contains the outcome of one mint attempt
type MintResult struct {
	Request   domain.MintRequest
	Token     *domain.MintedToken
	MintCount uint64
	// TokenErr is set when the mint confirmed but the token could not be resolved
	TokenErr       error
	ExplorerURL    string
	MarketplaceURL string
}

// MintController submits mint transactions and reconciles their outcome
// with the session state. Only one attempt can be in flight at a time.
type MintController struct {
	provider WalletProvider
	contract MintContract
	resolver MintedTokenResolver
	networks NetworkRegistry
	state    *SessionState
	notify   NotificationSink
	progress ProgressSink
	cfg      *config.RuntimeConfig
	log      *slog.Logger

	mu       sync.Mutex
	inFlight *domain.MintRequest
}

// NewMintController creates a new MintController
func NewMintController(
	provider WalletProvider,
	contract MintContract,
	resolver MintedTokenResolver,
	networks NetworkRegistry,
	state *SessionState,
	notify NotificationSink,
	progress ProgressSink,
	cfg *config.RuntimeConfig,
	log *slog.Logger,
) *MintController {
	return &MintController{
		provider: provider,
		contract: contract,
		resolver: resolver,
		networks: networks,
		state:    state,
		notify:   notify,
		progress: progress,
		cfg:      cfg,
		log:      log.With("component", "MintController", "resolver", resolver.Strategy()),
	}
}

// txArgs is the transaction object passed to eth_estimateGas and eth_sendTransaction
type txArgs struct {
	From common.Address  `json:"from"`
	To   common.Address  `json:"to"`
	Data hexutil.Bytes   `json:"data"`
	Gas  *hexutil.Uint64 `json:"gas,omitempty"`
}

// SubmitMint sends one mint transaction from the active account, waits for
// it to be included and resolves the minted token. Failures are reported to
// the notification sink and leave the session state unchanged.
func (c *MintController) SubmitMint(ctx context.Context) (*MintResult, error) {
	if c.provider == nil {
		c.log.Warn("Ethereum object doesn't exist")
		c.emit(ctx, domain.NotifyError, "Wallet not found", "Make sure you have a wallet available!")
		return nil, domain.ErrProviderAbsent
	}
	account, ok := c.state.Account()
	if !ok {
		c.emit(ctx, domain.NotifyError, "Not connected", "Connect your wallet before minting.")
		return nil, domain.ErrNoAccount
	}

	req, err := c.begin(account)
	if err != nil {
		c.emit(ctx, domain.NotifyError, "Mint in progress", "Wait for the current mint to finish.")
		return nil, err
	}
	defer c.finish(req)

	log := c.log.With("attempt", req.ID, "account", account)
	c.progress.OnProgress(ctx, ProgressEvent{Stage: StageSubmitting, Message: "Waiting for wallet approval...", Spinner: true, Metadata: req.Snapshot()})

	hash, err := c.send(ctx, account)
	if err != nil {
		log.Error("Mint submission failed", "error", err)
		return c.fail(ctx, req, domain.MintFailed, err, "Mint failed")
	}
	if err := req.SetTxHash(hash); err != nil {
		return c.fail(ctx, req, domain.MintFailed, err, "Mint failed")
	}
	if err := req.Transition(domain.MintAwaitingConfirmation, time.Now()); err != nil {
		return c.fail(ctx, req, domain.MintFailed, err, "Mint failed")
	}
	log = log.With("tx", hash.Hex())
	log.Info("Mining...please wait.")
	c.progress.OnProgress(ctx, ProgressEvent{Stage: StageAwaitingConfirmation, Message: "Mining " + hash.Hex(), Spinner: true, Metadata: req.Snapshot()})

	waitCtx := ctx
	if c.cfg.ConfirmationTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, c.cfg.ConfirmationTimeout)
		defer cancel()
	}

	receipt, err := c.waitMined(waitCtx, hash)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %w", domain.ErrConfirmationTimeout, c.cfg.ConfirmationTimeout, err)
		} else {
			err = fmt.Errorf("confirmation wait abandoned: %w", err)
		}
		log.Warn("Stopped waiting for confirmation, transaction may still be mined", "error", err)
		return c.fail(ctx, req, domain.MintUnknown, err, "Mint status unknown")
	}
	if receipt.BlockNumber != nil {
		req.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		log.Error("Mint transaction reverted", "block", req.BlockNumber)
		return c.fail(ctx, req, domain.MintFailed, domain.ErrTransactionReverted, "Mint failed")
	}
	if err := req.Transition(domain.MintConfirmed, time.Now()); err != nil {
		return c.fail(ctx, req, domain.MintFailed, err, "Mint failed")
	}

	chainID := c.state.ChainID()
	if chainID == "" {
		chainID = c.cfg.RequiredChainID
	}
	result := &MintResult{
		Request:     req.Snapshot(),
		ExplorerURL: c.explorerURL(chainID, hash),
	}
	log.Info("Mined", "block", req.BlockNumber, "explorer", result.ExplorerURL)
	c.state.setLastAttempt(req.Snapshot())
	c.progress.OnProgress(ctx, ProgressEvent{Stage: StageConfirmed, Message: "Mined in block " + fmt.Sprint(req.BlockNumber), Metadata: result.Request})

	token, err := c.resolver.Resolve(waitCtx, req.Snapshot(), receipt)
	if err != nil {
		log.Warn("Mint confirmed but token could not be resolved", "error", err)
		result.TokenErr = err
		result.MintCount = c.state.MintCount()
		c.emit(ctx, domain.NotifySuccess, "Mint successful", "Your NFT was minted. Transaction: "+hash.Hex())
		return result, nil
	}

	count, counted := c.state.recordMint(hash, token)
	if !counted {
		log.Debug("Mint already counted", "tokenId", token.TokenID())
	}
	result.Token = token
	result.MintCount = count
	result.MarketplaceURL = c.marketplaceURL(chainID, token)

	c.emit(ctx, domain.NotifySuccess, "Mint successful", fmt.Sprintf("You minted %s! Transaction: %s", token.Name(), hash.Hex()))
	return result, nil
}

// InFlight returns a copy of the running attempt, if any
func (c *MintController) InFlight() (domain.MintRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight == nil {
		return domain.MintRequest{}, false
	}
	return c.inFlight.Snapshot(), true
}

func (c *MintController) begin(account domain.Account) (*domain.MintRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight != nil && c.inFlight.Status.InFlight() {
		return nil, fmt.Errorf("%w: %s", domain.ErrMintInProgress, c.inFlight.ID)
	}
	req := domain.NewMintRequest(uuid.NewString(), account, time.Now())
	if err := req.Transition(domain.MintSubmitting, time.Now()); err != nil {
		return nil, err
	}
	c.inFlight = req
	return req, nil
}

func (c *MintController) finish(req *domain.MintRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight == req {
		c.inFlight = nil
	}
}

func (c *MintController) send(ctx context.Context, account domain.Account) (common.Hash, error) {
	data, err := c.contract.PackMint()
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: failed to pack mint call: %w", domain.ErrSubmissionFailure, err)
	}
	args := txArgs{From: account.Address(), To: c.contract.Address(), Data: data}

	var gas hexutil.Uint64
	if err := c.provider.Request(ctx, &gas, "eth_estimateGas", args); err != nil {
		return common.Hash{}, submissionError("gas estimation failed", err)
	}
	args.Gas = &gas

	c.log.Info("Going to pop wallet now to pay gas...", "gas", uint64(gas))
	var hash common.Hash
	if err := c.provider.Request(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, submissionError("transaction rejected", err)
	}
	if hash == (common.Hash{}) {
		return common.Hash{}, fmt.Errorf("%w: wallet returned an empty transaction hash", domain.ErrSubmissionFailure)
	}
	return hash, nil
}

func submissionError(msg string, err error) error {
	if errors.Is(err, domain.ErrUserRejected) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrSubmissionFailure, msg, err)
}

// waitMined polls for the receipt until it exists or ctx is done
func (c *MintController) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	interval := c.cfg.PollInterval
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var receipt *types.Receipt
		err := c.provider.Request(ctx, &receipt, "eth_getTransactionReceipt", hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Debug("Failed to retrieve receipt", "tx", hash, "error", err)
		} else {
			c.log.Debug("Transaction not yet mined", "tx", hash)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *MintController) fail(ctx context.Context, req *domain.MintRequest, status domain.MintStatus, err error, title string) (*MintResult, error) {
	if terr := req.Transition(status, time.Now()); terr != nil {
		c.log.Error("Unexpected state change", "error", terr)
	}
	req.Err = err
	snapshot := req.Snapshot()
	c.state.setLastAttempt(snapshot)

	stage := StageFailed
	if status == domain.MintUnknown {
		stage = StageUnknown
	}
	c.progress.OnProgress(ctx, ProgressEvent{Stage: stage, Message: err.Error(), Metadata: snapshot})

	kind := domain.NotifyError
	detail := err.Error()
	if status == domain.MintUnknown {
		detail = fmt.Sprintf("Stopped waiting for %s; it may still be mined.", req.TxHash.Hex())
	} else if errors.Is(err, domain.ErrUserRejected) {
		detail = "The transaction was rejected in the wallet."
	}
	c.emit(ctx, kind, title, detail)

	result := &MintResult{Request: snapshot, MintCount: c.state.MintCount()}
	if req.TxHash != (common.Hash{}) {
		result.ExplorerURL = c.explorerURL(c.cfg.RequiredChainID, req.TxHash)
	}
	return result, err
}

func (c *MintController) explorerURL(id domain.ChainID, hash common.Hash) string {
	if c.networks == nil {
		return ""
	}
	return c.networks.ExplorerTxURL(id, hash)
}

func (c *MintController) marketplaceURL(id domain.ChainID, token *domain.MintedToken) string {
	if c.networks == nil {
		return ""
	}
	return c.networks.MarketplaceTokenURL(id, c.contract.Address(), token.TokenID())
}

func (c *MintController) emit(ctx context.Context, kind domain.NotificationKind, title, detail string) {
	c.notify.Notify(ctx, domain.Notification{Kind: kind, Title: title, Detail: detail, Time: time.Now()})
}
