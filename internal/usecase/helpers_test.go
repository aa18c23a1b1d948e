package usecase_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/mintctl/internal/adapters/contract"
	"github.com/trebuchet-org/mintctl/internal/adapters/metadata"
	"github.com/trebuchet-org/mintctl/internal/adapters/network"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/bindings"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

const (
	testAccount  = "0x00000000000000000000000000000000000000aa"
	otherAccount = "0x00000000000000000000000000000000000000bb"
)

var (
	sepoliaID    = domain.MustChainID("0xaa36a7")
	mainnetID    = domain.MustChainID("0x1")
	contractAddr = common.HexToAddress(config.DefaultContractAddress)
	mintTx       = common.HexToHash("0xabc0000000000000000000000000000000000000000000000000000000000001")
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		RequiredChainID: sepoliaID,
		Contract: config.ContractConfig{
			Address:     contractAddr,
			TotalSupply: config.DefaultTotalSupply,
		},
		Resolver:            config.ResolverEvent,
		ConfirmationTimeout: 2 * time.Second,
		PollInterval:        5 * time.Millisecond,
	}
}

// walletCall records one Request made against the fake wallet
type walletCall struct {
	Method string
	Params []any
}

type handler func(params []any) (any, error)

// fakeWallet is a scripted WalletProvider. Results are assigned directly
// when their type matches the destination and JSON round-tripped otherwise.
type fakeWallet struct {
	mu       sync.Mutex
	handlers map[string]handler
	calls    []walletCall
	subs     map[string][]chan<- json.RawMessage
	logSubs  []chan<- types.Log
	logsErr  error
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		handlers: make(map[string]handler),
		subs:     make(map[string][]chan<- json.RawMessage),
	}
}

func (w *fakeWallet) on(method string, h handler) *fakeWallet {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[method] = h
	return w
}

func (w *fakeWallet) returns(method string, v any) *fakeWallet {
	return w.on(method, func([]any) (any, error) { return v, nil })
}

func (w *fakeWallet) fails(method string, err error) *fakeWallet {
	return w.on(method, func([]any) (any, error) { return nil, err })
}

func (w *fakeWallet) Request(ctx context.Context, result any, method string, params ...any) error {
	w.mu.Lock()
	w.calls = append(w.calls, walletCall{Method: method, Params: params})
	h, ok := w.handlers[method]
	w.mu.Unlock()

	if !ok {
		return &domain.ProviderError{Code: domain.CodeMethodNotFound, Message: "the method " + method + " does not exist"}
	}
	v, err := h(params)
	if err != nil {
		return err
	}
	if result == nil || v == nil {
		return nil
	}

	rv := reflect.ValueOf(result)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		if vv := reflect.ValueOf(v); vv.Type().AssignableTo(rv.Elem().Type()) {
			rv.Elem().Set(vv)
			return nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, result)
}

func (w *fakeWallet) Subscribe(ctx context.Context, name string, ch chan<- json.RawMessage) (ethereum.Subscription, error) {
	w.mu.Lock()
	w.subs[name] = append(w.subs[name], ch)
	w.mu.Unlock()
	return idleSubscription(), nil
}

func (w *fakeWallet) SubscribeLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.logsErr != nil {
		return nil, w.logsErr
	}
	w.logSubs = append(w.logSubs, ch)
	return idleSubscription(), nil
}

func idleSubscription() ethereum.Subscription {
	return event.NewSubscription(func(quit <-chan struct{}) error {
		<-quit
		return nil
	})
}

// emit delivers a provider event to every subscriber
func (w *fakeWallet) emit(t *testing.T, name string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	w.mu.Lock()
	subs := append([]chan<- json.RawMessage(nil), w.subs[name]...)
	w.mu.Unlock()
	for _, ch := range subs {
		ch <- raw
	}
}

func (w *fakeWallet) emitLog(log types.Log) {
	w.mu.Lock()
	subs := append([]chan<- types.Log(nil), w.logSubs...)
	w.mu.Unlock()
	for _, ch := range subs {
		ch <- log
	}
}

func (w *fakeWallet) subscribers(name string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if name == "logs" {
		return len(w.logSubs)
	}
	return len(w.subs[name])
}

// callsTo returns the recorded calls of one method
func (w *fakeWallet) callsTo(method string) []walletCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []walletCall
	for _, c := range w.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// recordingSink keeps every notification
type recordingSink struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (s *recordingSink) Notify(_ context.Context, n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, n)
}

func (s *recordingSink) all() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.notes...)
}

func (s *recordingSink) last() domain.Notification {
	notes := s.all()
	if len(notes) == 0 {
		return domain.Notification{}
	}
	return notes[len(notes)-1]
}

func (s *recordingSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = nil
}

// MockProgressSink is a mock implementation of ProgressSink
type MockProgressSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string)  {}
func (m *MockProgressSink) Error(message string) {}

func (m *MockProgressSink) stages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	stages := make([]string, 0, len(m.events))
	for _, e := range m.events {
		stages = append(stages, e.Stage)
	}
	return stages
}

// harness wires the use cases with the real contract, metadata and
// network adapters around a fake wallet
type harness struct {
	cfg       *config.RuntimeConfig
	wallet    *fakeWallet
	notes     *recordingSink
	progress  *MockProgressSink
	state     *usecase.SessionState
	validator *usecase.NetworkValidator
	sessions  *usecase.SessionManager
	resolver  usecase.MintedTokenResolver
	mint      *usecase.MintController
	watch     *usecase.WatchWallet
	status    *usecase.ShowStatus
}

func newHarness(t *testing.T, wallet *fakeWallet, mutate ...func(*config.RuntimeConfig)) *harness {
	t.Helper()
	cfg := testConfig()
	for _, fn := range mutate {
		fn(cfg)
	}

	// A nil *fakeWallet must become a nil interface
	var provider usecase.WalletProvider
	if wallet != nil {
		provider = wallet
	}

	log := testLogger()
	descriptor, err := contract.NewDescriptor(cfg)
	require.NoError(t, err)
	networks := network.NewResolver()

	h := &harness{
		cfg:      cfg,
		wallet:   wallet,
		notes:    &recordingSink{},
		progress: &MockProgressSink{},
		state:    usecase.NewSessionState(),
	}
	h.validator = usecase.NewNetworkValidator(provider, networks, h.state, h.notes, cfg, log)
	h.sessions = usecase.NewSessionManager(provider, h.validator, h.state, h.notes, log)
	h.resolver = usecase.NewMintedTokenResolver(cfg, provider, descriptor, metadata.NewDecoder(cfg), log)
	if closer, ok := h.resolver.(interface{ Close() }); ok {
		t.Cleanup(closer.Close)
	}
	h.mint = usecase.NewMintController(provider, descriptor, h.resolver, networks, h.state, h.notes, h.progress, cfg, log)
	h.watch = usecase.NewWatchWallet(provider, h.sessions, h.validator, h.state, log)
	h.status = usecase.NewShowStatus(provider, descriptor, h.state, cfg, log)
	return h
}

// connect makes testAccount the active account
func (h *harness) connect(t *testing.T) {
	t.Helper()
	result, err := h.sessions.DetectExistingSession(context.Background())
	require.NoError(t, err)
	require.True(t, result.Found)
	h.notes.reset()
}

// connectedWallet is authorized for testAccount and sits on chain
func connectedWallet(chain string) *fakeWallet {
	return newFakeWallet().
		returns("eth_accounts", []string{testAccount}).
		returns("eth_chainId", chain).
		returns("wallet_switchEthereumChain", nil)
}

// mintingWallet accepts mint transactions and mines them in block 42
func mintingWallet(receipt func(hash common.Hash) *types.Receipt) *fakeWallet {
	w := connectedWallet("0xaa36a7").
		returns("eth_estimateGas", "0x1d4c0").
		returns("eth_sendTransaction", mintTx)
	return w.on("eth_getTransactionReceipt", func(params []any) (any, error) {
		return receipt(params[0].(common.Hash)), nil
	})
}

func successReceipt(hash common.Hash, logs ...*types.Log) *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      hash,
		BlockNumber: big.NewInt(42),
		Logs:        logs,
	}
}

// countResult is the ABI encoding of a uint256 count
func countResult(n int64) []byte {
	return common.LeftPadBytes(big.NewInt(n).Bytes(), 32)
}

// tokenURI builds the base64 JSON payload the contract emits
func tokenURI(name string) string {
	doc := `{"name":"` + name + `","description":"A highly acclaimed collection of squares.","image":"data:image/svg+xml;base64,PHN2Zz48L3N2Zz4="}`
	return metadata.DataURIPrefix + base64.StdEncoding.EncodeToString([]byte(doc))
}

func mintLog(t *testing.T, hash common.Hash, tokenID int64, payload string) *types.Log {
	t.Helper()
	ev := bindings.NewEpicNFT().ABI().Events[bindings.EpicNFTNewEpicNFTMintedEventName]
	data, err := ev.Inputs.Pack(big.NewInt(tokenID), payload)
	require.NoError(t, err)
	return &types.Log{
		Address:     contractAddr,
		Topics:      []common.Hash{ev.ID},
		Data:        data,
		TxHash:      hash,
		BlockNumber: 42,
	}
}
