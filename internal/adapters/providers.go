package adapters

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/wire"
	"github.com/trebuchet-org/mintctl/internal/adapters/contract"
	"github.com/trebuchet-org/mintctl/internal/adapters/interactive"
	"github.com/trebuchet-org/mintctl/internal/adapters/metadata"
	"github.com/trebuchet-org/mintctl/internal/adapters/network"
	"github.com/trebuchet-org/mintctl/internal/adapters/notify"
	"github.com/trebuchet-org/mintctl/internal/adapters/provider"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// ProvideWalletProvider dials the configured wallet endpoint. Without an
// endpoint there is no wallet and a nil provider is returned.
func ProvideWalletProvider(cfg *config.RuntimeConfig, log *slog.Logger) (usecase.WalletProvider, func(), error) {
	if cfg.RPCURL == "" {
		log.Debug("No wallet endpoint configured")
		return nil, func() {}, nil
	}

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	p, err := provider.Dial(ctx, cfg.RPCURL, cfg.WatchInterval, log)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}

// ProvideNotificationSink picks JSON lines or console output
func ProvideNotificationSink(cfg *config.RuntimeConfig) usecase.NotificationSink {
	return newNotificationSink(cfg, os.Stdout)
}

func newNotificationSink(cfg *config.RuntimeConfig, out io.Writer) usecase.NotificationSink {
	if cfg.JSON {
		return notify.NewJSONSink(out)
	}
	return notify.NewConsoleSink(out)
}

// ProvideTokenResolver builds the configured resolver and stops its event
// subscription on cleanup
func ProvideTokenResolver(
	cfg *config.RuntimeConfig,
	wallet usecase.WalletProvider,
	mintContract usecase.MintContract,
	decoder usecase.MetadataDecoder,
	log *slog.Logger,
) (usecase.MintedTokenResolver, func()) {
	resolver := usecase.NewMintedTokenResolver(cfg, wallet, mintContract, decoder, log)
	cleanup := func() {}
	if closer, ok := resolver.(interface{ Close() }); ok {
		cleanup = closer.Close
	}
	return resolver, cleanup
}

// WalletSet provides the wallet transport and user-facing output
var WalletSet = wire.NewSet(
	ProvideWalletProvider,
	ProvideNotificationSink,
)

// ContractSet provides the mint contract description and payload decoding
var ContractSet = wire.NewSet(
	contract.NewDescriptor,
	wire.Bind(new(usecase.MintContract), new(*contract.Descriptor)),

	metadata.NewDecoder,
	wire.Bind(new(usecase.MetadataDecoder), new(*metadata.Decoder)),

	ProvideTokenResolver,
)

// NetworkSet provides the network registry
var NetworkSet = wire.NewSet(
	network.NewResolverFromConfig,
	wire.Bind(new(usecase.NetworkRegistry), new(*network.Resolver)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewPromptAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.PromptAdapter)),
	wire.Bind(new(usecase.NetworkSelector), new(*interactive.PromptAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	WalletSet,
	ContractSet,
	NetworkSet,
	InteractiveSet,
)
