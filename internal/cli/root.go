package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/mintctl/internal/adapters/progress"
	"github.com/trebuchet-org/mintctl/internal/app"
	"github.com/trebuchet-org/mintctl/internal/config"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// Commands that wait on the chain or on the wallet set their own bounds
// instead of the global timeout
var untimedCommands = map[string]bool{
	"mint":  true,
	"watch": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cleanup func()
	var cancel context.CancelFunc

	rootCmd := &cobra.Command{
		Use:   "mintctl",
		Short: "Wallet session and NFT mint controller",
		Long: `mintctl connects to an EIP-1193 wallet provider, keeps it on the required
network and drives mint transactions from submission to a resolved token.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			// Set up viper with every flag of the running command bound
			v, err := config.SetupViper(config.FindProjectRoot(), cmd)
			if err != nil {
				return err
			}

			// Progress goes to the terminal unless output is machine readable
			var sink usecase.ProgressSink = progress.NewSpinnerProgressReporter()
			if v.GetBool("json") || v.GetBool("non_interactive") {
				sink = progress.NewNopSink()
			}

			// Initialize app with DI
			appInstance, appCleanup, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanup = appCleanup

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 && !untimedCommands[cmd.Name()] {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}

			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().String("rpc-url", "", "Wallet provider endpoint (http, ws or ipc)")
	rootCmd.PersistentFlags().StringP("required-chain", "c", "", "Required network name or chain id (e.g. sepolia, 0xaa36a7)")
	rootCmd.PersistentFlags().String("contract-address", "", "Mint contract address")
	rootCmd.PersistentFlags().String("resolver", "", "Minted token resolver: event or poll")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Timeout for quick commands (default 30s)")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	connectCmd := NewConnectCmd()
	connectCmd.GroupID = "main"
	rootCmd.AddCommand(connectCmd)

	chainCmd := NewChainCmd()
	chainCmd.GroupID = "main"
	rootCmd.AddCommand(chainCmd)

	mintCmd := NewMintCmd()
	mintCmd.GroupID = "main"
	rootCmd.AddCommand(mintCmd)

	watchCmd := NewWatchCmd()
	watchCmd.GroupID = "main"
	rootCmd.AddCommand(watchCmd)

	// Management commands
	statusCmd := NewStatusCmd()
	statusCmd.GroupID = "management"
	rootCmd.AddCommand(statusCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	// Version command
	versionCmd := NewVersionCmd()
	rootCmd.AddCommand(versionCmd)

	// cobra skips post-run hooks when RunE fails, so release from RunE itself
	releaseAfterRun(rootCmd, func() {
		if cancel != nil {
			cancel()
			cancel = nil
		}
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	})

	return rootCmd
}

// releaseAfterRun runs release once RunE of any subcommand returns
func releaseAfterRun(cmd *cobra.Command, release func()) {
	for _, sub := range cmd.Commands() {
		releaseAfterRun(sub, release)
		if sub.RunE == nil {
			continue
		}
		run := sub.RunE
		sub.RunE = func(cmd *cobra.Command, args []string) error {
			defer release()
			return run(cmd, args)
		}
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
