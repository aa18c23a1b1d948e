package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/mintctl/internal/cli/render"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow account and network changes in the wallet",
		Long: `Stay attached to the wallet and react to accountsChanged and chainChanged.
Every change re-runs the network check, so switching the wallet to the
wrong network triggers a new switch request.

Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			renderer := render.NewWatchRenderer(cmd.OutOrStdout(), app.Config.JSON)

			session, err := app.Sessions.DetectExistingSession(ctx)
			if err != nil {
				return err
			}
			if err := renderer.RenderSession(session); err != nil {
				return err
			}

			return app.Watch.Run(ctx, usecase.WatchWalletParams{
				OnEvent: renderer.RenderEvent,
			})
		},
	}

	cmd.Flags().Duration("watch-interval", 0, "How often the wallet is polled for changes (default 4s)")

	return cmd
}
