package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/mintctl/internal/cli/render"
)

// NewConnectCmd creates the connect command
func NewConnectCmd() *cobra.Command {
	var detectOnly bool

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to the wallet and check the network",
		Long: `Look for an account the wallet has already authorized. When none is found
the wallet is asked for access, which may show a prompt in the wallet.

Once an account is active the wallet's chain is checked against the required
network and a switch is requested on a mismatch.

Examples:
  mintctl connect
  mintctl connect --detect-only
  mintctl connect --required-chain sepolia`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			result, err := app.Sessions.DetectExistingSession(ctx)
			if err != nil {
				return err
			}

			if !result.Found && !detectOnly {
				result, err = app.Sessions.RequestConnection(ctx)
				if err != nil {
					return err
				}
				result.Chain, result.ChainErr = app.Validator.EnsureRequiredChain(ctx)
			}

			renderer := render.NewSessionRenderer(cmd.OutOrStdout(), app.Config.JSON)
			if err := renderer.Render(result); err != nil {
				return err
			}
			return result.ChainErr
		},
	}

	cmd.Flags().BoolVar(&detectOnly, "detect-only", false, "Only look for an authorized account, never prompt the wallet")

	return cmd
}
