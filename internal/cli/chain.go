package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/mintctl/internal/cli/render"
	"github.com/trebuchet-org/mintctl/internal/domain"
)

// NewChainCmd creates the chain command
func NewChainCmd() *cobra.Command {
	var selectNetwork bool
	var verify bool

	cmd := &cobra.Command{
		Use:   "chain [network]",
		Short: "Check the wallet network and request a switch when it is wrong",
		Long: `Compare the wallet's active chain with the required network. On a mismatch
the wallet is asked to switch with wallet_switchEthereumChain.

The required network defaults to the configured one. Pass a network name or
chain id to check against another network, or use --select to pick one.

Examples:
  mintctl chain
  mintctl chain sepolia
  mintctl chain 0xaa36a7 --verify
  mintctl chain --select`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var network *domain.Network
			switch {
			case selectNetwork:
				network, err = app.Selector.SelectNetwork(ctx, app.Networks.List(), "Select the required network")
			case len(args) == 1:
				network, err = app.Networks.Resolve(args[0])
			}
			if err != nil {
				return err
			}
			if network != nil {
				app.Config.RequiredChainID = network.ChainID
				app.Config.RequiredNetwork = network
			}
			if verify {
				app.Config.RevalidateAfterSwitch = true
			}

			check, checkErr := app.Validator.EnsureRequiredChain(ctx)

			renderer := render.NewChainRenderer(cmd.OutOrStdout(), app.Config.JSON, app.Networks)
			if err := renderer.Render(check); err != nil {
				return err
			}
			return checkErr
		},
	}

	cmd.Flags().BoolVar(&selectNetwork, "select", false, "Pick the required network interactively")
	cmd.Flags().BoolVar(&verify, "verify", false, "Re-read the chain id after a switch request")

	return cmd
}
