package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/mintctl/internal/cli/render"
	"github.com/trebuchet-org/mintctl/internal/domain"
)

// NewMintCmd creates the mint command
func NewMintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a token from the active account",
		Long: `Send one mint transaction from the active wallet account, wait for it to be
mined and show the minted token.

The wallet must be on the required network. A switch is requested when it is
not, and the mint only proceeds once the wallet reports the required chain.

The wait for confirmation is bounded by --confirmation-timeout. When it
expires the attempt is reported as unknown: the transaction may still be
mined later.

Examples:
  mintctl mint
  mintctl mint --yes
  mintctl mint --resolver poll --confirmation-timeout 2m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			// Minting on the wrong chain would send the call elsewhere, so the
			// switch outcome is always checked here
			app.Config.RevalidateAfterSwitch = true

			session, err := app.Sessions.DetectExistingSession(ctx)
			if err != nil {
				return err
			}
			if !session.Found {
				session, err = app.Sessions.RequestConnection(ctx)
				if err != nil {
					return err
				}
				session.Chain, session.ChainErr = app.Validator.EnsureRequiredChain(ctx)
			}
			if session.ChainErr != nil {
				return session.ChainErr
			}
			if check := session.Chain; check != nil && !check.Matched && !check.SwitchVerified {
				return fmt.Errorf("%w: wallet is on chain %s, switch to %s and retry", domain.ErrWrongNetwork, check.Active, check.Required)
			}

			ok, err := app.Confirmer.Confirm(ctx, fmt.Sprintf("Mint from %s", session.Account.Short()))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatWarning("Mint cancelled"))
				return nil
			}

			result, mintErr := app.Mint.SubmitMint(ctx)

			renderer := render.NewMintRenderer(cmd.OutOrStdout(), app.Config.JSON)
			if result != nil {
				if err := renderer.Render(result); err != nil {
					return err
				}
			}
			return mintErr
		},
	}

	cmd.Flags().Duration("confirmation-timeout", 0, "Stop waiting for the mint to be mined after this long (default 5m)")

	return cmd
}
