package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/mintctl/internal/cli/render"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the wallet session and mint contract status",
		Long: `Show the active account, the wallet's chain against the required network,
the mint contract and how many tokens it has minted so far.

Nothing is requested from the user: accounts are only listed if the wallet
already authorized them.

Examples:
  mintctl status
  mintctl status --output yaml
  mintctl status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			format := render.OutputFormat(output)
			if app.Config.JSON {
				format = render.OutputJSON
			}
			if !format.Valid() {
				return fmt.Errorf("unknown output format %q (want table, yaml or json)", output)
			}

			status, err := app.Status.Run(cmd.Context())
			if err != nil {
				return err
			}

			renderer := render.NewStatusRenderer(cmd.OutOrStdout(), format, app.Networks)
			return renderer.Render(status)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(render.OutputTable), "Output format: table, yaml or json")

	return cmd
}
