package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/mintctl/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List known networks",
		Long: `List the networks mintctl can name: the built-in registry plus the
[networks] section of mintctl.toml. The required network is marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			renderer := render.NewNetworksRenderer(cmd.OutOrStdout(), app.Config.JSON, app.Config.RequiredChainID)
			return renderer.Render(app.Networks.List())
		},
	}

	return cmd
}
