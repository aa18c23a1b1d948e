package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/mintctl/internal/domain"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out      io.Writer
	json     bool
	required domain.ChainID
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, json bool, required domain.ChainID) *NetworksRenderer {
	return &NetworksRenderer{
		out:      out,
		json:     json,
		required: required,
	}
}

type networkView struct {
	*domain.Network
	Required bool `json:"required"`
}

// Render renders the networks as a table with the required one marked
func (r *NetworksRenderer) Render(networks []*domain.Network) error {
	if r.json {
		views := make([]networkView, 0, len(networks))
		for _, network := range networks {
			views = append(views, networkView{Network: network, Required: network.ChainID.Equal(r.required)})
		}
		return writeJSON(r.out, views)
	}

	if len(networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.AppendHeader(table.Row{"", "Name", "Chain ID", "Hex", "Type", "Explorer"})
	for _, network := range networks {
		marker := ""
		name := network.Name
		if network.ChainID.Equal(r.required) {
			marker = successStyle.Sprint("●")
			name = labelStyle.Sprint(name)
		}
		kind := "mainnet"
		if network.Testnet {
			kind = "testnet"
		}
		t.AppendRow(table.Row{marker, name, network.ChainID.Decimal(), network.ChainID.String(), kind, network.ExplorerURL})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[[]*domain.Network] = (*NetworksRenderer)(nil)
