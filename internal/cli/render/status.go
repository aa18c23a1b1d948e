package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/mintctl/internal/usecase"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how status is printed
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputYAML  OutputFormat = "yaml"
	OutputJSON  OutputFormat = "json"
)

// Valid reports whether f is a known format
func (f OutputFormat) Valid() bool {
	switch f {
	case OutputTable, OutputYAML, OutputJSON:
		return true
	}
	return false
}

// StatusRenderer renders the session status
type StatusRenderer struct {
	out      io.Writer
	format   OutputFormat
	networks usecase.NetworkRegistry
}

// NewStatusRenderer creates a new status renderer
func NewStatusRenderer(out io.Writer, format OutputFormat, networks usecase.NetworkRegistry) *StatusRenderer {
	return &StatusRenderer{out: out, format: format, networks: networks}
}

type statusView struct {
	ProviderPresent bool         `json:"providerPresent" yaml:"providerPresent"`
	Account         string       `json:"account,omitempty" yaml:"account,omitempty"`
	ActiveChainID   string       `json:"activeChainId,omitempty" yaml:"activeChainId,omitempty"`
	RequiredChainID string       `json:"requiredChainId" yaml:"requiredChainId"`
	RequiredNetwork string       `json:"requiredNetwork,omitempty" yaml:"requiredNetwork,omitempty"`
	ChainMatched    bool         `json:"chainMatched" yaml:"chainMatched"`
	Contract        string       `json:"contract" yaml:"contract"`
	Resolver        string       `json:"resolver" yaml:"resolver"`
	MintCount       uint64       `json:"mintCount" yaml:"mintCount"`
	MintedSoFar     *uint64      `json:"mintedSoFar,omitempty" yaml:"mintedSoFar,omitempty"`
	TotalSupply     uint64       `json:"totalSupply,omitempty" yaml:"totalSupply,omitempty"`
	LatestToken     *tokenView   `json:"latestToken,omitempty" yaml:"latestToken,omitempty"`
	LastAttempt     *attemptView `json:"lastAttempt,omitempty" yaml:"lastAttempt,omitempty"`
}

func newStatusView(status *usecase.SessionStatus) statusView {
	view := statusView{
		ProviderPresent: status.ProviderPresent,
		Account:         status.Account.String(),
		ActiveChainID:   status.ActiveChainID.String(),
		RequiredChainID: status.RequiredChainID.String(),
		ChainMatched:    status.ChainMatched,
		Contract:        status.Contract.Hex(),
		Resolver:        string(status.Resolver),
		MintCount:       status.MintCount,
		MintedSoFar:     status.MintedSoFar,
		TotalSupply:     status.TotalSupply,
		LatestToken:     newTokenView(status.LatestToken),
		LastAttempt:     newAttemptView(status.LastAttempt),
	}
	if status.RequiredNetwork != nil {
		view.RequiredNetwork = status.RequiredNetwork.Name
	}
	return view
}

// Render prints the status in the configured format
func (r *StatusRenderer) Render(status *usecase.SessionStatus) error {
	switch r.format {
	case OutputJSON:
		return writeJSON(r.out, newStatusView(status))
	case OutputYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(newStatusView(status)); err != nil {
			return fmt.Errorf("failed to encode status: %w", err)
		}
		return enc.Close()
	}

	fmt.Fprintln(r.out, sectionHeader.Sprint("Wallet"))
	t := newKeyValueTable()
	if !status.ProviderPresent {
		t.AppendRow(table.Row{labelStyle.Sprint("Provider"), errorStyle.Sprint("not found")})
	} else {
		t.AppendRow(table.Row{labelStyle.Sprint("Provider"), successStyle.Sprint("present")})
	}
	account := "-"
	if !status.Account.IsZero() {
		account = addressStyle.Sprint(status.Account)
	}
	t.AppendRow(table.Row{labelStyle.Sprint("Account"), account})

	active := networkLabel(r.networks, status.ActiveChainID)
	switch {
	case status.ActiveChainID == "":
	case status.ChainMatched:
		active = successStyle.Sprint(active)
	default:
		active = errorStyle.Sprint(active)
	}
	t.AppendRow(table.Row{labelStyle.Sprint("Network"), active})
	t.AppendRow(table.Row{labelStyle.Sprint("Required"), networkLabel(r.networks, status.RequiredChainID)})
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, sectionHeader.Sprint("Contract"))
	t = newKeyValueTable()
	t.AppendRow(table.Row{labelStyle.Sprint("Address"), addressStyle.Sprint(status.Contract.Hex())})
	t.AppendRow(table.Row{labelStyle.Sprint("Resolver"), string(status.Resolver)})
	t.AppendRow(table.Row{labelStyle.Sprint("Minted so far"), mintedSoFar(status)})
	t.AppendRow(table.Row{labelStyle.Sprint("Minted this session"), status.MintCount})
	if token := status.LatestToken; token != nil {
		t.AppendRow(table.Row{labelStyle.Sprint("Latest token"), fmt.Sprintf("%s (id %s)", token.Name(), token.TokenID())})
	}
	if last := status.LastAttempt; last != nil {
		t.AppendRow(table.Row{labelStyle.Sprint("Last attempt"), statusColor(last.Status).Sprint(statusLabel(last.Status))})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

// mintedSoFar renders "6 / 50", "6" or "-" when the contract was not read
func mintedSoFar(status *usecase.SessionStatus) string {
	if status.MintedSoFar == nil {
		if status.TotalSupply > 0 {
			return fmt.Sprintf("- / %d", status.TotalSupply)
		}
		return "-"
	}
	if status.TotalSupply > 0 {
		return fmt.Sprintf("%d / %d", *status.MintedSoFar, status.TotalSupply)
	}
	return fmt.Sprint(*status.MintedSoFar)
}

var _ Renderer[*usecase.SessionStatus] = (*StatusRenderer)(nil)
