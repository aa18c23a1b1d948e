package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// MintRenderer renders the outcome of one mint attempt
type MintRenderer struct {
	out  io.Writer
	json bool
}

// NewMintRenderer creates a new mint renderer
func NewMintRenderer(out io.Writer, json bool) *MintRenderer {
	return &MintRenderer{out: out, json: json}
}

type tokenView struct {
	TokenID     string                  `json:"tokenId" yaml:"tokenId"`
	TxHash      string                  `json:"txHash" yaml:"txHash"`
	Name        string                  `json:"name" yaml:"name"`
	Image       string                  `json:"image,omitempty" yaml:"image,omitempty"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Attributes  []domain.TokenAttribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

func newTokenView(token *domain.MintedToken) *tokenView {
	if token == nil {
		return nil
	}
	view := &tokenView{
		TokenID: token.TokenID().String(),
		TxHash:  token.TxHash().Hex(),
		Name:    token.Name(),
		Image:   token.ImageRef(),
	}
	if md := token.Metadata(); md != nil {
		view.Description = md.Description
		view.Attributes = md.Attributes
	}
	return view
}

type attemptView struct {
	ID          string `json:"id" yaml:"id"`
	Status      string `json:"status" yaml:"status"`
	Account     string `json:"account" yaml:"account"`
	TxHash      string `json:"txHash,omitempty" yaml:"txHash,omitempty"`
	BlockNumber uint64 `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newAttemptView(req *domain.MintRequest) *attemptView {
	if req == nil {
		return nil
	}
	view := &attemptView{
		ID:          req.ID,
		Status:      string(req.Status),
		Account:     req.Account.String(),
		BlockNumber: req.BlockNumber,
	}
	if req.TxHash != (common.Hash{}) {
		view.TxHash = req.TxHash.Hex()
	}
	if req.Err != nil {
		view.Error = req.Err.Error()
	}
	return view
}

type mintView struct {
	Attempt        *attemptView `json:"attempt"`
	Token          *tokenView   `json:"token,omitempty"`
	TokenError     string       `json:"tokenError,omitempty"`
	MintCount      uint64       `json:"mintCount"`
	ExplorerURL    string       `json:"explorerUrl,omitempty"`
	MarketplaceURL string       `json:"marketplaceUrl,omitempty"`
}

// Render prints the attempt, the token when one was resolved and links
func (r *MintRenderer) Render(result *usecase.MintResult) error {
	if r.json {
		view := mintView{
			Attempt:        newAttemptView(&result.Request),
			Token:          newTokenView(result.Token),
			MintCount:      result.MintCount,
			ExplorerURL:    result.ExplorerURL,
			MarketplaceURL: result.MarketplaceURL,
		}
		if result.TokenErr != nil {
			view.TokenError = result.TokenErr.Error()
		}
		return writeJSON(r.out, view)
	}

	req := result.Request
	t := newKeyValueTable()
	t.AppendRow(table.Row{labelStyle.Sprint("Status"), statusColor(req.Status).Sprint(statusLabel(req.Status))})
	if req.TxHash != (common.Hash{}) {
		t.AppendRow(table.Row{labelStyle.Sprint("Transaction"), hashStyle.Sprint(req.TxHash.Hex())})
	}
	if req.BlockNumber > 0 {
		t.AppendRow(table.Row{labelStyle.Sprint("Block"), req.BlockNumber})
	}
	if token := result.Token; token != nil {
		t.AppendRow(table.Row{labelStyle.Sprint("Token"), fmt.Sprintf("%s (id %s)", token.Name(), token.TokenID())})
		if token.ImageRef() != "" {
			t.AppendRow(table.Row{labelStyle.Sprint("Image"), linkStyle.Sprint(token.ImageRef())})
		}
	}
	if req.Status == domain.MintConfirmed {
		t.AppendRow(table.Row{labelStyle.Sprint("Minted this session"), result.MintCount})
	}
	if result.ExplorerURL != "" {
		t.AppendRow(table.Row{labelStyle.Sprint("Explorer"), linkStyle.Sprint(result.ExplorerURL)})
	}
	if result.MarketplaceURL != "" {
		t.AppendRow(table.Row{labelStyle.Sprint("Marketplace"), linkStyle.Sprint(result.MarketplaceURL)})
	}
	fmt.Fprintln(r.out, t.Render())

	if result.TokenErr != nil {
		fmt.Fprintln(r.out, warningStyle.Sprintf("⚠️  Minted token could not be shown: %v", result.TokenErr))
	}
	return nil
}

var _ Renderer[*usecase.MintResult] = (*MintRenderer)(nil)
