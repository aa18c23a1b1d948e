package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// SessionRenderer renders the outcome of connect
type SessionRenderer struct {
	out  io.Writer
	json bool
}

// NewSessionRenderer creates a new session renderer
func NewSessionRenderer(out io.Writer, json bool) *SessionRenderer {
	return &SessionRenderer{out: out, json: json}
}

type sessionView struct {
	Connected bool       `json:"connected"`
	Account   string     `json:"account,omitempty"`
	Chain     *chainView `json:"chain,omitempty"`
	ChainErr  string     `json:"chainError,omitempty"`
}

type chainView struct {
	Active          string `json:"active,omitempty"`
	Required        string `json:"required"`
	Matched         bool   `json:"matched"`
	SwitchRequested bool   `json:"switchRequested"`
	SwitchVerified  bool   `json:"switchVerified"`
}

func newChainView(check *domain.ChainCheckResult) *chainView {
	if check == nil {
		return nil
	}
	return &chainView{
		Active:          check.Active.String(),
		Required:        check.Required.String(),
		Matched:         check.Matched,
		SwitchRequested: check.SwitchRequested,
		SwitchVerified:  check.SwitchVerified,
	}
}

// Render prints the active account, or that none is connected
func (r *SessionRenderer) Render(result *usecase.SessionResult) error {
	if r.json {
		view := sessionView{
			Connected: result.Found,
			Account:   result.Account.String(),
			Chain:     newChainView(result.Chain),
		}
		if result.ChainErr != nil {
			view.ChainErr = result.ChainErr.Error()
		}
		return writeJSON(r.out, view)
	}

	if !result.Found {
		fmt.Fprintln(r.out, FormatWarning("No authorized account found"))
		return nil
	}
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Account:"), addressStyle.Sprint(result.Account))
	return nil
}

// ChainRenderer renders one network check
type ChainRenderer struct {
	out      io.Writer
	json     bool
	networks usecase.NetworkRegistry
}

// NewChainRenderer creates a new chain renderer
func NewChainRenderer(out io.Writer, json bool, networks usecase.NetworkRegistry) *ChainRenderer {
	return &ChainRenderer{out: out, json: json, networks: networks}
}

// Render prints the active and required chains
func (r *ChainRenderer) Render(check *domain.ChainCheckResult) error {
	if check == nil {
		return nil
	}
	if r.json {
		return writeJSON(r.out, newChainView(check))
	}

	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Active:  "), networkLabel(r.networks, check.Active))
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Required:"), networkLabel(r.networks, check.Required))

	switch {
	case check.Matched:
	case check.SwitchVerified:
		fmt.Fprintln(r.out, FormatSuccess("Wallet switched to the required network"))
	case check.SwitchRequested:
		fmt.Fprintln(r.out, FormatWarning("Switch requested, confirm it in your wallet"))
	}
	return nil
}

var (
	_ Renderer[*usecase.SessionResult]   = (*SessionRenderer)(nil)
	_ Renderer[*domain.ChainCheckResult] = (*ChainRenderer)(nil)
)
