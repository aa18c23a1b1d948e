package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// PromptAdapter handles confirmations and selections on the terminal
type PromptAdapter struct {
	config *config.RuntimeConfig
}

// NewPromptAdapter creates a new prompt adapter
func NewPromptAdapter(cfg *config.RuntimeConfig) *PromptAdapter {
	return &PromptAdapter{config: cfg}
}

// Confirm asks a yes/no question. --yes and non-interactive mode approve
// without asking.
func (p *PromptAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if p.config.Yes || p.config.NonInteractive {
		return true, nil
	}

	confirm := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		// promptui reports "n" as ErrAbort
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// SelectNetwork picks a network from a list
func (p *PromptAdapter) SelectNetwork(ctx context.Context, networks []*domain.Network, prompt string) (*domain.Network, error) {
	if p.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(networks) == 0 {
		return nil, fmt.Errorf("no networks provided for selection")
	}

	if len(networks) == 1 {
		return networks[0], nil
	}

	options := formatNetworkOptions(networks)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return networks[index], nil
}

// formatNetworkOptions creates display strings like "sepolia (11155111) [testnet]"
func formatNetworkOptions(networks []*domain.Network) []string {
	options := make([]string, len(networks))
	for i, network := range networks {
		name := color.New(color.FgWhite, color.Bold).Sprint(network.Name)
		chain := color.New(color.FgBlue).Sprint(network.ChainID.Decimal())
		if network.Testnet {
			options[i] = fmt.Sprintf("%s (%s) %s", name, chain, color.New(color.FgYellow).Sprint("[testnet]"))
		} else {
			options[i] = fmt.Sprintf("%s (%s)", name, chain)
		}
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

var (
	_ usecase.Confirmer       = (*PromptAdapter)(nil)
	_ usecase.NetworkSelector = (*PromptAdapter)(nil)
)
