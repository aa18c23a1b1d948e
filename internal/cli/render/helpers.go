package render

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color styles shared by the renderers
var (
	labelStyle    = color.New(color.Bold)
	addressStyle  = color.New(color.FgCyan)
	hashStyle     = color.New(color.Faint)
	successStyle  = color.New(color.FgGreen)
	errorStyle    = color.New(color.FgRed)
	warningStyle  = color.New(color.FgYellow)
	linkStyle     = color.New(color.FgBlue, color.Underline)
	sectionHeader = color.New(color.Bold, color.FgHiWhite)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warningStyle.Sprintf("⚠️  %s", lastSegment(message))
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	msg := lastSegment(message)

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return errorStyle.Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successStyle.Sprintf("✅ %s", message)
}

// lastSegment extracts the innermost message of an error chain
func lastSegment(message string) string {
	parts := strings.Split(message, ": ")
	return parts[len(parts)-1]
}

// statusLabel turns awaiting_confirmation into "Awaiting Confirmation"
func statusLabel(status domain.MintStatus) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(status), "_", " "))
}

func statusColor(status domain.MintStatus) *color.Color {
	switch status {
	case domain.MintConfirmed:
		return successStyle
	case domain.MintFailed:
		return errorStyle
	default:
		return warningStyle
	}
}

// networkLabel renders "sepolia (11155111)" or the bare chain id
func networkLabel(networks usecase.NetworkRegistry, id domain.ChainID) string {
	if id == "" {
		return "-"
	}
	if networks != nil {
		if network, ok := networks.ByChainID(id); ok {
			return network.Name + " (" + id.Decimal() + ")"
		}
	}
	return id.String()
}

// newKeyValueTable returns a borderless two-column table
func newKeyValueTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateRows = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	return t
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
