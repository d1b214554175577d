package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/cleared-dev/balancete/internal/validate"
)

const (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00A86B", Dark: "#00D787"})
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD75F"})
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F87"})
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"})
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

func printSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", okStyle.Render(successSymbol), message)
}

func printInfof(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", infoStyle.Render(infoSymbol), fmt.Sprintf(format, args...))
}

// statusBadge renders a validation status in its color.
func statusBadge(s validate.Status) string {
	switch s {
	case validate.StatusOK:
		return okStyle.Render(string(s))
	case validate.StatusWarning:
		return warnStyle.Render(string(s))
	default:
		return errStyle.Render(string(s))
	}
}

// isTerminal reports whether stdin is attached to a terminal. Interactive
// prompts are refused otherwise.
func isTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
