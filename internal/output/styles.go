package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/vburojevic/logtriage/internal/domain"
)

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Severity styles
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Summary styles
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Caution lipgloss.Style
	Danger  lipgloss.Style
}{
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),             // Cyan
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),            // Orange
	Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red bold

	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:   lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),  // Green
	Caution: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red
}

// SeverityStyle returns the style for a severity
func SeverityStyle(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeverityInfo:
		return Styles.Info
	case domain.SeverityWarning:
		return Styles.Warning
	case domain.SeverityError:
		return Styles.Error
	default:
		return lipgloss.NewStyle()
	}
}

// StatusText returns styled status text for a finished run
func StatusText(s *domain.RunSummary) string {
	switch {
	case s.Failed > 0:
		return Styles.Danger.Render("FAILED UNITS")
	case s.Interrupted > 0:
		return Styles.Caution.Render("INTERRUPTED")
	case s.Processed > 0:
		return Styles.Caution.Render("MATCHES FOUND")
	default:
		return Styles.Success.Render("OK")
	}
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DisableStylesUnlessTTY strips colors when w is not a terminal
func DisableStylesUnlessTTY(w io.Writer) {
	if IsTerminal(w) {
		return
	}
	Styles.Info = Styles.Info.UnsetForeground().UnsetBold()
	Styles.Warning = Styles.Warning.UnsetForeground().UnsetBold()
	Styles.Error = Styles.Error.UnsetForeground().UnsetBold()
	Styles.Header = Styles.Header.UnsetForeground().UnsetBold()
	Styles.Label = Styles.Label.UnsetForeground()
	Styles.Value = Styles.Value.UnsetBold()
	Styles.Success = Styles.Success.UnsetForeground().UnsetBold()
	Styles.Caution = Styles.Caution.UnsetForeground().UnsetBold()
	Styles.Danger = Styles.Danger.UnsetForeground().UnsetBold()
}
