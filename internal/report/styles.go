package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette of the text report.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success marks passing days and checked goals.
	Success lipgloss.Color

	// Warning marks unverifiable days and missing markers.
	Warning lipgloss.Color

	// Error marks failing days.
	Error lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Success:   lipgloss.Color("#A6E3A1"), // Green
		Warning:   lipgloss.Color("#F9E2AF"), // Yellow
		Error:     lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains the lipgloss styles used by RenderText.
// The zero value renders plain text.
type Styles struct {
	theme  *Theme
	styled bool

	// Title style for the report header.
	Title lipgloss.Style

	// Day style for day headings.
	Day lipgloss.Style

	// Field style for field names.
	Field lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme:  theme,
		styled: true,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Day: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Field: lipgloss.NewStyle().
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Error),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// PlainStyles returns styles that leave text untouched.
func PlainStyles() *Styles {
	return &Styles{theme: DefaultTheme()}
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Styled reports whether the styles emit terminal escapes.
func (s *Styles) Styled() bool {
	return s.styled
}

func (s *Styles) render(style lipgloss.Style, text string) string {
	if !s.styled {
		return text
	}
	return style.Render(text)
}
