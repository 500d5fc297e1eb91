package settings

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette is a theme rendered as terminal styles
type Palette struct {
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Accent    lipgloss.Style
	Text      lipgloss.Style
	Title     lipgloss.Style
}

// NewPalette builds terminal styles from a theme's colours
func NewPalette(t Theme) Palette {
	primary := lipgloss.Color(t.Colors.Primary)
	return Palette{
		Primary:   lipgloss.NewStyle().Foreground(primary),
		Secondary: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Secondary)),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Accent)).Italic(true),
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Text)),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Colors.Accent)).
			Padding(0, 1),
	}
}

// TerminalApplier keeps the palette of the most recently applied theme
type TerminalApplier struct {
	mu      sync.RWMutex
	theme   Theme
	palette Palette
}

// ApplyTheme implements ThemeApplier
func (a *TerminalApplier) ApplyTheme(t Theme) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.theme = t
	a.palette = NewPalette(t)
}

// Palette returns the active palette
func (a *TerminalApplier) Palette() Palette {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.palette
}

// Theme returns the active theme
func (a *TerminalApplier) Theme() Theme {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.theme
}
