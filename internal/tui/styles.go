package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/mahjongforbots/internal/tile"
)

// Static styles for content elements
var (
	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98C379")).
			Bold(true)

	ActionsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5C07B")).
			Bold(true)

	BambooStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2EA043")).
			Bold(true)

	CharacterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E06C75")).
			Bold(true)

	DotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#61AFEF")).
			Bold(true)

	HonorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D19A66")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98C379")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E06C75")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5C07B")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5C6370"))

	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2EA043")).
			Bold(true)

	InputTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DCDFE4"))
)

// paneBorder returns the rounded pane border, highlighted when focused
func paneBorder(focused bool) lipgloss.Style {
	color := lipgloss.Color("#5C6370")
	if focused {
		color = lipgloss.Color("#2EA043")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color)
}

// TileStyle returns the display style for a tile based on its suit
func TileStyle(t tile.Tile) lipgloss.Style {
	switch t.Suit {
	case tile.Bamboo:
		return BambooStyle
	case tile.Character:
		return CharacterStyle
	case tile.Dot:
		return DotStyle
	default:
		return HonorStyle
	}
}
