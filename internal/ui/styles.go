// Package ui handles terminal UI rendering.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors - using more subtle, balanced palette
var (
	ColorPrimary   = lipgloss.Color("4")   // Blue
	ColorSecondary = lipgloss.Color("8")   // Gray
	ColorSuccess   = lipgloss.Color("2")   // Green (dimmer)
	ColorWarning   = lipgloss.Color("3")   // Yellow (dimmer)
	ColorDanger    = lipgloss.Color("1")   // Red (dimmer)
	ColorMuted     = lipgloss.Color("245") // Light gray
	ColorHighlight = lipgloss.Color("6")   // Cyan
	ColorText      = lipgloss.Color("252") // Light text
)

// Styles
var (
	BoxStyle       lipgloss.Style
	TitleStyle     lipgloss.Style
	HeaderStyle    lipgloss.Style
	SelectedStyle  lipgloss.Style
	NormalStyle    lipgloss.Style
	MutedStyle     lipgloss.Style
	HelpStyle      lipgloss.Style
	InputStyle     lipgloss.Style
	ErrorStyle     lipgloss.Style
	WarningStyle   lipgloss.Style
	DividerStyle   lipgloss.Style
	HeadingStyles  [7]lipgloss.Style
	MarkerStyle    lipgloss.Style
	ImageStyle     lipgloss.Style
	CodeBlockStyle lipgloss.Style

	// Widgets
	AccordionStyle     lipgloss.Style
	AccordionBodyStyle lipgloss.Style
	TileStyle          lipgloss.Style
	TileFocusStyle     lipgloss.Style
	TileCurrentStyle   lipgloss.Style
	ThumbStyle         lipgloss.Style
	ThumbCurrentStyle  lipgloss.Style
	LightboxStyle      lipgloss.Style
	TabStyle           lipgloss.Style
	TabActiveStyle     lipgloss.Style
)

// Symbols
const (
	SymbolCursor    = "›"
	SymbolBullet    = "•"
	SymbolCollapsed = "▸"
	SymbolExpanded  = "▾"
	SymbolPrev      = "‹"
	SymbolNext      = "›"
	SymbolDivider   = "─"
)

func init() {
	buildStyles()
}

// UseTheme switches the palette. "light" darkens text for light
// terminals; anything else keeps the default palette.
func UseTheme(theme string) {
	if theme == "light" {
		ColorText = lipgloss.Color("236")
		ColorMuted = lipgloss.Color("242")
	} else {
		ColorText = lipgloss.Color("252")
		ColorMuted = lipgloss.Color("245")
	}
	buildStyles()
}

func buildStyles() {
	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorMuted)

	SelectedStyle = lipgloss.NewStyle().
		Foreground(ColorHighlight).
		Bold(true)

	NormalStyle = lipgloss.NewStyle().
		Foreground(ColorText)

	MutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	InputStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorDanger)

	WarningStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)

	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)

	// Headings: 1 and 2 stand out, the rest are plain bold.
	HeadingStyles[1] = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(ColorPrimary)
	HeadingStyles[2] = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	for level := 3; level <= 6; level++ {
		HeadingStyles[level] = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	}
	HeadingStyles[0] = HeadingStyles[1]

	MarkerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	ImageStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)

	CodeBlockStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorSecondary).
		PaddingLeft(1)

	AccordionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText)

	AccordionBodyStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorSecondary).
		PaddingLeft(1).
		MarginLeft(2)

	TileStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Foreground(ColorText).
		Align(lipgloss.Center)

	TileFocusStyle = TileStyle.
		BorderForeground(ColorMuted)

	TileCurrentStyle = TileStyle.
		BorderForeground(ColorHighlight).
		Foreground(ColorHighlight).
		Bold(true)

	ThumbStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Padding(0, 1)

	ThumbCurrentStyle = lipgloss.NewStyle().
		Foreground(ColorHighlight).
		Bold(true).
		Underline(true).
		Padding(0, 1)

	LightboxStyle = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)

	TabStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Padding(0, 2)

	TabActiveStyle = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 2)
}
