package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// State constants (matching app.State)
const (
	StateView = iota
	StateLightbox
	StateOutline
	StateHelp
)

// HelpBinding represents a keybinding for help display.
type HelpBinding struct {
	Keys string
	Desc string
}

// HelpSection represents a section of help bindings.
type HelpSection struct {
	Title    string
	Bindings []HelpBinding
}

// OutlineEntry is one heading in the outline picker.
type OutlineEntry struct {
	Level int
	Text  string
	// Matched holds the indexes of runes matched by the filter.
	Matched []int
}

// RenderParams contains all parameters needed for rendering.
type RenderParams struct {
	State         int
	Width         int
	Height        int
	Title         string
	Path          string
	Tabs          string
	Body          string
	ScrollPercent float64
	Status        string
	Err           error
	Lightbox      string
	OutlineInput  string
	Outline       []OutlineEntry
	OutlineCursor int
	OutlineOffset int
	VisibleCount  int
	HelpSections  []HelpSection
}

// MinWidth is the absolute minimum terminal width we try to support.
const MinWidth = 30

// MinHeight is the absolute minimum terminal height we try to support.
const MinHeight = 8

// ContentWidth returns the width available inside the box.
func ContentWidth(width int) int {
	return max(width, MinWidth) - 4 // Account for box borders and padding
}

// ChromeHeight returns the lines the document view spends outside the
// document body.
func ChromeHeight(hasTabs, hasErr bool) int {
	// Box borders, header, two dividers, status and help lines.
	h := 7
	if hasTabs {
		h++
	}
	if hasErr {
		h++
	}
	return h
}

// Render renders the full UI.
func Render(p RenderParams) string {
	// Use actual size but clamp to minimum to prevent rendering issues.
	if p.Width < MinWidth {
		p.Width = MinWidth
	}
	if p.Height < MinHeight {
		p.Height = MinHeight
	}

	switch p.State {
	case StateLightbox:
		return renderLightbox(p)
	case StateOutline:
		return renderOutline(p)
	case StateHelp:
		return renderHelp(p)
	default:
		return renderView(p)
	}
}

// renderView renders the document with its header and status line.
func renderView(p RenderParams) string {
	var b strings.Builder
	contentWidth := ContentWidth(p.Width)

	header := TitleStyle.Render(p.Title)
	if p.Path != "" {
		header += "  " + MutedStyle.Render(p.Path)
	}
	b.WriteString(header + "\n")
	if p.Tabs != "" {
		b.WriteString(p.Tabs + "\n")
	}
	b.WriteString(DividerStyle.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")

	if p.Err != nil {
		b.WriteString(ErrorStyle.Render("Error: "+p.Err.Error()) + "\n")
	}

	b.WriteString(p.Body + "\n")
	b.WriteString(DividerStyle.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")

	percent := fmt.Sprintf("%3.f%%", p.ScrollPercent*100)
	gap := contentWidth - lipgloss.Width(p.Status) - lipgloss.Width(percent)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(WarningStyle.Render(p.Status) + strings.Repeat(" ", gap) + MutedStyle.Render(percent) + "\n")

	help := compactHelp(
		"j/k scroll • tab focus • enter toggle/open • [/] tabs • / outline • ? help • q quit",
		"tab focus • enter open • / outline • ? help",
		p.Width,
	)
	b.WriteString(HelpStyle.Render(help))

	return wrapInBox(b.String(), p.Width, p.Height)
}

// renderLightbox centers the gallery lightbox on screen.
func renderLightbox(p RenderParams) string {
	return lipgloss.Place(p.Width, p.Height, lipgloss.Center, lipgloss.Center, p.Lightbox)
}

// renderOutline renders the heading picker.
func renderOutline(p RenderParams) string {
	var b strings.Builder
	contentWidth := ContentWidth(p.Width)

	b.WriteString(HeaderStyle.Render("OUTLINE") + "  ")
	b.WriteString(p.OutlineInput + "\n")
	b.WriteString(DividerStyle.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")

	if len(p.Outline) == 0 {
		b.WriteString("\n" + MutedStyle.Render("No matching headings.") + "\n")
	} else {
		// Calculate visible range
		startIdx := p.OutlineOffset
		endIdx := p.OutlineOffset + p.VisibleCount
		if p.VisibleCount <= 0 || endIdx > len(p.Outline) {
			endIdx = len(p.Outline)
		}
		if startIdx >= len(p.Outline) || startIdx < 0 {
			startIdx = 0
		}

		// Show scroll indicator if items above
		if startIdx > 0 {
			b.WriteString(MutedStyle.Render(fmt.Sprintf("  ↑ %d more above", startIdx)) + "\n")
		}

		for i := startIdx; i < endIdx; i++ {
			b.WriteString(renderOutlineEntry(p.Outline[i], i == p.OutlineCursor))
			if i < endIdx-1 {
				b.WriteString("\n")
			}
		}

		// Show scroll indicator if items below
		if endIdx < len(p.Outline) {
			b.WriteString("\n" + MutedStyle.Render(fmt.Sprintf("  ↓ %d more below", len(p.Outline)-endIdx)))
		}
	}

	b.WriteString("\n" + DividerStyle.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")
	b.WriteString(HelpStyle.Render("↑/↓ select • enter jump • esc cancel"))

	return wrapInBox(b.String(), p.Width, p.Height)
}

func renderOutlineEntry(e OutlineEntry, selected bool) string {
	indent := strings.Repeat("  ", max(e.Level-1, 0))

	matched := make(map[int]bool, len(e.Matched))
	for _, i := range e.Matched {
		matched[i] = true
	}
	var text strings.Builder
	for i, r := range []rune(e.Text) {
		if matched[i] {
			text.WriteString(SelectedStyle.Render(string(r)))
		} else {
			text.WriteRune(r)
		}
	}

	if selected {
		return SelectedStyle.Render(SymbolCursor) + " " + indent + text.String()
	}
	return "  " + indent + NormalStyle.Render(text.String())
}

func renderHelp(p RenderParams) string {
	var b strings.Builder
	contentWidth := ContentWidth(p.Width)

	b.WriteString(HeaderStyle.Render("HELP") + "\n")
	b.WriteString(DividerStyle.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n\n")

	// Render each help section from the passed bindings
	for i, section := range p.HelpSections {
		b.WriteString(TitleStyle.Render(section.Title) + "\n")
		b.WriteString(DividerStyle.Render(strings.Repeat(SymbolDivider, min(40, contentWidth))) + "\n")
		for _, binding := range section.Bindings {
			// Pad keys to 12 chars for alignment
			keys := binding.Keys
			if w := lipgloss.Width(keys); w < 12 {
				keys += strings.Repeat(" ", 12-w)
			}
			b.WriteString(MutedStyle.Render("  "+keys) + " " + binding.Desc + "\n")
		}
		if i < len(p.HelpSections)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + DividerStyle.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")
	b.WriteString(HelpStyle.Render("Press any key to close"))

	return wrapInBox(b.String(), p.Width, p.Height)
}

func wrapInBox(content string, width, height int) string {
	boxWidth := width - 2
	// Use actual width, just ensure minimum for box borders
	if boxWidth < MinWidth-2 {
		boxWidth = MinWidth - 2
	}

	// Don't force height - let content determine size
	style := BoxStyle.Width(boxWidth)

	return style.Render(content)
}

func compactHelp(full, compact string, width int) string {
	// If terminal is wide enough, use full help text
	if width >= 90 {
		return full
	}
	return compact
}
