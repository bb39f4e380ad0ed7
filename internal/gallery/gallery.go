// Package gallery implements the image gallery widget: an inline grid of
// tiles and a lightbox that steps through the images one at a time.
package gallery

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/henri123lemoine/quire/internal/content"
	"github.com/henri123lemoine/quire/internal/ui"
)

// DefaultThumbnails is the number of thumbnails shown in the lightbox strip.
const DefaultThumbnails = 7

// KeyMap defines the lightbox key bindings.
type KeyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Close    key.Binding
	External key.Binding
}

// DefaultKeyMap returns the default lightbox bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "close"),
		),
		External: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open externally"),
		),
	}
}

// OpenExternalMsg asks the host to open an image outside the terminal.
type OpenExternalMsg struct {
	Image content.Image
}

// Model is the state of one gallery. The zero value is an empty, closed
// gallery. Methods return the updated model.
type Model struct {
	images []content.Image
	index  int
	open   bool
	thumbs int
	keys   KeyMap
}

// New creates a closed gallery positioned on the first image.
func New(images []content.Image) Model {
	return Model{
		images: images,
		thumbs: DefaultThumbnails,
		keys:   DefaultKeyMap(),
	}
}

// WithKeys replaces the lightbox bindings.
func (m Model) WithKeys(keys KeyMap) Model {
	m.keys = keys
	return m
}

// WithThumbnails sets the size of the thumbnail strip, at most 9 so every
// thumbnail has a digit key.
func (m Model) WithThumbnails(n int) Model {
	if n > 0 {
		m.thumbs = min(n, 9)
	}
	return m
}

// SetImages replaces the images, keeping the index when it is still valid.
func (m Model) SetImages(images []content.Image) Model {
	m.images = images
	if m.index >= len(images) {
		m.index = 0
	}
	if len(images) == 0 {
		m.open = false
	}
	return m
}

// Len returns the number of images.
func (m Model) Len() int { return len(m.images) }

// Index returns the selected image index.
func (m Model) Index() int { return m.index }

// IsOpen reports whether the lightbox is showing.
func (m Model) IsOpen() bool { return m.open }

// Images returns the gallery's images.
func (m Model) Images() []content.Image { return m.images }

// Current returns the selected image.
func (m Model) Current() (content.Image, bool) {
	if len(m.images) == 0 {
		return content.Image{}, false
	}
	return m.images[m.index], true
}

func (m Model) valid(i int) bool {
	return i >= 0 && i < len(m.images)
}

// Open selects image i and opens the lightbox.
func (m Model) Open(i int) Model {
	if !m.valid(i) {
		return m
	}
	m.index = i
	m.open = true
	return m
}

// Next moves to the following image, wrapping to the first.
func (m Model) Next() Model {
	if n := len(m.images); n > 0 {
		m.index = (m.index + 1) % n
	}
	return m
}

// Prev moves to the preceding image, wrapping to the last.
func (m Model) Prev() Model {
	if n := len(m.images); n > 0 {
		m.index = (m.index - 1 + n) % n
	}
	return m
}

// Select jumps to image i.
func (m Model) Select(i int) Model {
	if m.valid(i) {
		m.index = i
	}
	return m
}

// Close closes the lightbox. The selected image is kept.
func (m Model) Close() Model {
	m.open = false
	return m
}

// Update handles lightbox keys. It ignores messages while closed.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.open {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Prev):
		return m.Prev(), nil
	case key.Matches(keyMsg, m.keys.Next):
		return m.Next(), nil
	case key.Matches(keyMsg, m.keys.Close):
		return m.Close(), nil
	case key.Matches(keyMsg, m.keys.External):
		img, ok := m.Current()
		if !ok || img.Src == "" {
			return m, nil
		}
		return m, func() tea.Msg { return OpenExternalMsg{Image: img} }
	}

	// Digits pick a numbered thumbnail from the visible strip.
	if keyMsg.Type == tea.KeyRunes && len(keyMsg.Runes) == 1 {
		if r := keyMsg.Runes[0]; r >= '1' && r <= '9' {
			start, end := m.window()
			if i := start + int(r-'1'); i < end {
				return m.Select(i), nil
			}
		}
	}
	return m, nil
}

// window returns the range of images shown in the thumbnail strip.
func (m Model) window() (start, end int) {
	n := len(m.images)
	size := m.thumbs
	if size <= 0 {
		size = DefaultThumbnails
	}
	if size >= n {
		return 0, n
	}
	start = m.index - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}

// View renders the lightbox, or nothing while it is closed.
func (m Model) View(width int) string {
	img, ok := m.Current()
	if !m.open || !ok {
		return ""
	}

	inner := width - 6
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(ansi.Truncate(img.Label(), inner, "…")))
	b.WriteString("\n\n")
	b.WriteString(ui.ImageStyle.Render("[image: " + img.Label() + "]"))
	b.WriteString("\n")
	if img.Src != "" {
		b.WriteString(ui.MutedStyle.Render(ansi.Truncate(img.Src, inner, "…")))
		b.WriteString("\n")
	}
	if img.Alt != "" && img.Alt != img.Label() {
		b.WriteString(ui.NormalStyle.Render(img.Alt))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(ui.HeaderStyle.Render(fmt.Sprintf("%d / %d", m.index+1, len(m.images))))
	b.WriteString("\n\n")
	b.WriteString(m.strip())
	b.WriteString("\n\n")
	b.WriteString(ui.HelpStyle.Render("←/→ navigate · 1-9 jump · o open · esc close"))

	style := ui.LightboxStyle
	if width > 0 {
		style = style.Width(width - 2)
	}
	return style.Render(b.String())
}

func (m Model) strip() string {
	start, end := m.window()
	var parts []string
	if start > 0 {
		parts = append(parts, ui.MutedStyle.Render(ui.SymbolPrev))
	}
	for i := start; i < end; i++ {
		label := fmt.Sprintf("%d %s", i-start+1, ansi.Truncate(m.images[i].Label(), 12, "…"))
		if i == m.index {
			parts = append(parts, ui.ThumbCurrentStyle.Render(label))
		} else {
			parts = append(parts, ui.ThumbStyle.Render(label))
		}
	}
	if end < len(m.images) {
		parts = append(parts, ui.MutedStyle.Render(ui.SymbolNext))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// Grid renders images as tiles, columns per row. When focused, the tile at
// cursor is highlighted.
func Grid(images []content.Image, columns, width, cursor int, focused bool) string {
	header := fmt.Sprintf("Gallery · %d images", len(images))
	if len(images) == 1 {
		header = "Gallery · 1 image"
	}
	if focused {
		header = ui.SelectedStyle.Render(ui.SymbolCursor + " " + header)
	} else {
		header = "  " + ui.HeaderStyle.Render(header)
	}
	if len(images) == 0 {
		return header
	}

	if columns <= 0 {
		columns = content.DefaultColumns
	}
	tileWidth := 16
	if width > 0 {
		// Two columns per tile go to its border.
		tileWidth = width/columns - 2
		if tileWidth < 8 {
			tileWidth = 8
		}
	}

	var rows []string
	for start := 0; start < len(images); start += columns {
		end := start + columns
		if end > len(images) {
			end = len(images)
		}
		tiles := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			style := ui.TileStyle
			if focused {
				style = ui.TileFocusStyle
				if i == cursor {
					style = ui.TileCurrentStyle
				}
			}
			tiles = append(tiles, style.Width(tileWidth).Render(ansi.Truncate(images[i].Label(), tileWidth, "…")))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return header + "\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}
