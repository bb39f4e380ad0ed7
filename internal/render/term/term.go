// Package term renders content trees as styled terminal text.
package term

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"

	"github.com/henri123lemoine/quire/internal/content"
	"github.com/henri123lemoine/quire/internal/gallery"
	"github.com/henri123lemoine/quire/internal/render"
	"github.com/henri123lemoine/quire/internal/ui"
)

// State exposes the widget state the renderer needs. Paths are node paths
// as produced by content.Walk.
type State interface {
	Expanded(path string) bool
	Focused(path string) bool
	GalleryIndex(path string) int
}

// Static is a State with no focus and every accordion either open or
// closed.
type Static struct {
	ExpandAll bool
}

func (s Static) Expanded(string) bool    { return s.ExpandAll }
func (s Static) Focused(string) bool     { return false }
func (s Static) GalleryIndex(string) int { return 0 }

// Options configures a terminal renderer.
type Options struct {
	// Width wraps paragraphs when positive.
	Width         int
	ShowImageURLs bool
	// Columns is used for galleries that do not set their own.
	Columns int
	State   State
}

// Renderer renders nodes for the terminal.
type Renderer struct {
	opts Options
	r    *render.Renderer
}

// New creates a terminal renderer.
func New(opts Options) *Renderer {
	if opts.State == nil {
		opts.State = Static{ExpandAll: true}
	}
	if opts.Columns <= 0 {
		opts.Columns = content.DefaultColumns
	}
	t := &Renderer{opts: opts}
	t.r = render.New(t.handlers())
	return t
}

// Render renders top-level nodes, separated by blank lines.
func (t *Renderer) Render(nodes []content.Node) string {
	return strings.Join(t.r.Render(nodes), "\n\n")
}

// Faults returns the nodes dropped by the last Render.
func (t *Renderer) Faults() []render.Fault {
	return t.r.Faults()
}

func (t *Renderer) handlers() render.Handlers {
	return render.Handlers{
		content.TypeText:           renderText,
		content.TypeParagraph:      t.paragraph,
		content.TypeHeading:        t.heading,
		content.TypeOrderedList:    t.orderedList,
		content.TypeBulletList:     t.bulletList,
		content.TypeListItem:       blocks,
		content.TypeBulletListItem: blocks,
		content.TypeTable:          t.table,
		content.TypeTableRow:       tableRow,
		content.TypeTableCell:      tableCell,
		content.TypeAccordion:      t.accordion,
		content.TypeGallery:        t.gallery,
		content.TypeImage:          t.image,
		content.TypeHTMLCodeBlock:  htmlBlock,
	}
}

// width returns the wrap width available at path, or 0 for no wrapping.
func (t *Renderer) width(path string) int {
	if t.opts.Width <= 0 {
		return 0
	}
	w := t.opts.Width - 2*strings.Count(path, ".")
	if w < 10 {
		w = 10
	}
	return w
}

func renderText(_ *render.Renderer, _ string, n content.Node) (string, error) {
	return n.Text, nil
}

// blocks stacks the rendered children of n line by line.
func blocks(r *render.Renderer, path string, n content.Node) (string, error) {
	return strings.Join(r.Children(path, n), "\n"), nil
}

func (t *Renderer) paragraph(r *render.Renderer, path string, n content.Node) (string, error) {
	s := strings.Join(r.Children(path, n), "")
	if w := t.width(path); w > 0 {
		s = ansi.Wrap(s, w, "")
	}
	return s, nil
}

func (t *Renderer) heading(r *render.Renderer, path string, n content.Node) (string, error) {
	level := n.HeadingLevel()
	text := strings.Join(r.Children(path, n), "")
	style := ui.HeadingStyles[level]

	if w := t.width(path); w > 0 {
		switch n.TextAlign() {
		case "center":
			style = style.Width(w).Align(lipgloss.Center)
		case "right":
			style = style.Width(w).Align(lipgloss.Right)
		}
	}
	return style.Render(text), nil
}

// hang prefixes the first line of body with marker and indents the
// remaining lines to line up under it.
func hang(marker, body string) string {
	indent := strings.Repeat(" ", lipgloss.Width(marker))
	lines := strings.Split(body, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = marker + lines[i]
		} else if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func (t *Renderer) orderedList(r *render.Renderer, path string, n content.Node) (string, error) {
	start := n.Attrs.Int("start", 1)
	items := r.Children(path, n)

	widest := len(fmt.Sprintf("%d.", start+len(items)-1))
	out := make([]string, len(items))
	for i, item := range items {
		num := fmt.Sprintf("%d.", start+i)
		marker := ui.MarkerStyle.Render(num) + strings.Repeat(" ", widest-len(num)+1)
		out[i] = hang(marker, item)
	}
	return strings.Join(out, "\n"), nil
}

func (t *Renderer) bulletList(r *render.Renderer, path string, n content.Node) (string, error) {
	items := r.Children(path, n)
	marker := ui.MarkerStyle.Render(ui.SymbolBullet) + " "
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = hang(marker, item)
	}
	return strings.Join(out, "\n"), nil
}

// table renders rows and cells itself so the grid can be laid out as a
// whole. A failing cell is left blank.
func (t *Renderer) table(r *render.Renderer, path string, n content.Node) (string, error) {
	var rows [][]string
	columns := 0
	for i, row := range n.Content {
		if row.Type != content.TypeTableRow {
			continue
		}
		rowPath := content.JoinPath(path, i)
		var cells []string
		for j, cell := range row.Content {
			s, _ := r.Node(content.JoinPath(rowPath, j), cell)
			cells = append(cells, s)
		}
		if len(cells) > columns {
			columns = len(cells)
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 || columns == 0 {
		return "", nil
	}
	for i := range rows {
		for len(rows[i]) < columns {
			rows[i] = append(rows[i], "")
		}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(ui.DividerStyle).
		Rows(rows...)
	return tbl.Render(), nil
}

func tableRow(r *render.Renderer, path string, n content.Node) (string, error) {
	return strings.Join(r.Children(path, n), " │ "), nil
}

func tableCell(r *render.Renderer, path string, n content.Node) (string, error) {
	return strings.Join(r.Children(path, n), "\n"), nil
}

func (t *Renderer) accordion(r *render.Renderer, path string, n content.Node) (string, error) {
	expanded := t.opts.State.Expanded(path)

	symbol := ui.SymbolCollapsed
	if expanded {
		symbol = ui.SymbolExpanded
	}
	title := n.Attrs.String("title")
	if title == "" {
		title = "Details"
	}

	var header string
	if t.opts.State.Focused(path) {
		header = ui.SelectedStyle.Render(ui.SymbolCursor + " " + symbol + " " + title)
	} else {
		header = "  " + ui.AccordionStyle.Render(symbol+" "+title)
	}

	if !expanded {
		return header, nil
	}
	body := strings.Join(r.Children(path, n), "\n")
	if body == "" {
		return header, nil
	}
	return header + "\n" + ui.AccordionBodyStyle.Render(body), nil
}

func (t *Renderer) gallery(_ *render.Renderer, path string, n content.Node) (string, error) {
	g := n.Gallery().WithDefaults(t.opts.Columns, content.DefaultSpacing, content.DefaultAspectRatio)
	return gallery.Grid(g.Images, g.Columns, t.width(path), t.opts.State.GalleryIndex(path), t.opts.State.Focused(path)), nil
}

func (t *Renderer) image(_ *render.Renderer, _ string, n content.Node) (string, error) {
	src := n.Attrs.String("src")
	img := content.Image{Src: src, Alt: n.Attrs.String("alt"), Title: n.Attrs.String("title")}
	s := ui.ImageStyle.Render("[image: " + img.Label() + "]")
	if t.opts.ShowImageURLs && src != "" {
		s += " " + ui.MutedStyle.Render(src)
	}
	return s, nil
}

// blockElements start on a new line in htmlBlock text.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"ul": true, "ol": true, "table": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// htmlBlock shows the text content of an embedded HTML block, one line per
// block-level element.
func htmlBlock(_ *render.Renderer, _ string, n content.Node) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(n.Attrs.String("htmlContent")))
	if err != nil {
		return "", fmt.Errorf("parsing html block: %w", err)
	}
	doc.Find("script, style").Remove()

	var text strings.Builder
	for _, node := range doc.Find("body").Nodes {
		appendBlockText(&text, node)
	}

	var lines []string
	for _, line := range strings.Split(text.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", nil
	}
	return ui.CodeBlockStyle.Render(strings.Join(lines, "\n")), nil
}

func appendBlockText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendBlockText(b, c)
	}
	if block {
		b.WriteString("\n")
	}
}
