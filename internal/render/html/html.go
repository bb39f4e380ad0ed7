// Package html renders content trees to HTML markup for a host page.
//
// Galleries render a grid plus a <dialog class="quire-lightbox">, and tab
// sets render role="tab" buttons and role="tabpanel" panels. Page includes
// a script that wires them up. A host embedding fragments without Page
// drives them itself through the data-index attributes and the
// quire-lightbox-* and quire-thumb classes.
package html

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/henri123lemoine/quire/internal/content"
	"github.com/henri123lemoine/quire/internal/render"
)

// Options controls gallery defaults for nodes that omit layout hints.
type Options struct {
	Columns     int
	Spacing     int
	AspectRatio string
}

// DefaultOptions returns the stock gallery layout.
func DefaultOptions() Options {
	return Options{
		Columns:     content.DefaultColumns,
		Spacing:     content.DefaultSpacing,
		AspectRatio: content.DefaultAspectRatio,
	}
}

// Renderer renders nodes and tab sets to HTML.
type Renderer struct {
	opts   Options
	r      *render.Renderer
	md     goldmark.Markdown
	faults []render.Fault
}

// New creates an HTML renderer.
func New(opts Options) *Renderer {
	h := &Renderer{
		opts: opts,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
	}
	h.r = render.New(h.handlers())
	return h
}

// Render renders a node list.
func (h *Renderer) Render(nodes []content.Node) template.HTML {
	out := h.r.Render(nodes)
	h.faults = h.r.Faults()
	return template.HTML(strings.Join(out, "\n"))
}

// RenderTabs renders one header and one panel per tab. The first tab is
// selected. A tab without a parsed body falls back to its raw content,
// read as Markdown.
func (h *Renderer) RenderTabs(tabs content.TabSet) (template.HTML, error) {
	h.faults = nil
	panels := make([]template.HTML, len(tabs))
	for i, tab := range tabs {
		if len(tab.JSON.Content) == 0 && strings.TrimSpace(tab.Content) != "" {
			md, err := h.Markdown(tab.Content)
			if err != nil {
				return "", fmt.Errorf("tab %q: %w", tab.Title, err)
			}
			panels[i] = md
			continue
		}
		panels[i] = template.HTML(strings.Join(h.r.Render(tab.JSON.Content), "\n"))
		for _, f := range h.r.Faults() {
			f.Path = fmt.Sprintf("tab%d:%s", i, f.Path)
			h.faults = append(h.faults, f)
		}
	}

	var b strings.Builder
	err := templates.ExecuteTemplate(&b, "tabs", struct {
		Titles   []string
		Panels   []template.HTML
		Selected int
	}{tabs.Titles(), panels, 0})
	if err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}

// Markdown converts Markdown source to HTML. Raw HTML in the source is
// not passed through.
func (h *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Faults returns the nodes dropped by the last Render or RenderTabs.
func (h *Renderer) Faults() []render.Fault {
	return h.faults
}

func (h *Renderer) handlers() render.Handlers {
	return render.Handlers{
		content.TypeText:           renderText,
		content.TypeParagraph:      h.paragraph,
		content.TypeHeading:        h.heading,
		content.TypeOrderedList:    h.orderedList,
		content.TypeBulletList:     h.wrap("bulletList"),
		content.TypeListItem:       h.wrap("listItem"),
		content.TypeBulletListItem: h.wrap("listItem"),
		content.TypeTable:          h.wrap("table"),
		content.TypeTableRow:       h.wrap("tableRow"),
		content.TypeTableCell:      h.tableCell,
		content.TypeAccordion:      h.accordion,
		content.TypeGallery:        h.gallery,
		content.TypeImage:          h.image,
		content.TypeHTMLCodeBlock:  h.htmlBlock,
	}
}

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func children(r *render.Renderer, path string, n content.Node) template.HTML {
	return template.HTML(strings.Join(r.Children(path, n), ""))
}

func renderText(_ *render.Renderer, _ string, n content.Node) (string, error) {
	return template.HTMLEscapeString(n.Text), nil
}

// wrap renders a container whose template only needs its children.
func (h *Renderer) wrap(name string) render.Handler {
	return func(r *render.Renderer, path string, n content.Node) (string, error) {
		return execute(name, struct{ Children template.HTML }{children(r, path, n)})
	}
}

func (h *Renderer) paragraph(r *render.Renderer, path string, n content.Node) (string, error) {
	return execute("paragraph", struct {
		Align    string
		Children template.HTML
	}{n.TextAlign(), children(r, path, n)})
}

func (h *Renderer) heading(r *render.Renderer, path string, n content.Node) (string, error) {
	return execute("h"+strconv.Itoa(n.HeadingLevel()), struct {
		ID       string
		Align    string
		Children template.HTML
	}{n.Attrs.String("id"), n.TextAlign(), children(r, path, n)})
}

func (h *Renderer) orderedList(r *render.Renderer, path string, n content.Node) (string, error) {
	return execute("orderedList", struct {
		Start    int
		Children template.HTML
	}{n.Attrs.Int("start", 1), children(r, path, n)})
}

func (h *Renderer) tableCell(r *render.Renderer, path string, n content.Node) (string, error) {
	return execute("tableCell", struct {
		Colspan  int
		Rowspan  int
		Children template.HTML
	}{n.Attrs.Int("colspan", 1), n.Attrs.Int("rowspan", 1), children(r, path, n)})
}

func (h *Renderer) accordion(r *render.Renderer, path string, n content.Node) (string, error) {
	return execute("accordion", struct {
		Title    string
		Children template.HTML
	}{n.Attrs.String("title"), children(r, path, n)})
}

func (h *Renderer) image(_ *render.Renderer, _ string, n content.Node) (string, error) {
	return execute("image", struct {
		Src, Alt, Title, Width, Height string
	}{
		n.Attrs.String("src"),
		n.Attrs.String("alt"),
		n.Attrs.String("title"),
		n.Attrs.String("width"),
		n.Attrs.String("height"),
	})
}

// htmlBlock embeds the block's raw markup. The markup is trusted. It is
// parsed as the children of a div and serialized again, so unbalanced tags
// stay inside the block and leading <style> or <script> elements are kept.
func (h *Renderer) htmlBlock(_ *render.Renderer, _ string, n content.Node) (string, error) {
	raw := n.Attrs.String("htmlContent")
	parent := &xhtml.Node{Type: xhtml.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := xhtml.ParseFragment(strings.NewReader(raw), parent)
	if err != nil {
		return "", fmt.Errorf("parsing html block: %w", err)
	}

	var b strings.Builder
	for _, node := range nodes {
		if err := xhtml.Render(&b, node); err != nil {
			return "", fmt.Errorf("serializing html block: %w", err)
		}
	}
	return execute("htmlCodeBlock", struct{ HTML template.HTML }{template.HTML(b.String())})
}

func (h *Renderer) gallery(_ *render.Renderer, path string, n content.Node) (string, error) {
	g := n.Gallery().WithDefaults(h.opts.Columns, h.opts.Spacing, h.opts.AspectRatio).
		WithDefaults(content.DefaultColumns, content.DefaultSpacing, content.DefaultAspectRatio)

	data := struct {
		Path      string
		Columns   int
		GridStyle template.CSS
		ItemStyle template.CSS
		Images    []content.Image
		Index     int
		Current   *content.Image
	}{
		Path:    path,
		Columns: g.Columns,
		// Columns and gap are numbers; the aspect ratio was validated above.
		GridStyle: template.CSS(fmt.Sprintf("grid-template-columns: repeat(%d, 1fr); gap: %srem;",
			g.Columns, strconv.FormatFloat(g.Gap(), 'f', -1, 64))),
		ItemStyle: template.CSS("aspect-ratio: " + g.AspectRatio + ";"),
		Images:    g.Images,
	}
	if len(g.Images) > 0 {
		data.Current = &g.Images[0]
	}
	return execute("gallery", data)
}
