package html

import (
	"encoding/json"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henri123lemoine/quire/internal/content"
)

func parseNodes(t *testing.T, s string) []content.Node {
	t.Helper()
	var nodes []content.Node
	require.NoError(t, json.Unmarshal([]byte(s), &nodes))
	return nodes
}

func TestRenderBasicNodes(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "paragraph concatenates text",
			json: `[{"type":"paragraph","content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]}]`,
			want: `<p>ab</p>`,
		},
		{
			name: "text is escaped",
			json: `[{"type":"text","text":"<b>&"}]`,
			want: `&lt;b&gt;&amp;`,
		},
		{
			name: "heading level and alignment",
			json: `[{"type":"heading","attrs":{"level":3,"textAlign":"center"},"content":[{"type":"text","text":"T"}]}]`,
			want: `<h3 style="text-align: center">T</h3>`,
		},
		{
			name: "heading without attrs",
			json: `[{"type":"heading","content":[{"type":"text","text":"T"}]}]`,
			want: `<h1>T</h1>`,
		},
		{
			name: "nested list",
			json: `[{"type":"orderedList","content":[{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"x"}]}]}]}]`,
			want: `<ol><li><p>x</p></li></ol>`,
		},
		{
			name: "bullet list",
			json: `[{"type":"bulletList","content":[{"type":"bulletListItem","content":[{"type":"text","text":"x"}]}]}]`,
			want: `<ul><li>x</li></ul>`,
		},
		{
			name: "ordered list start",
			json: `[{"type":"orderedList","attrs":{"start":4}}]`,
			want: `<ol start="4"></ol>`,
		},
		{
			name: "table",
			json: `[{"type":"table","content":[{"type":"tableRow","content":[{"type":"tableCell","attrs":{"colspan":2},"content":[{"type":"text","text":"c"}]}]}]}]`,
			want: `<table class="quire-table"><tbody><tr><td colspan="2">c</td></tr></tbody></table>`,
		},
		{
			name: "accordion",
			json: `[{"type":"accordion","attrs":{"title":"More"},"content":[{"type":"text","text":"body"}]}]`,
			want: `<details class="quire-accordion"><summary>More</summary><div class="quire-accordion-panel">body</div></details>`,
		},
		{
			name: "image",
			json: `[{"type":"chakraImage","attrs":{"src":"/a.png","alt":"A","width":"200"}}]`,
			want: `<img class="quire-image" src="/a.png" alt="A" width="200">`,
		},
		{
			name: "unknown type dropped",
			json: `[{"type":"video"},{"type":"text","text":"kept"}]`,
			want: `kept`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(DefaultOptions())
			got := r.Render(parseNodes(t, tt.json))
			assert.Equal(t, tt.want, string(got))
			assert.Empty(t, r.Faults())
		})
	}
}

func TestImageUnsafeURLIsFiltered(t *testing.T) {
	r := New(DefaultOptions())
	got := r.Render(parseNodes(t, `[{"type":"chakraImage","attrs":{"src":"javascript:alert(1)"}}]`))
	assert.NotContains(t, string(got), "javascript:")
}

func TestHTMLCodeBlock(t *testing.T) {
	r := New(DefaultOptions())
	got := r.Render(parseNodes(t, `[{"type":"htmlCodeBlock","attrs":{"htmlContent":"<p>raw <em>html</em>"}},{"type":"text","text":"after"}]`))

	assert.Contains(t, string(got), `<div class="quire-html" contenteditable="false"><p>raw <em>html</em></p></div>`)
	assert.True(t, strings.HasSuffix(string(got), "after"))
}

func TestHTMLCodeBlockKeepsHeadElements(t *testing.T) {
	r := New(DefaultOptions())
	got := string(r.Render(parseNodes(t, `[{"type":"htmlCodeBlock","attrs":{"htmlContent":"<style>.x{color:red}</style><p class=\"x\">hi</p>"}}]`)))

	assert.Equal(t, `<div class="quire-html" contenteditable="false"><style>.x{color:red}</style><p class="x">hi</p></div>`, got)
	assert.Empty(t, r.Faults())
}

func TestGalleryMarkup(t *testing.T) {
	r := New(DefaultOptions())
	got := string(r.Render(parseNodes(t, `[{"type":"gallery","attrs":{
		"images":[{"src":"a.jpg","alt":"A"},{"src":"b.jpg","title":"Bee"}],
		"columns":2,"spacing":8,"aspectRatio":"16/9"}}]`)))

	assert.Contains(t, got, `data-gallery="0"`)
	assert.Contains(t, got, `grid-template-columns: repeat(2, 1fr); gap: 2rem;`)
	assert.Contains(t, got, `aspect-ratio: 16/9;`)
	assert.Equal(t, 2, strings.Count(got, `class="quire-gallery-item"`))
	assert.Equal(t, 2, strings.Count(got, `class="quire-thumb"`))
	assert.Contains(t, got, `<dialog class="quire-lightbox"`)
	assert.Contains(t, got, `title="Bee"`)
}

func TestGalleryDefaultsAndEmpty(t *testing.T) {
	r := New(DefaultOptions())
	got := string(r.Render(parseNodes(t, `[{"type":"gallery","attrs":{"aspectRatio":"1;background:red"}}]`)))

	assert.Contains(t, got, `repeat(3, 1fr); gap: 1rem;`)
	assert.NotContains(t, got, "background")
	assert.NotContains(t, got, "<dialog")
	assert.Empty(t, r.Faults())
}

func TestRenderTabs(t *testing.T) {
	tabs := content.TabSet{
		{Title: "One", JSON: content.Document{Content: parseNodes(t, `[{"type":"paragraph","content":[{"type":"text","text":"first"}]}]`)}},
		{Title: "Two", Content: "**bold** text"},
	}

	r := New(DefaultOptions())
	got, err := r.RenderTabs(tabs)
	require.NoError(t, err)

	s := string(got)
	assert.Equal(t, 2, strings.Count(s, `role="tab"`))
	assert.Equal(t, 2, strings.Count(s, `role="tabpanel"`))
	assert.Contains(t, s, `aria-selected="true">One</button>`)
	assert.Contains(t, s, `aria-selected="false">Two</button>`)
	assert.Contains(t, s, `<p>first</p>`)
	assert.Contains(t, s, `<strong>bold</strong>`)
	assert.Equal(t, 1, strings.Count(s, " hidden>"))
}

func TestTableOfContents(t *testing.T) {
	frag := template.HTML(`<h1>Getting Started</h1><p>x</p><h2 id="keep">Setup</h2><h2>Getting Started</h2><h3>   </h3>`)

	items, out, err := TableOfContents(frag)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, TOCItem{ID: "getting-started", Level: 1, Text: "Getting Started"}, items[0])
	assert.Equal(t, "keep", items[1].ID)
	assert.Equal(t, "getting-started-2", items[2].ID)
	assert.Contains(t, string(out), `<h1 id="getting-started">`)
	assert.Contains(t, string(out), `<h2 id="getting-started-2">`)
}

func TestPage(t *testing.T) {
	page, err := Page("<p>body</p>", PageOptions{
		Title: "Doc <1>",
		TOC:   []TOCItem{{ID: "a", Level: 2, Text: "A"}},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Doc &lt;1&gt;</title>")
	assert.Contains(t, page, `<a href="#a">A</a>`)
	assert.Contains(t, page, "<p>body</p>")
	assert.Contains(t, page, ".quire-gallery-grid")
	assert.Contains(t, page, "<script>")
	assert.Contains(t, page, "dialog.showModal()")
	assert.Contains(t, page, "(index + 1) % n")

	linked, err := Page("", PageOptions{Title: "x", Stylesheet: "site.css"})
	require.NoError(t, err)
	assert.Contains(t, linked, `<link rel="stylesheet" href="site.css">`)
	assert.NotContains(t, linked, "<style>")
}
