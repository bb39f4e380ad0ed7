package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henri123lemoine/quire/internal/content"
)

// textHandlers is a minimal backend: leaves print their text, containers
// wrap their children in the type name.
func textHandlers() Handlers {
	wrap := func(r *Renderer, path string, n content.Node) (string, error) {
		return string(n.Type) + "(" + strings.Join(r.Children(path, n), ",") + ")", nil
	}
	h := Handlers{
		content.TypeText: func(r *Renderer, path string, n content.Node) (string, error) {
			return n.Text, nil
		},
		content.TypeParagraph: func(r *Renderer, path string, n content.Node) (string, error) {
			return strings.Join(r.Children(path, n), ""), nil
		},
	}
	for _, t := range content.KnownTypes() {
		if _, ok := h[t]; !ok {
			h[t] = wrap
		}
	}
	return h
}

func TestRenderOneOutputPerKnownNode(t *testing.T) {
	var nodes []content.Node
	for _, typ := range content.KnownTypes() {
		nodes = append(nodes, content.Node{Type: typ, Text: "x"})
		nodes = append(nodes, content.Node{Type: content.Type("unknown-" + string(typ))})
	}

	r := New(textHandlers())
	out := r.Render(nodes)

	require.Len(t, out, len(content.KnownTypes()))
	assert.Equal(t, "x", out[0])
	assert.Empty(t, r.Faults())
}

func TestUnknownTypeDoesNotAffectSiblings(t *testing.T) {
	nodes := []content.Node{
		{Type: content.TypeText, Text: "a"},
		{Type: "video", Content: []content.Node{{Type: content.TypeText, Text: "hidden"}}},
		{Type: content.TypeText, Text: "b"},
	}

	r := New(textHandlers())
	assert.Equal(t, []string{"a", "b"}, r.Render(nodes))
	assert.Empty(t, r.Faults())
}

func TestParagraphConcatenatesText(t *testing.T) {
	p := content.Node{Type: content.TypeParagraph, Content: []content.Node{
		{Type: content.TypeText, Text: "Hello"},
		{Type: content.TypeText, Text: ", "},
		{Type: content.TypeText, Text: "world"},
	}}

	out := New(textHandlers()).Render([]content.Node{p})
	assert.Equal(t, []string{"Hello, world"}, out)
}

func TestNestedLeafRenderedOnce(t *testing.T) {
	tree := []content.Node{{Type: content.TypeBulletList, Content: []content.Node{
		{Type: content.TypeListItem, Content: []content.Node{
			{Type: content.TypeParagraph, Content: []content.Node{{Type: content.TypeText, Text: "first"}}},
		}},
		{Type: content.TypeListItem, Content: []content.Node{
			{Type: content.TypeParagraph, Content: []content.Node{{Type: content.TypeText, Text: "second"}}},
		}},
	}}}

	out := New(textHandlers()).Render(tree)
	require.Len(t, out, 1)
	assert.Equal(t, "bulletList(listItem(first),listItem(second))", out[0])
	assert.Equal(t, 1, strings.Count(out[0], "first"))
	assert.Less(t, strings.Index(out[0], "first"), strings.Index(out[0], "second"))
}

func TestFaultIsolation(t *testing.T) {
	h := textHandlers()
	h[content.TypeHeading] = func(r *Renderer, path string, n content.Node) (string, error) {
		panic("boom")
	}
	h[content.TypeImage] = func(r *Renderer, path string, n content.Node) (string, error) {
		return "", errors.New("bad image")
	}

	nodes := []content.Node{
		{Type: content.TypeText, Text: "before"},
		{Type: content.TypeHeading, Content: []content.Node{{Type: content.TypeText, Text: "lost"}}},
		{Type: content.TypeAccordion, Content: []content.Node{
			{Type: content.TypeText, Text: "in"},
			{Type: content.TypeImage},
			{Type: content.TypeText, Text: "side"},
		}},
		{Type: content.TypeText, Text: "after"},
	}

	r := New(h)
	out := r.Render(nodes)

	assert.Equal(t, []string{"before", "accordion(in,side)", "after"}, out)

	faults := r.Faults()
	require.Len(t, faults, 2)
	assert.Equal(t, "1", faults[0].Path)
	assert.Equal(t, content.TypeHeading, faults[0].Type)
	assert.Contains(t, faults[0].Error(), "boom")
	assert.Equal(t, "2.1", faults[1].Path)
	assert.EqualError(t, errors.Unwrap(faults[1]), "bad image")

	// A fresh render clears old faults.
	r.Render([]content.Node{{Type: content.TypeText, Text: "ok"}})
	assert.Empty(t, r.Faults())
}

func TestSupports(t *testing.T) {
	r := New(Handlers{content.TypeText: nil})
	assert.True(t, r.Supports(content.TypeText))
	assert.False(t, r.Supports(content.TypeGallery))
}
