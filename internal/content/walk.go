package content

import (
	"strconv"
	"strings"
)

// JoinPath returns the path of the i-th child of parent. Top-level nodes
// have paths "0", "1", ...; their children "0.0", "0.1", and so on.
func JoinPath(parent string, i int) string {
	if parent == "" {
		return strconv.Itoa(i)
	}
	return parent + "." + strconv.Itoa(i)
}

// WalkFunc is called for every visited node. Returning false skips the
// node's children.
type WalkFunc func(path string, n Node) bool

// Walk visits nodes depth-first in document order.
func Walk(nodes []Node, fn WalkFunc) {
	walk("", nodes, fn)
}

func walk(parent string, nodes []Node, fn WalkFunc) {
	for i, n := range nodes {
		path := JoinPath(parent, i)
		if fn(path, n) {
			walk(path, n.Content, fn)
		}
	}
}

// PlainText returns the concatenated text of n and its descendants.
func PlainText(n Node) string {
	var b strings.Builder
	appendText(&b, n)
	return b.String()
}

func appendText(b *strings.Builder, n Node) {
	if n.Type == TypeText {
		b.WriteString(n.Text)
		return
	}
	for _, child := range n.Content {
		appendText(b, child)
	}
}

// Heading is an outline entry.
type Heading struct {
	Path  string
	Level int
	Text  string
}

// Headings lists the headings of nodes in document order.
func Headings(nodes []Node) []Heading {
	var out []Heading
	Walk(nodes, func(path string, n Node) bool {
		if n.Type == TypeHeading {
			out = append(out, Heading{Path: path, Level: n.HeadingLevel(), Text: strings.TrimSpace(PlainText(n))})
			return false
		}
		return true
	})
	return out
}

// Widget is an interactive node.
type Widget struct {
	Path string
	Type Type
	Node Node
}

// Widgets lists the interactive nodes in document order. If collapsed is
// not nil, widgets inside accordions it reports as collapsed are omitted.
func Widgets(nodes []Node, collapsed func(path string) bool) []Widget {
	var out []Widget
	Walk(nodes, func(path string, n Node) bool {
		if n.Type.IsWidget() {
			out = append(out, Widget{Path: path, Type: n.Type, Node: n})
		}
		if n.Type == TypeAccordion && collapsed != nil && collapsed(path) {
			return false
		}
		return true
	})
	return out
}

// Find returns the node at path.
func Find(nodes []Node, path string) (Node, bool) {
	if path == "" {
		return Node{}, false
	}
	var cur Node
	for _, part := range strings.Split(path, ".") {
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 || i >= len(nodes) {
			return Node{}, false
		}
		cur = nodes[i]
		nodes = cur.Content
	}
	return cur, true
}
