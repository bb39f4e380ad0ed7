package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrEmptyInput is returned when there is nothing to parse.
	ErrEmptyInput = errors.New("empty input")

	// ErrUnknownShape is returned when the input is valid JSON but neither a
	// document, a node list nor a tab set.
	ErrUnknownShape = errors.New("input is not a document, node list or tab set")
)

// Document is the root of a content tree.
type Document struct {
	Type    Type   `json:"type"`
	Content []Node `json:"content"`
}

// Tab is one entry of a tab set: a title, the raw source the body was
// authored from, and the parsed body.
type Tab struct {
	Title   string   `json:"title"`
	Content string   `json:"content,omitempty"`
	JSON    Document `json:"json"`
}

// TabSet is an ordered list of tabs.
type TabSet []Tab

// Titles returns the tab titles in order.
func (ts TabSet) Titles() []string {
	titles := make([]string, len(ts))
	for i, t := range ts {
		titles[i] = t.Title
	}
	return titles
}

// Source is a parsed input file. Exactly one of Doc and Tabs is set.
type Source struct {
	Path string
	Doc  *Document
	Tabs TabSet
}

// IsTabbed reports whether the source is a tab set.
func (s *Source) IsTabbed() bool {
	return s.Doc == nil
}

// Nodes returns the nodes to render: the document body, or the body of the
// tab at index tab. An out-of-range tab yields nil.
func (s *Source) Nodes(tab int) []Node {
	if s.Doc != nil {
		return s.Doc.Content
	}
	if tab < 0 || tab >= len(s.Tabs) {
		return nil
	}
	return s.Tabs[tab].JSON.Content
}

// Load reads and parses the file at path.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	src, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	src.Path = path
	return src, nil
}

// Parse decodes data, detecting its shape:
//
//	{"type":"doc","content":[...]}     a document
//	[{"type":"paragraph",...}, ...]    a bare node list
//	{"tabs":[...]}                     a tab set
//	[{"title":...,"json":{...}}, ...]  a bare tab set
func Parse(data []byte) (*Source, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrEmptyInput
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	switch {
	case root.IsObject() && root.Get("tabs").IsArray():
		var wrapper struct {
			Tabs TabSet `json:"tabs"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("decoding tabs: %w", err)
		}
		return &Source{Tabs: wrapper.Tabs}, nil

	case root.IsObject() && (root.Get("content").IsArray() || root.Get("type").String() == string(TypeDoc)):
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		if doc.Type == "" {
			doc.Type = TypeDoc
		}
		return &Source{Doc: &doc}, nil

	case root.IsArray() && looksLikeTabs(root):
		var tabs TabSet
		if err := json.Unmarshal(data, &tabs); err != nil {
			return nil, fmt.Errorf("decoding tabs: %w", err)
		}
		return &Source{Tabs: tabs}, nil

	case root.IsArray():
		var nodes []Node
		if err := json.Unmarshal(data, &nodes); err != nil {
			return nil, fmt.Errorf("decoding nodes: %w", err)
		}
		return &Source{Doc: &Document{Type: TypeDoc, Content: nodes}}, nil
	}

	return nil, ErrUnknownShape
}

// looksLikeTabs reports whether the first element of arr is a tab
// descriptor rather than a node.
func looksLikeTabs(arr gjson.Result) bool {
	first := arr.Get("0")
	if !first.IsObject() {
		return false
	}
	return !first.Get("type").Exists() && first.Get("title").Exists() &&
		(first.Get("json").Exists() || first.Get("content").Exists())
}
