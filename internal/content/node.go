// Package content defines the document tree rendered by quire.
package content

// Type is the discriminant of a node.
type Type string

// Node types understood by the renderers.
const (
	TypeText           Type = "text"
	TypeParagraph      Type = "paragraph"
	TypeHeading        Type = "heading"
	TypeOrderedList    Type = "orderedList"
	TypeBulletList     Type = "bulletList"
	TypeListItem       Type = "listItem"
	TypeBulletListItem Type = "bulletListItem"
	TypeTable          Type = "table"
	TypeTableRow       Type = "tableRow"
	TypeTableCell      Type = "tableCell"
	TypeAccordion      Type = "accordion"
	TypeGallery        Type = "gallery"
	TypeImage          Type = "chakraImage"
	TypeHTMLCodeBlock  Type = "htmlCodeBlock"
)

// TypeDoc is the type tag of a document root.
const TypeDoc Type = "doc"

var knownTypes = map[Type]bool{
	TypeText:           true,
	TypeParagraph:      true,
	TypeHeading:        true,
	TypeOrderedList:    true,
	TypeBulletList:     true,
	TypeListItem:       true,
	TypeBulletListItem: true,
	TypeTable:          true,
	TypeTableRow:       true,
	TypeTableCell:      true,
	TypeAccordion:      true,
	TypeGallery:        true,
	TypeImage:          true,
	TypeHTMLCodeBlock:  true,
}

// KnownTypes returns the node vocabulary in a fixed order.
func KnownTypes() []Type {
	return []Type{
		TypeText, TypeParagraph, TypeHeading,
		TypeOrderedList, TypeBulletList, TypeListItem, TypeBulletListItem,
		TypeTable, TypeTableRow, TypeTableCell,
		TypeAccordion, TypeGallery, TypeImage, TypeHTMLCodeBlock,
	}
}

// Known reports whether t is part of the node vocabulary.
func (t Type) Known() bool {
	return knownTypes[t]
}

// IsWidget reports whether nodes of this type carry interactive state.
func (t Type) IsWidget() bool {
	return t == TypeAccordion || t == TypeGallery
}

// Node is one entry of the content tree.
type Node struct {
	Type    Type   `json:"type"`
	Attrs   Attrs  `json:"attrs,omitempty"`
	Content []Node `json:"content,omitempty"`
	Text    string `json:"text,omitempty"`
}

// HeadingLevel returns the heading level clamped to 1..6.
func (n Node) HeadingLevel() int {
	level := n.Attrs.Int("level", 1)
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

// TextAlign returns the text alignment of a heading or paragraph, or ""
// when it is missing or not one of left, right, center and justify.
func (n Node) TextAlign() string {
	switch align := n.Attrs.String("textAlign"); align {
	case "left", "right", "center", "justify":
		return align
	}
	return ""
}
