package content

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title returns the text of the first heading in the source. Without one,
// it falls back to the file name, title-cased: "release-notes.json"
// becomes "Release Notes".
func (s *Source) Title() string {
	bodies := [][]Node{}
	if s.Doc != nil {
		bodies = append(bodies, s.Doc.Content)
	}
	for _, tab := range s.Tabs {
		bodies = append(bodies, tab.JSON.Content)
	}
	for _, nodes := range bodies {
		for _, h := range Headings(nodes) {
			if h.Text != "" {
				return h.Text
			}
		}
	}
	return TitleFromPath(s.Path)
}

// TitleFromPath turns a file name into a title.
func TitleFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	}), " ")
	if name == "" {
		return "Untitled"
	}
	return cases.Title(language.English).String(name)
}
