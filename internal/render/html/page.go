package html

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TOCItem is a table of contents entry.
type TOCItem struct {
	ID    string
	Level int
	Text  string
}

var (
	anchorSpaces  = regexp.MustCompile(`[\s_]+`)
	anchorInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	anchorDashes  = regexp.MustCompile(`-+`)
)

// TableOfContents gives every heading in fragment an id attribute, keeping
// ids that are already set, and returns the headings in document order
// together with the rewritten fragment.
func TableOfContents(fragment template.HTML) ([]TOCItem, template.HTML, error) {
	if fragment == "" {
		return nil, fragment, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(fragment)))
	if err != nil {
		return nil, fragment, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var items []TOCItem
	used := make(map[string]bool)
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}

		id, exists := s.Attr("id")
		if !exists || id == "" {
			id = anchorID(text, i)
			for base, n := id, 2; used[id]; n++ {
				id = fmt.Sprintf("%s-%d", base, n)
			}
			s.SetAttr("id", id)
		}
		used[id] = true

		items = append(items, TOCItem{
			ID:    id,
			Level: int(goquery.NodeName(s)[1] - '0'),
			Text:  text,
		})
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return items, fragment, fmt.Errorf("failed to serialize HTML: %w", err)
	}
	return items, template.HTML(body), nil
}

// anchorID creates a URL-friendly id from heading text.
func anchorID(text string, index int) string {
	id := strings.ToLower(text)
	id = anchorSpaces.ReplaceAllString(id, "-")
	id = anchorInvalid.ReplaceAllString(id, "")
	id = anchorDashes.ReplaceAllString(id, "-")
	id = strings.Trim(id, "-")
	if id == "" {
		id = fmt.Sprintf("heading-%d", index)
	}
	return id
}

// PageOptions configures a standalone page.
type PageOptions struct {
	Title string
	// Stylesheet, when set, is linked instead of the built-in styles.
	Stylesheet string
	TOC        []TOCItem
}

// Page wraps body in a complete HTML document, with the script that makes
// galleries and tabs interactive.
func Page(body template.HTML, opts PageOptions) (string, error) {
	return execute("page", struct {
		Title      string
		Stylesheet string
		DefaultCSS template.CSS
		TOC        []TOCItem
		Body       template.HTML
		Script     template.JS
	}{opts.Title, opts.Stylesheet, template.CSS(defaultCSS), opts.TOC, body, template.JS(defaultJS)})
}
