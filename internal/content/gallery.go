package content

import (
	"path"
	"regexp"
	"strings"
)

// Gallery layout defaults, used when a gallery node omits them.
const (
	DefaultColumns     = 3
	DefaultSpacing     = 4
	DefaultAspectRatio = "1"
)

// Image describes one gallery image.
type Image struct {
	Src   string `json:"src"`
	Alt   string `json:"alt,omitempty"`
	Title string `json:"title,omitempty"`
}

// Label returns the best short description of the image: its title, its
// caption, or the last segment of its URL.
func (i Image) Label() string {
	if i.Title != "" {
		return i.Title
	}
	if i.Alt != "" {
		return i.Alt
	}
	src := strings.TrimRight(i.Src, "/")
	if q := strings.IndexAny(src, "?#"); q >= 0 {
		src = src[:q]
	}
	if src == "" {
		return "image"
	}
	return path.Base(src)
}

// GalleryAttrs are the attributes of a gallery node.
type GalleryAttrs struct {
	Images      []Image
	Columns     int
	Spacing     int
	AspectRatio string
}

var aspectRatioPattern = regexp.MustCompile(`^\d+(\.\d+)?(\s*/\s*\d+(\.\d+)?)?$`)

// ValidAspectRatio reports whether s is a CSS aspect ratio such as "1",
// "1.5" or "16/9".
func ValidAspectRatio(s string) bool {
	return aspectRatioPattern.MatchString(s)
}

// Gallery decodes the gallery attributes of n. Missing layout hints are
// left zero; see WithDefaults.
func (n Node) Gallery() GalleryAttrs {
	g := GalleryAttrs{
		Columns:     n.Attrs.Int("columns", 0),
		Spacing:     n.Attrs.Int("spacing", 0),
		AspectRatio: n.Attrs.String("aspectRatio"),
	}

	switch list := n.Attrs["images"].(type) {
	case []Image:
		g.Images = append(g.Images, list...)
	case []any:
		for _, item := range list {
			if img, ok := imageFrom(item); ok {
				g.Images = append(g.Images, img)
			}
		}
	case []map[string]any:
		for _, item := range list {
			if img, ok := imageFrom(item); ok {
				g.Images = append(g.Images, img)
			}
		}
	}
	return g
}

func imageFrom(v any) (Image, bool) {
	switch m := v.(type) {
	case map[string]any:
		a := Attrs(m)
		return Image{Src: a.String("src"), Alt: a.String("alt"), Title: a.String("title")}, true
	case Attrs:
		return Image{Src: m.String("src"), Alt: m.String("alt"), Title: m.String("title")}, true
	case Image:
		return m, true
	}
	return Image{}, false
}

// WithDefaults fills zero or invalid layout hints from the given defaults.
func (g GalleryAttrs) WithDefaults(columns, spacing int, aspectRatio string) GalleryAttrs {
	if g.Columns <= 0 {
		g.Columns = columns
	}
	if g.Spacing <= 0 {
		g.Spacing = spacing
	}
	if g.AspectRatio == "" || !ValidAspectRatio(g.AspectRatio) {
		g.AspectRatio = aspectRatio
	}
	return g
}

// Gap returns the grid gap in rem. One spacing unit is 0.25rem.
func (g GalleryAttrs) Gap() float64 {
	return float64(g.Spacing) * 0.25
}
