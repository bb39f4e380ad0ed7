// Package widgets holds the presentation state of tab sets, accordions and
// the widget focus ring.
package widgets

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/henri123lemoine/quire/internal/ui"
)

// Tabs tracks the selected tab of a tab set. Only the selected panel is
// shown; rendering the panels is left to the caller.
type Tabs struct {
	titles   []string
	selected int
}

// NewTabs creates a tab strip with the first tab selected.
func NewTabs(titles []string) Tabs {
	return Tabs{titles: titles}
}

// Len returns the number of tabs.
func (t Tabs) Len() int { return len(t.titles) }

// Selected returns the selected tab index.
func (t Tabs) Selected() int { return t.selected }

// Titles returns the tab titles in order.
func (t Tabs) Titles() []string { return t.titles }

// Next selects the following tab, wrapping to the first.
func (t Tabs) Next() Tabs {
	if n := len(t.titles); n > 0 {
		t.selected = (t.selected + 1) % n
	}
	return t
}

// Prev selects the preceding tab, wrapping to the last.
func (t Tabs) Prev() Tabs {
	if n := len(t.titles); n > 0 {
		t.selected = (t.selected - 1 + n) % n
	}
	return t
}

// Select selects tab i. Out-of-range values are ignored.
func (t Tabs) Select(i int) Tabs {
	if i >= 0 && i < len(t.titles) {
		t.selected = i
	}
	return t
}

// View renders the tab strip, truncated to width when width is positive.
func (t Tabs) View(width int) string {
	if len(t.titles) == 0 {
		return ""
	}
	parts := make([]string, len(t.titles))
	for i, title := range t.titles {
		if title == "" {
			title = "Untitled"
		}
		if i == t.selected {
			parts[i] = ui.TabActiveStyle.Render(title)
		} else {
			parts[i] = ui.TabStyle.Render(title)
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if width > 0 && lipgloss.Width(row) > width {
		row = ansi.Truncate(row, width, "…")
	}
	return row
}

// Accordions is the set of expanded accordion paths. Sections start
// collapsed.
type Accordions map[string]bool

// Expanded reports whether the accordion at path is open.
func (a Accordions) Expanded(path string) bool {
	return a[path]
}

// Toggle opens or closes one section and returns its new state.
func (a Accordions) Toggle(path string) bool {
	if a[path] {
		delete(a, path)
		return false
	}
	a[path] = true
	return true
}

// Retain forgets sections whose path is not in paths.
func (a Accordions) Retain(paths []string) {
	keep := make(map[string]bool, len(paths))
	for _, p := range paths {
		keep[p] = true
	}
	for p := range a {
		if !keep[p] {
			delete(a, p)
		}
	}
}

// Paths returns the expanded paths, sorted.
func (a Accordions) Paths() []string {
	out := make([]string, 0, len(a))
	for p := range a {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Focus is a ring over the interactive widgets of a document. Nothing is
// focused until Next or Prev is called.
type Focus struct {
	paths []string
	index int
}

// NewFocus creates a ring over paths, in document order.
func NewFocus(paths []string) Focus {
	return Focus{paths: paths, index: -1}
}

// Len returns the number of focusable widgets.
func (f Focus) Len() int { return len(f.paths) }

// Current returns the focused path.
func (f Focus) Current() (string, bool) {
	if f.index < 0 || f.index >= len(f.paths) {
		return "", false
	}
	return f.paths[f.index], true
}

// Focused reports whether path has focus.
func (f Focus) Focused(path string) bool {
	cur, ok := f.Current()
	return ok && cur == path
}

// Next focuses the following widget, wrapping to the first.
func (f Focus) Next() Focus {
	n := len(f.paths)
	if n == 0 {
		return f
	}
	if f.index < 0 {
		f.index = 0
	} else {
		f.index = (f.index + 1) % n
	}
	return f
}

// Prev focuses the preceding widget, wrapping to the last.
func (f Focus) Prev() Focus {
	n := len(f.paths)
	if n == 0 {
		return f
	}
	if f.index < 0 {
		f.index = n - 1
	} else {
		f.index = (f.index - 1 + n) % n
	}
	return f
}

// Clear drops focus.
func (f Focus) Clear() Focus {
	f.index = -1
	return f
}

// Sync replaces the ring, keeping focus on the same path if it is still
// present.
func (f Focus) Sync(paths []string) Focus {
	cur, ok := f.Current()
	f.paths = paths
	f.index = -1
	if !ok {
		return f
	}
	for i, p := range paths {
		if p == cur {
			f.index = i
			break
		}
	}
	return f
}
