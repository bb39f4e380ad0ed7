package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/henri123lemoine/quire/internal/config"
	"github.com/henri123lemoine/quire/internal/content"
	"github.com/henri123lemoine/quire/internal/render"
)

const testDoc = `{
  "type": "doc",
  "content": [
    {"type": "heading", "attrs": {"level": 1}, "content": [{"type": "text", "text": "Guide"}]},
    {"type": "paragraph", "content": [{"type": "text", "text": "Welcome."}]},
    {"type": "accordion", "attrs": {"title": "More"}, "content": [
      {"type": "heading", "attrs": {"level": 2}, "content": [{"type": "text", "text": "Hidden Section"}]},
      {"type": "gallery", "attrs": {"images": [{"src": "a.jpg"}, {"src": "b.jpg", "alt": "Bee"}]}}
    ]},
    {"type": "gallery", "attrs": {"images": []}}
  ]
}`

const testTabs = `{"tabs": [
  {"title": "One", "json": {"type": "doc", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "first"}]}]}},
  {"title": "Two", "json": {"type": "doc", "content": [{"type": "accordion", "attrs": {"title": "Inner"}}]}}
]}`

func newTestModel(t *testing.T, doc string) Model {
	t.Helper()
	src, err := content.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	src.Path = "/docs/guide.json"

	model := New(config.DefaultConfig(), src)
	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return newModel.(Model)
}

func press(m Model, msg tea.KeyMsg) Model {
	newModel, _ := m.Update(msg)
	return newModel.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	cfg := config.DefaultConfig()
	src, err := content.Parse([]byte(testDoc))
	if err != nil {
		t.Fatal(err)
	}

	model := New(cfg, src)

	if model.state != StateView {
		t.Errorf("Expected initial state StateView, got %d", model.state)
	}
	if model.ready {
		t.Error("Expected ready to be false before the window size is known")
	}
	if model.View() != "Loading..." {
		t.Errorf("Expected loading view, got %q", model.View())
	}
	if _, ok := model.focus.Current(); ok {
		t.Error("Expected nothing focused initially")
	}
	// Both galleries are tracked, even the one inside the collapsed accordion.
	if len(model.galleries) != 2 {
		t.Errorf("Expected 2 galleries, got %d", len(model.galleries))
	}
	// The collapsed accordion hides its gallery from the focus ring.
	if model.focus.Len() != 2 {
		t.Errorf("Expected 2 focusable widgets, got %d", model.focus.Len())
	}
}

func TestStateTransitions(t *testing.T) {
	m := newTestModel(t, testDoc)

	// Press '?' for help
	m = press(m, runes("?"))
	if m.state != StateHelp {
		t.Errorf("Expected StateHelp after '?', got %d", m.state)
	}

	// Press any key to close help
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateView {
		t.Errorf("Expected StateView after closing help, got %d", m.state)
	}

	// Press '/' for outline
	m = press(m, runes("/"))
	if m.state != StateOutline {
		t.Errorf("Expected StateOutline after '/', got %d", m.state)
	}
	if len(m.matches) != 2 {
		t.Errorf("Expected 2 outline entries, got %d", len(m.matches))
	}

	// 'q' is typed into the filter, not treated as quit
	m = press(m, runes("q"))
	if m.state != StateOutline || m.ShouldQuit() {
		t.Error("Expected 'q' to be typed into the outline filter")
	}

	// Press 'esc' to leave the outline
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateView {
		t.Errorf("Expected StateView after 'esc', got %d", m.state)
	}
}

func TestAccordionToggle(t *testing.T) {
	m := newTestModel(t, testDoc)

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if path, _ := m.focus.Current(); path != "2" {
		t.Fatalf("Expected accordion focused, got %q", path)
	}
	if !strings.Contains(m.View(), "› ▸ More") {
		t.Error("Expected focused collapsed accordion header in view")
	}
	if strings.Contains(m.View(), "Hidden Section") {
		t.Error("Expected accordion body to be hidden while collapsed")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.accordions.Expanded("0:2") {
		t.Fatal("Expected accordion expanded after enter")
	}
	if !strings.Contains(m.View(), "Hidden Section") {
		t.Error("Expected accordion body to be shown once expanded")
	}
	// The gallery inside joins the focus ring, focus stays put.
	if m.focus.Len() != 3 {
		t.Errorf("Expected 3 focusable widgets, got %d", m.focus.Len())
	}
	if path, _ := m.focus.Current(); path != "2" {
		t.Errorf("Expected focus to stay on accordion, got %q", path)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.accordions.Expanded("0:2") {
		t.Error("Expected accordion collapsed after second enter")
	}
}

func TestGalleryLightbox(t *testing.T) {
	m := newTestModel(t, testDoc)

	// Expand the accordion, then focus its gallery.
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if path, _ := m.focus.Current(); path != "2.1" {
		t.Fatalf("Expected gallery focused, got %q", path)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateLightbox {
		t.Fatalf("Expected StateLightbox after enter, got %d", m.state)
	}
	if !strings.Contains(m.View(), "1 / 2") {
		t.Error("Expected lightbox counter in view")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.galleries["0:2.1"].Index(); got != 1 {
		t.Errorf("Expected index 1 after right, got %d", got)
	}

	// Quit keys close the lightbox instead of the app
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateView {
		t.Errorf("Expected StateView after esc, got %d", m.state)
	}
	if m.ShouldQuit() {
		t.Error("Expected esc not to quit")
	}
	if got := m.galleries["0:2.1"].Index(); got != 1 {
		t.Errorf("Expected index kept after close, got %d", got)
	}
}

func TestEmptyGalleryDoesNotOpen(t *testing.T) {
	m := newTestModel(t, testDoc)

	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if path, _ := m.focus.Current(); path != "3" {
		t.Fatalf("Expected empty gallery focused, got %q", path)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateView {
		t.Errorf("Expected to stay in StateView, got %d", m.state)
	}
	if m.status == "" {
		t.Error("Expected a status message for an empty gallery")
	}
}

func TestGalleryCursorKeys(t *testing.T) {
	m := newTestModel(t, testDoc)
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})

	tests := []struct {
		key  tea.KeyMsg
		want int
	}{
		{runes("l"), 1},
		{runes("l"), 0},
		{runes("h"), 1},
		{tea.KeyMsg{Type: tea.KeyLeft}, 0},
	}

	for _, tt := range tests {
		m = press(m, tt.key)
		if got := m.galleries["0:2.1"].Index(); got != tt.want {
			t.Errorf("After %q: index = %d, want %d", tt.key.String(), got, tt.want)
		}
	}
}

func TestTabSwitching(t *testing.T) {
	m := newTestModel(t, testTabs)

	if !strings.Contains(m.View(), "first") {
		t.Error("Expected first tab body in view")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(m, runes("]"))
	if m.tabs.Selected() != 1 {
		t.Fatalf("Expected tab 1 after ']', got %d", m.tabs.Selected())
	}
	if _, ok := m.focus.Current(); ok {
		t.Error("Expected focus cleared after switching tabs")
	}
	if !strings.Contains(m.View(), "Inner") {
		t.Error("Expected second tab body in view")
	}

	// Accordion state is kept per tab
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.accordions.Expanded("1:0") {
		t.Error("Expected accordion on tab 1 expanded")
	}
	if m.accordions.Expanded("0:0") {
		t.Error("Expected tab 0 state untouched")
	}

	// Wraps around
	m = press(m, runes("]"))
	if m.tabs.Selected() != 0 {
		t.Errorf("Expected tab 0 after wrapping, got %d", m.tabs.Selected())
	}
	m = press(m, runes("["))
	if m.tabs.Selected() != 1 {
		t.Errorf("Expected tab 1 after '[', got %d", m.tabs.Selected())
	}
}

func TestOutlineFilter(t *testing.T) {
	m := newTestModel(t, testDoc)
	m = press(m, runes("/"))

	m.outlineInput.SetValue("hidden")
	m.applyOutlineFilter()
	if len(m.matches) != 1 {
		t.Fatalf("Expected 1 match for 'hidden', got %d", len(m.matches))
	}
	if h := m.headings[m.matches[0].heading]; h.Text != "Hidden Section" {
		t.Errorf("Expected 'Hidden Section', got %q", h.Text)
	}

	m.outlineInput.SetValue("zzz")
	m.applyOutlineFilter()
	if len(m.matches) != 0 {
		t.Errorf("Expected no matches for 'zzz', got %d", len(m.matches))
	}

	m.outlineInput.SetValue("")
	m.applyOutlineFilter()
	if len(m.matches) != 2 {
		t.Errorf("Expected 2 matches after clearing filter, got %d", len(m.matches))
	}
}

func TestOutlineJumpExpandsAccordion(t *testing.T) {
	m := newTestModel(t, testDoc)
	m = press(m, runes("/"))
	m.outlineInput.SetValue("hidden")
	m.applyOutlineFilter()

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateView {
		t.Errorf("Expected StateView after jumping, got %d", m.state)
	}
	if !m.accordions.Expanded("0:2") {
		t.Error("Expected enclosing accordion expanded")
	}
	if !strings.Contains(m.View(), "Hidden Section") {
		t.Error("Expected heading visible after jump")
	}
}

func TestHeadingLine(t *testing.T) {
	lines := []string{"Intro", "", "text about Intro", "Intro", "Usage"}
	headings := []content.Heading{
		{Path: "0", Text: "Intro"},
		{Path: "2", Text: "Intro"},
		{Path: "3", Text: "Usage"},
	}

	tests := []struct {
		path string
		want int
	}{
		{"0", 0},
		{"2", 2},
		{"3", 4},
		{"9", -1},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := headingLine(lines, headings, tt.path); got != tt.want {
				t.Errorf("headingLine(%q) = %d, want %d", tt.path, got, tt.want)
			}
		})
	}
}

func TestRuneIndexes(t *testing.T) {
	got := runeIndexes("héllo", []int{0, 3, 4})
	want := []int{0, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("runeIndexes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("runeIndexes()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestWindowSizeMessage(t *testing.T) {
	m := newTestModel(t, testDoc)

	if m.width != 100 {
		t.Errorf("Expected width 100, got %d", m.width)
	}
	if m.height != 40 {
		t.Errorf("Expected height 40, got %d", m.height)
	}
	if !m.ready {
		t.Error("Expected ready after WindowSizeMsg")
	}
	if !strings.Contains(m.View(), "Guide") {
		t.Error("Expected document title in view")
	}
}

func TestDocumentLoadedMessage(t *testing.T) {
	m := newTestModel(t, testDoc)

	newModel, _ := m.Update(DocumentLoadedMsg{Err: errors.New("boom")})
	m = newModel.(Model)
	if m.err == nil {
		t.Error("Expected error to be set")
	}
	if !strings.Contains(m.View(), "Welcome.") {
		t.Error("Expected the previous document to stay on screen")
	}

	src, err := content.Parse([]byte(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Updated."}]}]}`))
	if err != nil {
		t.Fatal(err)
	}
	newModel, _ = m.Update(DocumentLoadedMsg{Source: src})
	m = newModel.(Model)
	if m.err != nil {
		t.Errorf("Expected error cleared, got %v", m.err)
	}
	if m.status != "Reloaded" {
		t.Errorf("Expected status 'Reloaded', got %q", m.status)
	}
	if m.source.Path != "/docs/guide.json" {
		t.Errorf("Expected path kept, got %q", m.source.Path)
	}
	if !strings.Contains(m.View(), "Updated.") {
		t.Error("Expected the new document on screen")
	}
	if len(m.galleries) != 0 {
		t.Errorf("Expected stale galleries dropped, got %d", len(m.galleries))
	}
}

func TestFaultsInStatusLine(t *testing.T) {
	m := newTestModel(t, testDoc)
	m.faults = []render.Fault{{Path: "1", Type: content.TypeHeading, Err: errors.New("bad level")}}
	m.status = "Reloaded"

	if got := m.statusLine(); got != "Reloaded • 1 node(s) could not be rendered" {
		t.Errorf("Unexpected status line %q", got)
	}

	m.config.Render.ShowFaults = false
	if got := m.statusLine(); got != "Reloaded" {
		t.Errorf("Expected faults hidden with show_faults off, got %q", got)
	}
}

func TestWithPosition(t *testing.T) {
	src, err := content.Parse([]byte(testTabs))
	if err != nil {
		t.Fatal(err)
	}
	model := New(config.DefaultConfig(), src).WithPosition(0, 1)
	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m := newModel.(Model)

	offset, tab := m.Position()
	if tab != 1 {
		t.Errorf("Expected tab 1, got %d", tab)
	}
	if offset != 0 {
		t.Errorf("Expected offset 0, got %d", offset)
	}
	if m.pendingOffset != -1 {
		t.Error("Expected pending offset consumed")
	}
}

func TestKeyMapFromConfig(t *testing.T) {
	keysConfig := &config.KeysConfig{
		Up:       "up,k,w",
		Down:     "down,j,s",
		PageDown: "space",
		Quit:     "q,ctrl+c,x",
	}

	km := KeyMapFromConfig(keysConfig)

	// Check that custom keys work
	if !key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}}, km.Up) {
		t.Error("Expected 'w' to match Up binding")
	}

	if !key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, km.Down) {
		t.Error("Expected 's' to match Down binding")
	}

	if !key.Matches(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, km.PageDown) {
		t.Error("Expected space to match PageDown binding")
	}

	if !key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, km.Quit) {
		t.Error("Expected 'x' to match Quit binding")
	}

	// Unset keys keep their defaults
	if !key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, km.Activate) {
		t.Error("Expected enter to match default Activate binding")
	}
	if km.Up.Help().Desc != "scroll up" {
		t.Errorf("Expected help text kept, got %q", km.Up.Help().Desc)
	}
}

func TestHelpSections(t *testing.T) {
	sections := DefaultKeyMap().HelpSections()

	if len(sections) != 4 {
		t.Fatalf("Expected 4 help sections, got %d", len(sections))
	}
	for _, s := range sections {
		if len(s.Bindings) == 0 {
			t.Errorf("Section %q has no bindings", s.Title)
		}
	}
}

func TestShouldQuit(t *testing.T) {
	m := newTestModel(t, testDoc)

	if m.ShouldQuit() {
		t.Error("Expected ShouldQuit to be false initially")
	}

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = newModel.(Model)

	if !m.ShouldQuit() {
		t.Error("Expected ShouldQuit to be true after 'q'")
	}
	if cmd == nil {
		t.Error("Expected quit command")
	}
}
