package app

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/henri123lemoine/quire/internal/config"
	"github.com/henri123lemoine/quire/internal/content"
	"github.com/henri123lemoine/quire/internal/debug"
	"github.com/henri123lemoine/quire/internal/exec"
	"github.com/henri123lemoine/quire/internal/gallery"
	"github.com/henri123lemoine/quire/internal/render"
	"github.com/henri123lemoine/quire/internal/render/term"
	"github.com/henri123lemoine/quire/internal/ui"
	"github.com/henri123lemoine/quire/internal/widgets"
)

// State represents the current UI state.
type State int

const (
	StateView State = iota
	StateLightbox
	StateOutline
	StateHelp
)

// outlineMatch is a heading that passed the outline filter.
type outlineMatch struct {
	heading int
	matched []int
}

// Model is the main application model.
type Model struct {
	// Configuration
	config *config.Config
	source *content.Source

	// Widget state. Accordion and gallery keys are prefixed with the tab
	// index, see stateKey.
	tabs       widgets.Tabs
	accordions widgets.Accordions
	galleries  map[string]gallery.Model
	focus      widgets.Focus
	lightbox   string

	// Rendering
	viewport viewport.Model
	lines    []string
	faults   []render.Fault

	// State
	state  State
	err    error
	status string

	// Outline
	outlineInput  textinput.Model
	headings      []content.Heading
	matches       []outlineMatch
	outlineCursor int
	outlineOffset int

	// UI
	width         int
	height        int
	keys          KeyMap
	ready         bool
	pendingOffset int

	// Exit behavior
	shouldQuit bool
}

// New creates a new Model for a loaded source.
func New(cfg *config.Config, src *content.Source) Model {
	outlineInput := textinput.New()
	outlineInput.Placeholder = "heading..."
	outlineInput.CharLimit = 100

	m := Model{
		config:        cfg,
		source:        src,
		tabs:          widgets.NewTabs(src.Tabs.Titles()),
		accordions:    widgets.Accordions{},
		galleries:     make(map[string]gallery.Model),
		focus:         widgets.NewFocus(nil),
		viewport:      viewport.New(0, 0),
		keys:          KeyMapFromConfig(&cfg.Keys),
		outlineInput:  outlineInput,
		state:         StateView,
		pendingOffset: -1,
	}
	m.syncWidgets()
	return m
}

// WithPosition restores a saved reading position once the window size is
// known.
func (m Model) WithPosition(offset, tab int) Model {
	m.tabs = m.tabs.Select(tab)
	m.pendingOffset = offset
	m.syncWidgets()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.refresh()
		if m.pendingOffset >= 0 {
			m.viewport.SetYOffset(m.pendingOffset)
			m.pendingOffset = -1
		}
		return m, nil

	case tea.KeyMsg:
		// ctrl+c always quits; other quit keys only apply while reading.
		if msg.String() == "ctrl+c" || (key.Matches(msg, m.keys.Quit) && m.state == StateView) {
			m.shouldQuit = true
			return m, tea.Quit
		}

		// Delegate to state-specific handler
		return m.handleKeyPress(msg)

	case FileChangedMsg:
		return m, loadDocument(m.source.Path)

	case DocumentLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.refresh()
			return m, nil
		}
		m.err = nil
		m.reload(msg.Source)
		m.status = "Reloaded"
		return m, nil

	case gallery.OpenExternalMsg:
		return m, openImage(m.config.Open.Command, msg.Image)

	case ImageOpenedMsg:
		if msg.Err != nil {
			m.err = fmt.Errorf("opening %s: %w", msg.Image.Label(), msg.Err)
			return m, nil
		}
		m.status = "Opened " + msg.Image.Label()
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles key presses based on current state.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateView:
		return m.handleViewKeys(msg)
	case StateLightbox:
		return m.handleLightboxKeys(msg)
	case StateOutline:
		return m.handleOutlineKeys(msg)
	case StateHelp:
		return m.handleHelpKeys(msg)
	}
	return m, nil
}

// handleViewKeys handles key presses while reading.
func (m Model) handleViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Up):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ScrollUp(max(m.viewport.Height-1, 1))
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ScrollDown(max(m.viewport.Height-1, 1))
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()

	case key.Matches(msg, m.keys.NextWidget):
		m.focus = m.focus.Next()
		m.refresh()
		m.scrollToFocus()
	case key.Matches(msg, m.keys.PrevWidget):
		m.focus = m.focus.Prev()
		m.refresh()
		m.scrollToFocus()

	case key.Matches(msg, m.keys.Activate):
		return m.activate()

	case key.Matches(msg, m.keys.Left):
		m.stepGallery(gallery.Model.Prev)
	case key.Matches(msg, m.keys.Right):
		m.stepGallery(gallery.Model.Next)

	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(m.tabs.Next())
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(m.tabs.Prev())

	case key.Matches(msg, m.keys.Outline):
		m.state = StateOutline
		m.headings = content.Headings(m.nodes())
		m.outlineInput.Reset()
		m.outlineCursor = 0
		m.outlineOffset = 0
		m.applyOutlineFilter()
		m.outlineInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.state = StateHelp
	}
	return m, nil
}

// activate toggles the focused accordion or opens the focused gallery.
func (m Model) activate() (tea.Model, tea.Cmd) {
	path, ok := m.focus.Current()
	if !ok {
		return m, nil
	}
	n, ok := content.Find(m.nodes(), path)
	if !ok {
		return m, nil
	}

	k := m.stateKey(path)
	switch n.Type {
	case content.TypeAccordion:
		expanded := m.accordions.Toggle(k)
		debug.Log("accordion %s expanded=%v", path, expanded)
		m.syncWidgets()
		m.refresh()
	case content.TypeGallery:
		g := m.galleries[k]
		if g.Len() == 0 {
			m.status = "Gallery is empty"
			return m, nil
		}
		m.galleries[k] = g.Open(g.Index())
		m.lightbox = k
		m.state = StateLightbox
	}
	return m, nil
}

// stepGallery moves the tile cursor of the focused gallery.
func (m *Model) stepGallery(step func(gallery.Model) gallery.Model) {
	path, ok := m.focus.Current()
	if !ok {
		return
	}
	k := m.stateKey(path)
	g, ok := m.galleries[k]
	if !ok {
		return
	}
	m.galleries[k] = step(g)
	m.refresh()
}

func (m *Model) switchTab(tabs widgets.Tabs) {
	if tabs.Selected() == m.tabs.Selected() {
		return
	}
	m.tabs = tabs
	m.focus = m.focus.Clear()
	m.syncWidgets()
	m.refresh()
	m.viewport.GotoTop()
}

// handleLightboxKeys delegates to the open gallery.
func (m Model) handleLightboxKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g, ok := m.galleries[m.lightbox]
	if !ok {
		m.state = StateView
		return m, nil
	}

	g, cmd := g.Update(msg)
	m.galleries[m.lightbox] = g
	if !g.IsOpen() {
		m.state = StateView
		m.lightbox = ""
		m.refresh()
	}
	return m, cmd
}

// handleHelpKeys handles key presses in the help view.
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	m.state = StateView
	return m, nil
}

// handleOutlineKeys handles key presses in the outline picker.
func (m Model) handleOutlineKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = StateView
		m.outlineInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.state = StateView
		m.outlineInput.Blur()
		if m.outlineCursor < len(m.matches) {
			m.jumpToHeading(m.matches[m.outlineCursor].heading)
		}
		return m, nil
	case tea.KeyUp, tea.KeyCtrlP:
		if m.outlineCursor > 0 {
			m.outlineCursor--
		}
		m.clampOutline()
		return m, nil
	case tea.KeyDown, tea.KeyCtrlN:
		if m.outlineCursor < len(m.matches)-1 {
			m.outlineCursor++
		}
		m.clampOutline()
		return m, nil
	}

	var cmd tea.Cmd
	m.outlineInput, cmd = m.outlineInput.Update(msg)
	m.applyOutlineFilter()
	return m, cmd
}

// headingSource implements fuzzy.Source for heading matching.
type headingSource []content.Heading

func (h headingSource) String(i int) string {
	return h[i].Text
}

func (h headingSource) Len() int {
	return len(h)
}

// applyOutlineFilter filters headings using fuzzy matching.
func (m *Model) applyOutlineFilter() {
	filter := m.outlineInput.Value()
	m.matches = m.matches[:0]
	if filter == "" {
		for i := range m.headings {
			m.matches = append(m.matches, outlineMatch{heading: i})
		}
	} else {
		for _, match := range fuzzy.FindFrom(filter, headingSource(m.headings)) {
			m.matches = append(m.matches, outlineMatch{
				heading: match.Index,
				matched: runeIndexes(match.Str, match.MatchedIndexes),
			})
		}
	}
	m.clampOutline()
}

// runeIndexes converts byte offsets into s to rune offsets.
func runeIndexes(s string, byteIdx []int) []int {
	out := make([]int, 0, len(byteIdx))
	for _, b := range byteIdx {
		if b <= len(s) {
			out = append(out, utf8.RuneCountInString(s[:b]))
		}
	}
	return out
}

// outlineVisible returns how many outline entries fit on screen.
func (m Model) outlineVisible() int {
	return max(m.height-8, 3)
}

// clampOutline keeps the outline cursor in bounds and on screen.
func (m *Model) clampOutline() {
	if m.outlineCursor >= len(m.matches) {
		m.outlineCursor = len(m.matches) - 1
	}
	if m.outlineCursor < 0 {
		m.outlineCursor = 0
	}
	visible := m.outlineVisible()
	if m.outlineCursor < m.outlineOffset {
		m.outlineOffset = m.outlineCursor
	}
	if m.outlineCursor >= m.outlineOffset+visible {
		m.outlineOffset = m.outlineCursor - visible + 1
	}
}

// jumpToHeading scrolls to the i-th heading of the current body, opening
// the accordions around it first.
func (m *Model) jumpToHeading(i int) {
	if i < 0 || i >= len(m.headings) {
		return
	}
	target := m.headings[i]

	nodes := m.nodes()
	parts := strings.Split(target.Path, ".")
	for j := 1; j < len(parts); j++ {
		prefix := strings.Join(parts[:j], ".")
		if n, ok := content.Find(nodes, prefix); ok && n.Type == content.TypeAccordion && !m.accordions.Expanded(m.stateKey(prefix)) {
			m.accordions.Toggle(m.stateKey(prefix))
		}
	}
	m.syncWidgets()
	m.refresh()

	if line := headingLine(m.lines, m.visibleHeadings(), target.Path); line >= 0 {
		m.viewport.SetYOffset(line)
		debug.Log("outline: jumped to %q at line %d", target.Text, line)
	}
}

// visibleHeadings lists the headings not hidden inside collapsed
// accordions.
func (m Model) visibleHeadings() []content.Heading {
	var out []content.Heading
	content.Walk(m.nodes(), func(path string, n content.Node) bool {
		switch n.Type {
		case content.TypeHeading:
			out = append(out, content.Heading{Path: path, Level: n.HeadingLevel(), Text: strings.TrimSpace(content.PlainText(n))})
			return false
		case content.TypeAccordion:
			return m.accordions.Expanded(m.stateKey(path))
		}
		return true
	})
	return out
}

// headingLine finds the rendered line of the heading at path. Headings are
// matched in document order so repeated titles resolve to the right line.
func headingLine(lines []string, headings []content.Heading, path string) int {
	from := 0
	for _, h := range headings {
		found := -1
		if h.Text != "" {
			for j := from; j < len(lines); j++ {
				if strings.Contains(lines[j], h.Text) {
					found = j
					break
				}
			}
		}
		if h.Path == path {
			return found
		}
		if found >= 0 {
			from = found + 1
		}
	}
	return -1
}

// scrollToFocus brings the focused widget's header into view.
func (m *Model) scrollToFocus() {
	marker := ui.SymbolCursor + " "
	for i, line := range m.lines {
		if strings.HasPrefix(strings.TrimSpace(line), marker) {
			top := m.viewport.YOffset
			if i < top || i >= top+m.viewport.Height {
				m.viewport.SetYOffset(max(i-1, 0))
			}
			return
		}
	}
}

// nodes returns the body currently shown.
func (m Model) nodes() []content.Node {
	return m.source.Nodes(m.tabs.Selected())
}

// stateKey scopes a node path to the selected tab.
func (m Model) stateKey(path string) string {
	return strconv.Itoa(m.tabs.Selected()) + ":" + path
}

// viewState exposes widget state to the terminal renderer.
type viewState struct {
	prefix     string
	accordions widgets.Accordions
	focus      widgets.Focus
	galleries  map[string]gallery.Model
}

func (s viewState) Expanded(path string) bool { return s.accordions.Expanded(s.prefix + path) }
func (s viewState) Focused(path string) bool  { return s.focus.Focused(path) }
func (s viewState) GalleryIndex(path string) int {
	return s.galleries[s.prefix+path].Index()
}

// syncWidgets rebuilds the focus ring and gallery models from the current
// source, keeping state for paths that still exist.
func (m *Model) syncWidgets() {
	bodies := [][]content.Node{m.source.Nodes(0)}
	for i := 1; i < len(m.source.Tabs); i++ {
		bodies = append(bodies, m.source.Nodes(i))
	}

	var accordionKeys []string
	seen := make(map[string]bool)
	for tab, nodes := range bodies {
		prefix := strconv.Itoa(tab) + ":"
		for _, w := range content.Widgets(nodes, nil) {
			k := prefix + w.Path
			switch w.Type {
			case content.TypeAccordion:
				accordionKeys = append(accordionKeys, k)
			case content.TypeGallery:
				images := w.Node.Gallery().Images
				if g, ok := m.galleries[k]; ok {
					m.galleries[k] = g.SetImages(images)
				} else {
					m.galleries[k] = gallery.New(images).WithThumbnails(m.config.Gallery.Thumbnails)
				}
				seen[k] = true
			}
		}
	}
	m.accordions.Retain(accordionKeys)
	for k := range m.galleries {
		if !seen[k] {
			delete(m.galleries, k)
		}
	}

	var focusable []string
	for _, w := range content.Widgets(m.nodes(), func(path string) bool {
		return !m.accordions.Expanded(m.stateKey(path))
	}) {
		focusable = append(focusable, w.Path)
	}
	m.focus = m.focus.Sync(focusable)
}

// reload swaps in a freshly parsed source.
func (m *Model) reload(src *content.Source) {
	src.Path = m.source.Path
	m.source = src
	m.tabs = widgets.NewTabs(src.Tabs.Titles()).Select(m.tabs.Selected())
	m.syncWidgets()
	if _, ok := m.galleries[m.lightbox]; m.state == StateLightbox && !ok {
		m.state = StateView
		m.lightbox = ""
	}
	m.refresh()
	debug.Log("reloaded %s", src.Path)
}

// bodyWidth returns the wrap width for the document body.
func (m Model) bodyWidth() int {
	w := ui.ContentWidth(m.width)
	if mw := m.config.UI.MaxWidth; mw > 0 && mw < w {
		w = mw
	}
	return w
}

// refresh re-renders the document into the viewport.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	defer debug.Timed("render")()

	m.viewport.Width = ui.ContentWidth(m.width)
	m.viewport.Height = max(m.height-ui.ChromeHeight(m.source.IsTabbed(), m.err != nil), 1)

	r := term.New(term.Options{
		Width:         m.bodyWidth(),
		ShowImageURLs: m.config.UI.ShowImageURLs,
		Columns:       m.config.Gallery.Columns,
		State: viewState{
			prefix:     strconv.Itoa(m.tabs.Selected()) + ":",
			accordions: m.accordions,
			focus:      m.focus,
			galleries:  m.galleries,
		},
	})
	out := r.Render(m.nodes())
	m.faults = r.Faults()
	m.viewport.SetContent(out)
	m.lines = strings.Split(ansi.Strip(out), "\n")
}

// statusLine combines the transient status with the fault count.
func (m Model) statusLine() string {
	status := m.status
	if m.config.Render.ShowFaults && len(m.faults) > 0 {
		faults := fmt.Sprintf("%d node(s) could not be rendered", len(m.faults))
		if status != "" {
			status += " • "
		}
		status += faults
	}
	return status
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	p := ui.RenderParams{
		State:         int(m.state),
		Width:         m.width,
		Height:        m.height,
		Title:         m.source.Title(),
		Path:          m.source.Path,
		Body:          m.viewport.View(),
		ScrollPercent: m.viewport.ScrollPercent(),
		Status:        m.statusLine(),
		Err:           m.err,
		HelpSections:  m.keys.HelpSections(),
	}
	if m.source.IsTabbed() {
		p.Tabs = m.tabs.View(ui.ContentWidth(m.width))
	}

	switch m.state {
	case StateLightbox:
		p.Lightbox = m.galleries[m.lightbox].View(min(ui.ContentWidth(m.width), 80))
	case StateOutline:
		p.OutlineInput = m.outlineInput.View()
		p.OutlineCursor = m.outlineCursor
		p.OutlineOffset = m.outlineOffset
		p.VisibleCount = m.outlineVisible()
		for _, match := range m.matches {
			h := m.headings[match.heading]
			p.Outline = append(p.Outline, ui.OutlineEntry{Level: h.Level, Text: h.Text, Matched: match.matched})
		}
	}

	return ui.Render(p)
}

// ShouldQuit returns true if the app should quit.
func (m Model) ShouldQuit() bool {
	return m.shouldQuit
}

// Position returns the scroll offset and selected tab, for saving.
func (m Model) Position() (offset, tab int) {
	return m.viewport.YOffset, m.tabs.Selected()
}

// Faults returns the nodes dropped by the last render.
func (m Model) Faults() []render.Fault {
	return m.faults
}

// Commands

func loadDocument(path string) tea.Cmd {
	return func() tea.Msg {
		src, err := content.Load(path)
		return DocumentLoadedMsg{Source: src, Err: err}
	}
}

func openImage(command string, img content.Image) tea.Cmd {
	return func() tea.Msg {
		err := exec.OpenImage(command, img)
		return ImageOpenedMsg{Image: img, Err: err}
	}
}
