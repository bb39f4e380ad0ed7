package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/henri123lemoine/quire/internal/config"
	"github.com/henri123lemoine/quire/internal/ui"
)

// KeyMap defines all keybindings.
type KeyMap struct {
	// Scrolling
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Widgets
	NextWidget key.Binding
	PrevWidget key.Binding
	Activate   key.Binding
	Left       key.Binding
	Right      key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding

	// General
	Outline key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup/b", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " "),
			key.WithHelp("pgdn/space", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "bottom"),
		),
		NextWidget: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next widget"),
		),
		PrevWidget: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous widget"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "toggle section / open gallery"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous image"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next image"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous tab"),
		),
		Outline: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "outline"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapFromConfig creates a KeyMap from config settings. Empty settings
// keep the default binding.
func KeyMapFromConfig(cfg *config.KeysConfig) KeyMap {
	km := DefaultKeyMap()

	overrides := []struct {
		binding *key.Binding
		keys    string
	}{
		{&km.Up, cfg.Up},
		{&km.Down, cfg.Down},
		{&km.PageUp, cfg.PageUp},
		{&km.PageDown, cfg.PageDown},
		{&km.Top, cfg.Top},
		{&km.Bottom, cfg.Bottom},
		{&km.NextWidget, cfg.NextWidget},
		{&km.PrevWidget, cfg.PrevWidget},
		{&km.Activate, cfg.Activate},
		{&km.Left, cfg.Left},
		{&km.Right, cfg.Right},
		{&km.NextTab, cfg.NextTab},
		{&km.PrevTab, cfg.PrevTab},
		{&km.Outline, cfg.Outline},
		{&km.Help, cfg.Help},
		{&km.Quit, cfg.Quit},
	}
	for _, o := range overrides {
		keys := parseKeys(o.keys)
		if len(keys) == 0 {
			continue
		}
		*o.binding = key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), o.binding.Help().Desc),
		)
	}

	return km
}

// parseKeys parses a comma-separated list of keys. "space" names the
// space bar.
func parseKeys(s string) []string {
	parts := strings.Split(s, ",")
	var keys []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "space" {
			p = " "
		}
		if p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}

// HelpSections groups the bindings for the help screen.
func (k KeyMap) HelpSections() []ui.HelpSection {
	section := func(title string, bindings ...key.Binding) ui.HelpSection {
		s := ui.HelpSection{Title: title}
		for _, b := range bindings {
			s.Bindings = append(s.Bindings, ui.HelpBinding{Keys: b.Help().Key, Desc: b.Help().Desc})
		}
		return s
	}

	return []ui.HelpSection{
		section("Scrolling", k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom),
		section("Widgets", k.NextWidget, k.PrevWidget, k.Activate, k.Left, k.Right, k.PrevTab, k.NextTab),
		{
			Title: "Lightbox",
			Bindings: []ui.HelpBinding{
				{Keys: "←/→", Desc: "previous / next image"},
				{Keys: "1-9", Desc: "jump to thumbnail"},
				{Keys: "o", Desc: "open image externally"},
				{Keys: "esc", Desc: "close"},
			},
		},
		section("General", k.Outline, k.Help, k.Quit),
	}
}
