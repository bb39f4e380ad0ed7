// Package config handles quire configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/henri123lemoine/quire/internal/content"
)

// Config represents quire configuration.
type Config struct {
	UI      UIConfig      `toml:"ui"`
	Gallery GalleryConfig `toml:"gallery"`
	Render  RenderConfig  `toml:"render"`
	Export  ExportConfig  `toml:"export"`
	Open    OpenConfig    `toml:"open"`
	Keys    KeysConfig    `toml:"keys"`
}

// UIConfig contains viewer settings.
type UIConfig struct {
	// Color theme: auto, dark, light
	Theme string `toml:"theme"`

	// Wrap width for document text (0 = terminal width)
	MaxWidth int `toml:"max_width"`

	// Print image URLs next to image placeholders
	ShowImageURLs bool `toml:"show_image_urls"`

	// Restore scroll offset and tab when reopening a document
	RememberPosition bool `toml:"remember_position"`
}

// GalleryConfig contains layout defaults for galleries that omit them.
type GalleryConfig struct {
	Columns int `toml:"columns"`

	// Grid gap in quarter-rem units
	Spacing int `toml:"spacing"`

	// CSS aspect ratio, e.g. "1" or "16/9"
	AspectRatio string `toml:"aspect_ratio"`

	// Number of thumbnails in the lightbox strip
	Thumbnails int `toml:"thumbnails"`
}

// RenderConfig contains renderer settings.
type RenderConfig struct {
	// Report nodes that failed to render in the status line
	ShowFaults bool `toml:"show_faults"`
}

// ExportConfig contains HTML export settings.
type ExportConfig struct {
	// Wrap output in a complete HTML page
	Standalone bool `toml:"standalone"`

	// Stylesheet URL linked instead of the built-in styles
	Stylesheet string `toml:"stylesheet"`

	// Add a table of contents to standalone pages
	TableOfContents bool `toml:"table_of_contents"`
}

// OpenConfig contains settings for opening images outside the terminal.
type OpenConfig struct {
	// Command to run for the current lightbox image
	// Template variables: {src}, {alt}, {title}
	Command string `toml:"command"`
}

// KeysConfig contains keybinding settings.
type KeysConfig struct {
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	PageUp     string `toml:"page_up"`
	PageDown   string `toml:"page_down"`
	Top        string `toml:"top"`
	Bottom     string `toml:"bottom"`
	NextWidget string `toml:"next_widget"`
	PrevWidget string `toml:"prev_widget"`
	Activate   string `toml:"activate"`
	Left       string `toml:"left"`
	Right      string `toml:"right"`
	NextTab    string `toml:"next_tab"`
	PrevTab    string `toml:"prev_tab"`
	Outline    string `toml:"outline"`
	Help       string `toml:"help"`
	Quit       string `toml:"quit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Theme:            "auto",
			MaxWidth:         100,
			ShowImageURLs:    false,
			RememberPosition: true,
		},
		Gallery: GalleryConfig{
			Columns:     content.DefaultColumns,
			Spacing:     content.DefaultSpacing,
			AspectRatio: content.DefaultAspectRatio,
			Thumbnails:  7,
		},
		Render: RenderConfig{
			ShowFaults: true,
		},
		Export: ExportConfig{
			Standalone:      true,
			Stylesheet:      "",
			TableOfContents: true,
		},
		Open: OpenConfig{
			Command: "",
		},
		Keys: KeysConfig{
			Up:         "up,k",
			Down:       "down,j",
			PageUp:     "pgup,b",
			PageDown:   "pgdown,space",
			Top:        "home,g",
			Bottom:     "end,G",
			NextWidget: "tab",
			PrevWidget: "shift+tab",
			Activate:   "enter",
			Left:       "left,h",
			Right:      "right,l",
			NextTab:    "]",
			PrevTab:    "[",
			Outline:    "/",
			Help:       "?",
			Quit:       "q,ctrl+c",
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses ~/.config/quire/config.toml (XDG style) on all Unix systems.
func ConfigPath() string {
	// Respect XDG_CONFIG_HOME if set
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "quire", "config.toml")
	}
	// Default to ~/.config on Unix (including macOS)
	home := os.Getenv("HOME")
	if home != "" {
		return filepath.Join(home, ".config", "quire", "config.toml")
	}
	// Fallback to os.UserConfigDir() for Windows
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "quire", "config.toml")
	}
	return filepath.Join(configDir, "quire", "config.toml")
}

// Load loads configuration from the config file.
func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath loads configuration from a specific path. A missing file
// yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, use defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// go-toml/v2 only overwrites fields present in the file, so
	// unspecified fields keep their defaults (including booleans).
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// CreateDefaultConfigFile writes a commented default config to path. An
// existing file is left alone and reported as an error.
func CreateDefaultConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(generateDefaultConfigContent()), 0644)
}

// generateDefaultConfigContent generates a commented config file.
func generateDefaultConfigContent() string {
	var b strings.Builder
	cfg := DefaultConfig()

	b.WriteString("# Quire Configuration\n\n")

	b.WriteString("[ui]\n")
	b.WriteString("# Color theme: \"auto\", \"dark\", or \"light\"\n")
	fmt.Fprintf(&b, "theme = %q\n", cfg.UI.Theme)
	b.WriteString("# Wrap width for document text (0 = terminal width)\n")
	fmt.Fprintf(&b, "max_width = %d\n", cfg.UI.MaxWidth)
	b.WriteString("# Print image URLs next to image placeholders\n")
	fmt.Fprintf(&b, "show_image_urls = %v\n", cfg.UI.ShowImageURLs)
	b.WriteString("# Restore scroll offset and tab when reopening a document\n")
	fmt.Fprintf(&b, "remember_position = %v\n\n", cfg.UI.RememberPosition)

	b.WriteString("[gallery]\n")
	b.WriteString("# Defaults for galleries that do not set their own layout\n")
	fmt.Fprintf(&b, "columns = %d\n", cfg.Gallery.Columns)
	b.WriteString("# Grid gap in quarter-rem units (HTML export)\n")
	fmt.Fprintf(&b, "spacing = %d\n", cfg.Gallery.Spacing)
	b.WriteString("# CSS aspect ratio of gallery items, e.g. \"1\" or \"16/9\" (HTML export)\n")
	fmt.Fprintf(&b, "aspect_ratio = %q\n", cfg.Gallery.AspectRatio)
	b.WriteString("# Number of thumbnails in the lightbox strip\n")
	fmt.Fprintf(&b, "thumbnails = %d\n\n", cfg.Gallery.Thumbnails)

	b.WriteString("[render]\n")
	b.WriteString("# Report nodes that failed to render in the status line\n")
	fmt.Fprintf(&b, "show_faults = %v\n\n", cfg.Render.ShowFaults)

	b.WriteString("[export]\n")
	b.WriteString("# Wrap exported HTML in a complete page\n")
	fmt.Fprintf(&b, "standalone = %v\n", cfg.Export.Standalone)
	b.WriteString("# Link this stylesheet instead of embedding the built-in styles\n")
	b.WriteString("# stylesheet = \"https://example.com/site.css\"\n")
	b.WriteString("# Add a table of contents to standalone pages\n")
	fmt.Fprintf(&b, "table_of_contents = %v\n\n", cfg.Export.TableOfContents)

	b.WriteString("[open]\n")
	b.WriteString("# Command used to open the current lightbox image (auto-detected if not set)\n")
	b.WriteString("# Template variables: {src}, {alt}, {title}\n")
	b.WriteString("# Variables are shell-escaped for safety.\n")
	b.WriteString("# command = \"firefox {src}\"\n\n")

	b.WriteString("[keys]\n")
	b.WriteString("# Keybindings (comma-separated for multiple keys)\n")
	fmt.Fprintf(&b, "# up = %q\n", cfg.Keys.Up)
	fmt.Fprintf(&b, "# down = %q\n", cfg.Keys.Down)
	fmt.Fprintf(&b, "# next_widget = %q\n", cfg.Keys.NextWidget)
	fmt.Fprintf(&b, "# prev_widget = %q\n", cfg.Keys.PrevWidget)
	fmt.Fprintf(&b, "# activate = %q\n", cfg.Keys.Activate)
	fmt.Fprintf(&b, "# next_tab = %q\n", cfg.Keys.NextTab)
	fmt.Fprintf(&b, "# prev_tab = %q\n", cfg.Keys.PrevTab)
	fmt.Fprintf(&b, "# outline = %q\n", cfg.Keys.Outline)
	fmt.Fprintf(&b, "# help = %q\n", cfg.Keys.Help)
	fmt.Fprintf(&b, "# quit = %q\n", cfg.Keys.Quit)

	return b.String()
}

// Validate validates the configuration and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	// Check template variables in command
	validVars := map[string]bool{"{src}": true, "{alt}": true, "{title}": true}
	for _, v := range extractTemplateVars(c.Open.Command) {
		if !validVars[v] {
			warnings = append(warnings, fmt.Sprintf("Unknown template variable in open.command: %s", v))
		}
	}

	// Check theme value
	if c.UI.Theme != "" &&
		c.UI.Theme != "auto" &&
		c.UI.Theme != "dark" &&
		c.UI.Theme != "light" {
		warnings = append(warnings, fmt.Sprintf("Invalid value for ui.theme: %s (expected auto, dark, or light)", c.UI.Theme))
	}

	if c.UI.MaxWidth < 0 {
		warnings = append(warnings, fmt.Sprintf("Invalid value for ui.max_width: %d (must not be negative)", c.UI.MaxWidth))
	}

	// Zero means "use the built-in default" for the gallery settings.
	if c.Gallery.Columns < 0 || c.Gallery.Columns > 12 {
		warnings = append(warnings, fmt.Sprintf("Invalid value for gallery.columns: %d (expected 1-12)", c.Gallery.Columns))
	}
	if c.Gallery.Spacing < 0 {
		warnings = append(warnings, fmt.Sprintf("Invalid value for gallery.spacing: %d (must not be negative)", c.Gallery.Spacing))
	}
	if c.Gallery.AspectRatio != "" && !content.ValidAspectRatio(c.Gallery.AspectRatio) {
		warnings = append(warnings, fmt.Sprintf("Invalid value for gallery.aspect_ratio: %s (expected a number or a ratio like 16/9)", c.Gallery.AspectRatio))
	}
	if c.Gallery.Thumbnails < 0 || c.Gallery.Thumbnails > 9 {
		warnings = append(warnings, fmt.Sprintf("Invalid value for gallery.thumbnails: %d (expected 1-9)", c.Gallery.Thumbnails))
	}

	if c.Export.Stylesheet != "" && !c.Export.Standalone {
		warnings = append(warnings, "export.stylesheet is ignored unless export.standalone is true")
	}

	return warnings
}

// extractTemplateVars extracts template variables from a string.
func extractTemplateVars(s string) []string {
	re := regexp.MustCompile(`\{[^}]+\}`)
	return re.FindAllString(s, -1)
}
