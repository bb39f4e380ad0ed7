// Package ui provides rendering functions for the Quire terminal UI.
//
// It contains the Render function which takes RenderParams and produces
// the screen around the document: header, tab strip, status line and the
// outline and help overlays. Lipgloss style definitions shared by the
// terminal renderer and the widgets live here as well. Rendering is pure
// and separated from state management.
package ui
