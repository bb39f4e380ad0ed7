package app

import (
	"github.com/henri123lemoine/quire/internal/content"
)

// Message types for the bubbletea app.

// DocumentLoadedMsg is sent when the document has been (re)read from disk.
type DocumentLoadedMsg struct {
	Source *content.Source
	Err    error
}

// FileChangedMsg is sent by the file watcher when the document changes.
type FileChangedMsg struct{}

// ImageOpenedMsg is sent when an image has been handed to an external
// viewer.
type ImageOpenedMsg struct {
	Image content.Image
	Err   error
}
