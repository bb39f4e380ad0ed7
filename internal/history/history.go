// Package history remembers where the reader left each document.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/henri123lemoine/quire/internal/debug"
)

// Position is the saved reading position of one document.
type Position struct {
	Document  string    `json:"document"`
	Offset    int       `json:"offset"`
	Tab       int       `json:"tab"`
	UpdatedAt time.Time `json:"updated_at"`
}

// cacheDir returns the directory holding position files.
func cacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "quire", "positions")
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "quire", "positions")
}

// key returns the absolute form of document, used to identify it.
func key(document string) string {
	if abs, err := filepath.Abs(document); err == nil {
		return abs
	}
	return document
}

// positionPath returns the cache file for document. The name is a hash of
// the absolute path, so documents with the same base name do not collide.
func positionPath(document string) string {
	sum := sha256.Sum256([]byte(key(document)))
	return filepath.Join(cacheDir(), hex.EncodeToString(sum[:8])+".json")
}

// Load returns the saved position of document, or nil if there is none.
func Load(document string) *Position {
	path := positionPath(document)

	// Acquire shared (read) lock - blocks if exclusive lock is held
	fileLock := flock.New(path + ".lock")
	if err := fileLock.RLock(); err != nil {
		debug.Log("history: lock %s: %v", path, err)
		return nil
	}
	defer fileLock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var pos Position
	if err := json.Unmarshal(data, &pos); err != nil {
		debug.Log("history: corrupt position file %s: %v", path, err)
		return nil
	}

	// Check the file belongs to this document
	if pos.Document != key(document) {
		return nil
	}

	return &pos
}

// Save records the reading position of document.
func Save(document string, offset, tab int) error {
	pos := Position{
		Document:  key(document),
		Offset:    max(offset, 0),
		Tab:       max(tab, 0),
		UpdatedAt: time.Now(),
	}

	data, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("encoding position: %w", err)
	}

	path := positionPath(document)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	// Acquire exclusive lock - blocks until lock is available
	fileLock := flock.New(path + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}
	defer fileLock.Unlock()

	// Write atomically: write to temp file then rename
	tmpPath := path + ".tmp"
	err = os.WriteFile(tmpPath, data, 0600)
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving position: %w", err)
	}

	debug.Log("history: saved %s offset=%d tab=%d", pos.Document, pos.Offset, pos.Tab)
	return nil
}
