// Package exec handles executing external commands.
package exec

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"github.com/henri123lemoine/quire/internal/content"
	"github.com/henri123lemoine/quire/internal/debug"
)

// ErrNoSource is returned when an image has nothing to open.
var ErrNoSource = errors.New("image has no source")

// startCommand runs a shell command without waiting for it.
// Replaced in tests.
var startCommand = func(command string) error {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	// Start the process but don't wait for it
	return cmd.Start()
}

// DefaultOpenCommand returns the platform's generic opener.
func DefaultOpenCommand() string {
	if runtime.GOOS == "darwin" {
		return "open {src}"
	}
	return "xdg-open {src}"
}

// OpenImage opens img with command in a detached process, so the viewer
// keeps running. An empty command uses DefaultOpenCommand.
func OpenImage(command string, img content.Image) error {
	if img.Src == "" {
		return ErrNoSource
	}
	if command == "" {
		command = DefaultOpenCommand()
	}

	expanded := expandTemplate(command, img)
	debug.Log("open image: %s", expanded)
	return startCommand(expanded)
}

// expandTemplate expands template variables in the command. Values are
// shell-quoted.
func expandTemplate(command string, img content.Image) string {
	r := strings.NewReplacer(
		"{src}", shellQuote(img.Src),
		"{alt}", shellQuote(img.Alt),
		"{title}", shellQuote(img.Label()),
	)
	return r.Replace(command)
}

// shellQuote quotes s for sh unless it only contains characters that need
// no quoting.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, c := range s {
		if !isSafe(c) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func isSafe(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.ContainsRune("/._-+:,=@%", c)
}
