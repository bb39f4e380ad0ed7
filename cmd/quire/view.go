package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/henri123lemoine/quire/internal/app"
	"github.com/henri123lemoine/quire/internal/content"
	"github.com/henri123lemoine/quire/internal/debug"
	"github.com/henri123lemoine/quire/internal/history"
)

var watchFile bool

// reloadDelay coalesces the burst of events editors emit on save.
const reloadDelay = 100 * time.Millisecond

var viewCmd = &cobra.Command{
	Use:   "view FILE",
	Short: "Read a document in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := content.Load(path)
		if err != nil {
			return err
		}

		model := app.New(appConfig, src)
		if appConfig.UI.RememberPosition {
			if pos := history.Load(path); pos != nil {
				model = model.WithPosition(pos.Offset, pos.Tab)
			}
		}

		p := tea.NewProgram(model, tea.WithAltScreen())

		if watchFile {
			watcher, err := watch(path, p)
			if err != nil {
				return err
			}
			defer watcher.Close()
		}

		finalModel, err := p.Run()
		if err != nil {
			return err
		}

		if m, ok := finalModel.(app.Model); ok && appConfig.UI.RememberPosition {
			offset, tab := m.Position()
			if err := history.Save(path, offset, tab); err != nil {
				fmt.Fprintln(os.Stderr, "Warning: saving position:", err)
			}
		}
		return nil
	},
}

func init() {
	viewCmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "reload the document when the file changes")
}

// watch sends app.FileChangedMsg to p whenever path is written. The parent
// directory is watched so that editors which replace the file on save are
// still seen.
func watch(path string, p *tea.Program) (*fsnotify.Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	go func() {
		var timer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				debug.Log("watch: %s", event)
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDelay, func() {
					p.Send(app.FileChangedMsg{})
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				debug.Log("watch error: %v", err)
			}
		}
	}()

	return watcher, nil
}
