package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"snapai/internal/logging"
)

// Gate is the "waitlist gate active" preference: a single boolean persisted
// to a flag file. It is read once at startup and toggled by the admin
// console; Watch lets a running landing view react when another process
// flips it. Last write wins.
type Gate struct {
	path string
}

// NewGate returns a gate backed by the flag file at path.
func NewGate(path string) *Gate {
	return &Gate{path: path}
}

// Active reads the flag. A missing file means the gate is off.
func (g *Gate) Active() bool {
	data, err := os.ReadFile(g.path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "true"
}

// Set writes the flag.
func (g *Gate) Set(active bool) error {
	if err := os.MkdirAll(filepath.Dir(g.path), 0755); err != nil {
		return fmt.Errorf("failed to create gate directory: %w", err)
	}
	val := "false"
	if active {
		val = "true"
	}
	if err := os.WriteFile(g.path, []byte(val), 0644); err != nil {
		return fmt.Errorf("failed to write gate flag: %w", err)
	}
	logging.Admin("Waitlist gate set to %s", val)
	return nil
}

// Watch invokes onChange with the current value whenever the flag file is
// written, until ctx is cancelled. The watcher is released deterministically
// on cancellation.
func (g *Gate) Watch(ctx context.Context, onChange func(bool)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create gate watcher: %w", err)
	}

	// Watch the directory: editors and atomic writes replace the file.
	dir := filepath.Dir(g.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to create gate directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch gate directory: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != g.path {
					continue
				}
				// Remove matters too: a deleted flag file reads as
				// gate-off.
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				onChange(g.Active())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.AdminWarn("Gate watcher error: %v", err)
			}
		}
	}()
	return nil
}
