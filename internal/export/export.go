// Package export serializes annotation snapshots and delivers them to the
// clipboard, with an unconditional fallback to a file on disk. Clipboard
// failure is never surfaced as a hard error.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Clipboard is the system clipboard port. The Fyne adapter lives in the
// UI layer; tests and headless tools pass nil or a fake.
type Clipboard interface {
	SetContent(content string) error
}

// Method reports which delivery channel an export used.
type Method string

const (
	MethodClipboard Method = "clipboard"
	MethodFile      Method = "file"
)

// Exporter delivers JSON snapshots.
type Exporter struct {
	clip Clipboard
	dir  string
	log  zerolog.Logger
}

// New creates an exporter. clip may be nil when no clipboard is
// available; every export then goes straight to a file in dir.
func New(clip Clipboard, dir string, log zerolog.Logger) *Exporter {
	return &Exporter{clip: clip, dir: dir, log: log}
}

// Export marshals the snapshot and copies it to the clipboard, falling
// back to a timestamped file when the clipboard is unavailable or fails.
// It returns the method used and, for files, the written path.
func (e *Exporter) Export(name string, snapshot interface{}) (Method, string, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal %s snapshot: %w", name, err)
	}

	if e.clip != nil {
		if err := e.clip.SetContent(string(data)); err == nil {
			return MethodClipboard, "", nil
		} else {
			e.log.Warn().Err(err).Msg("clipboard unavailable, falling back to file")
		}
	}

	path, err := e.writeFile(name, data)
	if err != nil {
		return "", "", err
	}
	return MethodFile, path, nil
}

// ExportToFile always writes the snapshot to a file, for the explicit
// "save as file" choice.
func (e *Exporter) ExportToFile(name string, snapshot interface{}) (string, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s snapshot: %w", name, err)
	}
	return e.writeFile(name, data)
}

func (e *Exporter) writeFile(name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	filename := fmt.Sprintf("%s-%s.json", name, time.Now().Format("20060102-150405"))
	path := filepath.Join(e.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}
