// Package neovim pushes text saved in the external editor back into the
// text box being edited.
package neovim

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Target identifies the text box a scratch file belongs to.
type Target struct {
	SessionID string `json:"sessionId"`
	BoxID     string `json:"boxId"`
}

// ContentChangedHandler is called with the file content after each save.
type ContentChangedHandler func(target Target, content string)

// Bridge watches scratch files and reports every save.
type Bridge struct {
	watcher  *fsnotify.Watcher
	onChange ContentChangedHandler
	dir      string

	mu       sync.RWMutex
	watching map[string]Target // abs path -> target
	last     map[string]string // abs path -> last reported content
}

// New creates a bridge whose scratch files live in dir.
func New(dir string, onChange ContentChangedHandler) (*Bridge, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	b := &Bridge{
		watcher:  watcher,
		onChange: onChange,
		dir:      dir,
		watching: make(map[string]Target),
		last:     make(map[string]string),
	}
	go b.watchLoop()
	return b, nil
}

// ScratchPath returns the file used for target.
func (b *Bridge) ScratchPath(t Target) string {
	return filepath.Join(b.dir, fmt.Sprintf("%s-%s.txt", t.SessionID, t.BoxID))
}

// Open writes content to target's scratch file and starts watching it.
func (b *Bridge) Open(t Target, content string) (string, error) {
	path, err := filepath.Abs(b.ScratchPath(t))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	b.mu.Lock()
	b.watching[path] = t
	b.last[path] = content
	b.mu.Unlock()
	return path, nil
}

// Finish stops watching target and returns the final file content.
// The scratch file is removed.
func (b *Bridge) Finish(t Target) (string, error) {
	path, err := filepath.Abs(b.ScratchPath(t))
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	delete(b.watching, path)
	delete(b.last, path)
	b.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read scratch file: %w", err)
	}
	os.Remove(path)
	return trimEOL(string(data)), nil
}

// Close stops the watcher.
func (b *Bridge) Close() error {
	return b.watcher.Close()
}

// trimEOL drops the final newline editors append on save. Other
// whitespace is content.
func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

func (b *Bridge) watchLoop() {
	for {
		select {
		case event, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			// Editors save either in place (Write) or by renaming a
			// temp file over the original (Create).
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			b.report(event.Name)
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("neovim bridge: watcher error: %v", err)
		}
	}
}

func (b *Bridge) report(name string) {
	absPath, _ := filepath.Abs(name)
	b.mu.RLock()
	target, watched := b.watching[absPath]
	b.mu.RUnlock()
	if !watched {
		return
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		log.Printf("neovim bridge: read file %s: %v", absPath, err)
		return
	}
	content := trimEOL(string(data))

	b.mu.Lock()
	same := b.last[absPath] == content
	b.last[absPath] = content
	b.mu.Unlock()
	if same || b.onChange == nil {
		return
	}
	b.onChange(target, content)
}
