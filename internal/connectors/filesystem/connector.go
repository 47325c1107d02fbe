// Package filesystem reads and watches local files for upload.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.FolderWatcher = (*Connector)(nil)

// DefaultDebounce is how long a file must be quiet before it is reported.
const DefaultDebounce = 500 * time.Millisecond

// UploadExtensions are the file types offered for upload.
var UploadExtensions = []string{".pdf", ".txt"}

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("connector closed")

// Connector scans and watches a single directory, non-recursively.
type Connector struct {
	rootPath string
	debounce time.Duration

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// New creates a connector for rootPath.
func New(rootPath string) *Connector {
	return &Connector{
		rootPath: rootPath,
		debounce: DefaultDebounce,
	}
}

// WithDebounce sets the quiet period before a changed file is reported.
func (c *Connector) WithDebounce(d time.Duration) *Connector {
	c.debounce = d
	return c
}

// IsUploadable reports whether path has an upload extension, case-insensitively.
func IsUploadable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range UploadExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan returns the visible uploadable files in the directory, sorted by name.
func (c *Connector) Scan() ([]string, error) {
	entries, err := os.ReadDir(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || isHidden(e.Name()) || !IsUploadable(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(c.rootPath, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Watch reports files created or written in the directory once they have
// been quiet for the debounce period.
func (c *Connector) Watch(ctx context.Context) (<-chan string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	info, err := os.Stat(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", c.rootPath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(c.rootPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.rootPath, err)
	}
	c.watcher = watcher

	out := make(chan string)
	go c.run(ctx, watcher, out)
	return out, nil
}

func (c *Connector) run(ctx context.Context, watcher *fsnotify.Watcher, out chan<- string) {
	defer close(out)

	ready := make(chan string)
	done := make(chan struct{})
	timers := make(map[string]*time.Timer)
	defer func() {
		close(done)
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			path, ok := c.handleFsEvent(event)
			if !ok {
				continue
			}
			if t, exists := timers[path]; exists {
				t.Reset(c.debounce)
				continue
			}
			timers[path] = time.AfterFunc(c.debounce, func() {
				select {
				case ready <- path:
				case <-done:
				}
			})

		case path := <-ready:
			delete(timers, path)
			select {
			case out <- path:
			case <-ctx.Done():
				return
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", c.rootPath, err)
		}
	}
}

// handleFsEvent returns the path of an uploadable file that was created or written.
func (c *Connector) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(filepath.Base(event.Name)) || !IsUploadable(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}

// Read loads the uploadable paths into memory.
func (c *Connector) Read(paths []string) ([]domain.UploadFile, []string, error) {
	return ReadUploadFiles(paths)
}

// ReadUploadFiles reads each uploadable file fully. Directories and files
// with other extensions are returned as skipped.
func ReadUploadFiles(paths []string) ([]domain.UploadFile, []string, error) {
	var files []domain.UploadFile
	var skipped []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", p, err)
		}
		if info.IsDir() || !IsUploadable(p) {
			skipped = append(skipped, p)
			continue
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, domain.UploadFile{Name: filepath.Base(p), Content: content})
	}
	return files, skipped, nil
}

// Close stops watching. It is idempotent.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
