// Package watch feeds files dropped into an inbox directory to a handler.
package watch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgallion1/clausegest/internal/convert"
	"github.com/fsnotify/fsnotify"
)

// Handler receives a settled file and the content that was read from it.
type Handler func(ctx context.Context, path string, data []byte)

// Inbox watches one directory (not recursively) for supported documents.
// A file is handed over once no event has been seen for it during the
// debounce delay, and again only when its content changes.
type Inbox struct {
	dir      string
	debounce time.Duration
	handler  Handler
	log      *slog.Logger
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]time.Time // last event per path
	hashes  map[string][32]byte
}

// New creates the inbox, creating dir when missing.
func New(dir string, debounce time.Duration, handler Handler, log *slog.Logger) (*Inbox, error) {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create inbox: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Inbox{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		log:      log,
		fsw:      fsw,
		pending:  make(map[string]time.Time),
		hashes:   make(map[string][32]byte),
	}, nil
}

// Run delivers settled files until ctx is done or the watcher fails.
func (in *Inbox) Run(ctx context.Context) error {
	defer in.fsw.Close()

	ticker := time.NewTicker(max(in.debounce/2, 10*time.Millisecond))
	defer ticker.Stop()

	in.log.Info("inbox watcher started", "dir", in.dir, "debounce", in.debounce)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-in.fsw.Events:
			if !ok {
				return nil
			}
			in.observe(event)

		case err, ok := <-in.fsw.Errors:
			if !ok {
				return nil
			}
			in.log.Error("inbox watcher error", "error", err)

		case now := <-ticker.C:
			for _, path := range in.settled(now) {
				in.deliver(ctx, path)
			}
		}
	}
}

func (in *Inbox) observe(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !convert.IsSupportedExtension(event.Name) {
		return
	}
	in.mu.Lock()
	in.pending[event.Name] = time.Now()
	in.mu.Unlock()
}

// settled removes and returns the paths that have been quiet long enough.
func (in *Inbox) settled(now time.Time) []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	var out []string
	for path, last := range in.pending {
		if now.Sub(last) >= in.debounce {
			out = append(out, path)
			delete(in.pending, path)
		}
	}
	return out
}

func (in *Inbox) deliver(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		in.log.Warn("read inbox file failed", "path", path, "error", err)
		return
	}

	sum := sha256.Sum256(data)
	in.mu.Lock()
	old, seen := in.hashes[path]
	in.hashes[path] = sum
	in.mu.Unlock()
	if seen && old == sum {
		in.log.Debug("inbox file unchanged", "path", path)
		return
	}

	in.log.Info("inbox file ready", "path", filepath.Base(path), "bytes", len(data))
	in.handler(ctx, path, data)
}
