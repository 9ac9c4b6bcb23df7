package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) handle(_ context.Context, path string, _ []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestInbox_DeliversSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	in, err := New(dir, 20*time.Millisecond, rec.handle, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new inbox: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- in.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	rules := filepath.Join(dir, "rules.txt")
	if err := os.WriteFile(filepath.Join(dir, "table.csv"), []byte("a,b"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(rules, []byte("1.1. Текст."), 0o644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })
	if got := rec.snapshot()[0]; got != rules {
		t.Errorf("expected %q, got %q", rules, got)
	}

	// Rewriting identical content is not delivered again.
	if err := os.WriteFile(rules, []byte("1.1. Текст."), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	if n := len(rec.snapshot()); n != 1 {
		t.Fatalf("expected unchanged file to be skipped, got %d deliveries", n)
	}

	if err := os.WriteFile(rules, []byte("1.1. Новый текст."), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return len(rec.snapshot()) == 2 })
}

func TestInbox_Settled(t *testing.T) {
	in := &Inbox{debounce: time.Second, pending: map[string]time.Time{}}
	now := time.Now()
	in.pending["/in/old.txt"] = now.Add(-2 * time.Second)
	in.pending["/in/new.txt"] = now.Add(-100 * time.Millisecond)

	got := in.settled(now)
	if len(got) != 1 || got[0] != "/in/old.txt" {
		t.Fatalf("expected only old.txt to settle, got %v", got)
	}
	if _, ok := in.pending["/in/new.txt"]; !ok {
		t.Error("expected new.txt to stay pending")
	}
}
