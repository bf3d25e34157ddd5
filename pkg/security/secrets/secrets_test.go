package secrets

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingTarget struct {
	mu     sync.Mutex
	tokens []string
	calls  int
}

func (r *recordingTarget) Replace(tokens []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = tokens
	r.calls++
}

func (r *recordingTarget) current() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens
}

func writeTokens(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatal(err)
	}
}

func TestParseTokens(t *testing.T) {
	got := parseTokens([]byte("# rotated 2026-10-01\nalpha\n\n  beta , gamma,\n#delta\n"))
	if strings.Join(got, "|") != "alpha|beta|gamma" {
		t.Errorf("parseTokens() = %v", got)
	}
}

func TestFileSource_Tokens(t *testing.T) {
	dir := t.TempDir()

	ok := filepath.Join(dir, "tokens")
	writeTokens(t, ok, "secret-a\nsecret-b\n", 0600)

	readOnly := filepath.Join(dir, "readonly")
	writeTokens(t, readOnly, "secret-c", 0400)

	open := filepath.Join(dir, "open")
	writeTokens(t, open, "secret-d", 0644)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr string
	}{
		{"owner read write", ok, "secret-a|secret-b", ""},
		{"owner read only", readOnly, "secret-c", ""},
		{"world readable", open, "", "insecure permissions"},
		{"missing", filepath.Join(dir, "missing"), "", "not found"},
		{"directory", dir, "", "not a regular file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFileSource(tt.path).Tokens(context.Background())
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(got, "|") != tt.want {
				t.Errorf("tokens = %v", got)
			}
		})
	}
}

func TestManager_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tokens")
	writeTokens(t, path, "from-file\nshared\n", 0600)

	target := &recordingTarget{}
	m := NewManager(target, nil, Static{"from-config", "shared"}, NewFileSource(path))

	n, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if n != 3 || strings.Join(target.current(), "|") != "from-config|shared|from-file" {
		t.Errorf("Load() = %d, tokens %v", n, target.current())
	}

	// a broken file keeps the previous set
	writeTokens(t, path, "x", 0644)
	if _, err := m.Load(context.Background()); err == nil {
		t.Fatal("expected permission error")
	}
	if target.calls != 1 {
		t.Errorf("target replaced %d times, want 1", target.calls)
	}
}

func TestManager_LoadEmpty(t *testing.T) {
	target := &recordingTarget{}
	_, err := NewManager(target, nil, Static(nil)).Load(context.Background())
	if !errors.Is(err, ErrNoSecrets) {
		t.Errorf("Load() = %v, want ErrNoSecrets", err)
	}
	if target.calls != 0 {
		t.Error("empty set must not replace the target")
	}
}

func TestManager_WatchReloadsOnRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tokens")
	writeTokens(t, path, "v1", 0600)

	var logs bytes.Buffer
	target := &recordingTarget{}
	m := NewManager(target, slog.New(slog.NewJSONHandler(&logs, nil)), NewFileSource(path))
	if _, err := m.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	writeTokens(t, path, "v2", 0600)

	deadline := time.Now().Add(3 * time.Second)
	for strings.Join(target.current(), "|") != "v2" {
		if time.Now().After(deadline) {
			t.Fatalf("tokens not reloaded, have %v", target.current())
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}

	if !strings.Contains(logs.String(), "bearer secrets reloaded") {
		t.Errorf("logs = %s", logs.String())
	}
}
