package secrets

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileSource reads secrets from a file, one per line. Blank lines and lines
// starting with '#' are ignored, and a line may hold several secrets
// separated by commas.
//
// The file must be a regular file with mode 0600 or 0400.
type FileSource struct {
	path string
}

// NewFileSource creates a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: filepath.Clean(path)}
}

// Name returns "file:<path>".
func (f *FileSource) Name() string {
	return "file:" + f.path
}

// Tokens reads and parses the file.
func (f *FileSource) Tokens(ctx context.Context) ([]string, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("token file not found: %s", f.path)
		}
		return nil, fmt.Errorf("failed to stat token file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("token file is not a regular file: %s", f.path)
	}

	mode := info.Mode().Perm()
	if mode != 0600 && mode != 0400 {
		return nil, fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", f.path, mode)
	}

	// #nosec G304 - path comes from operator configuration
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	return parseTokens(data), nil
}

func parseTokens(data []byte) []string {
	var tokens []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, part := range strings.Split(line, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tokens = append(tokens, part)
			}
		}
	}
	return tokens
}

// Watch observes the directory holding the file, which also catches the
// symlink swap used by Kubernetes secret volumes. It blocks until ctx is
// cancelled.
func (f *FileSource) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if f.relevant(event) {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher error: %w", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func (f *FileSource) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == f.path || filepath.Base(name) == "..data"
}
