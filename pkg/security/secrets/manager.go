package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNoSecrets is returned when no source provides a secret.
var ErrNoSecrets = errors.New("no bearer secrets available")

// Target receives the merged secret set.
type Target interface {
	Replace(tokens []string)
}

// Manager merges the secrets of its sources into a Target.
type Manager struct {
	sources []Source
	target  Target
	logger  *slog.Logger

	mu sync.Mutex
}

// NewManager creates a manager. A nil logger uses slog.Default().
func NewManager(target Target, logger *slog.Logger, sources ...Source) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{sources: sources, target: target, logger: logger}
}

// Load reads every source and replaces the target's secrets. When a source
// fails or nothing is provided, the target keeps its previous secrets.
func (m *Manager) Load(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{})
	var tokens []string
	for _, src := range m.sources {
		got, err := src.Tokens(ctx)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", src.Name(), err)
		}
		for _, t := range got {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			tokens = append(tokens, t)
		}
	}

	if len(tokens) == 0 {
		return 0, ErrNoSecrets
	}

	m.target.Replace(tokens)
	return len(tokens), nil
}

// Watch reloads on every change reported by a watchable source. It blocks
// until ctx is cancelled and returns the first watcher error.
func (m *Manager) Watch(ctx context.Context) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(m.sources))

	for _, src := range m.sources {
		ws, ok := src.(WatchableSource)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(ws WatchableSource) {
			defer wg.Done()
			if err := ws.Watch(ctx, func() { m.reload(ctx, ws.Name()) }); err != nil {
				errCh <- err
			}
		}(ws)
	}

	wg.Wait()
	close(errCh)
	return <-errCh
}

func (m *Manager) reload(ctx context.Context, changed string) {
	n, err := m.Load(ctx)
	if err != nil {
		m.logger.Warn("bearer secret reload failed, keeping previous secrets",
			"source", changed,
			"error", err,
		)
		return
	}
	m.logger.Info("bearer secrets reloaded", "source", changed, "count", n)
}
