package theme

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/storage"
)

// Preference is the persisted light/dark setting.
type Preference struct {
	kv       storage.KV
	fallback domain.Theme
	logger   *zap.Logger

	mu      sync.Mutex
	current domain.Theme
	loaded  bool
}

// NewPreference builds a preference backed by kv.
func NewPreference(kv storage.KV, fallback domain.Theme, logger *zap.Logger) *Preference {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preference{
		kv:       kv,
		fallback: domain.ParseTheme(string(fallback), domain.ThemeLight),
		logger:   logger.Named("theme"),
	}
}

// Current returns the stored theme, or the fallback when none is stored or
// storage is unreachable.
func (p *Preference) Current(ctx context.Context) domain.Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadLocked(ctx)
}

// Toggle flips and persists the theme. The new value is kept in memory even
// when persisting fails.
func (p *Preference) Toggle(ctx context.Context) (domain.Theme, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.loadLocked(ctx).Toggle()
	p.current = next
	p.loaded = true
	if err := p.kv.Set(ctx, storage.KeyTheme, string(next)); err != nil {
		return next, err
	}
	return next, nil
}

func (p *Preference) loadLocked(ctx context.Context) domain.Theme {
	if p.loaded {
		return p.current
	}
	stored, err := p.kv.Get(ctx, storage.KeyTheme)
	switch {
	case err == nil:
		p.current = domain.ParseTheme(stored, p.fallback)
		p.loaded = true
	case errors.Is(err, storage.ErrNotFound):
		p.current = p.fallback
		p.loaded = true
	default:
		p.logger.Warn("reading theme failed", zap.Error(err))
		return p.fallback
	}
	return p.current
}
