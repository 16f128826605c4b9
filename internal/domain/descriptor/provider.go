package descriptor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/microshell/internal/domain/menu"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

// ErrInvalidDescriptor wraps validation failures
var ErrInvalidDescriptor = errors.New("invalid navigation descriptor")

// Provider holds the current valid descriptor
type Provider struct {
	source Source
	logger *zap.Logger

	mu       sync.RWMutex
	current  []types.NavItem
	loadedAt time.Time
	reloads  uint64
}

// NewProvider creates a provider; call Reload to load the first descriptor
func NewProvider(source Source, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{source: source, logger: logger}
}

// Reload loads and validates the descriptor. On failure the previous
// descriptor is kept and the error returned.
func (p *Provider) Reload(ctx context.Context) error {
	items, err := p.source.Load(ctx)
	if err != nil {
		p.logger.Warn("Descriptor load failed, keeping previous",
			zap.Stringer("source", p.source), zap.Error(err))
		return err
	}
	if err := menu.Validate(items); err != nil {
		p.logger.Warn("Descriptor rejected, keeping previous",
			zap.Stringer("source", p.source), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}

	p.mu.Lock()
	p.current = items
	p.loadedAt = time.Now()
	p.reloads++
	p.mu.Unlock()

	p.logger.Info("Descriptor loaded",
		zap.Stringer("source", p.source), zap.Int("items", len(items)))
	return nil
}

// Current returns the current descriptor. The slice is shared and must
// not be mutated.
func (p *Provider) Current() []types.NavItem {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Loaded reports when the current descriptor was loaded and how many
// successful loads happened
func (p *Provider) Loaded() (time.Time, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loadedAt, p.reloads
}

// Source returns the underlying source
func (p *Provider) Source() Source {
	return p.source
}
