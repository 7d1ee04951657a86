package service

import (
	"sync"

	"posterdesk/internal/domain"
)

// Presets holds the active page-size registry. Config reloads swap it at
// runtime, so every reader goes through Get.
type Presets struct {
	mu  sync.RWMutex
	reg *domain.PageSizes
}

// NewPresets wraps reg; nil selects the built-in presets.
func NewPresets(reg *domain.PageSizes) *Presets {
	if reg == nil {
		reg = domain.MustBuiltinPageSizes()
	}
	return &Presets{reg: reg}
}

func (p *Presets) Get() *domain.PageSizes {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.reg
}

func (p *Presets) Set(reg *domain.PageSizes) {
	if reg == nil {
		return
	}
	p.mu.Lock()
	p.reg = reg
	p.mu.Unlock()
}

// List returns every preset in configuration order.
func (p *Presets) List() []domain.PageSize {
	return p.Get().All()
}

// Resolve returns the preset for key, or the default.
func (p *Presets) Resolve(key string) domain.PageSize {
	return p.Get().Resolve(key)
}
