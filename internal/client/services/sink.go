package services

import (
	"maps"
	"sync"

	"github.com/motogestor/dashclient/internal/client/models"
)

// Style variable names shared by every view.
const (
	VarPrimary    = "--color-primary"
	VarSecondary  = "--color-secondary"
	VarAccent     = "--color-accent"
	VarBackground = "--color-background"
	VarSurface    = "--color-surface"
)

// PresentationSink receives the palette that views should render with.
type PresentationSink interface {
	Apply(p models.ThemePalette)
}

// SinkFunc adapts a plain function to PresentationSink.
type SinkFunc func(p models.ThemePalette)

func (f SinkFunc) Apply(p models.ThemePalette) { f(p) }

// MultiSink fans a palette out to several sinks in order.
type MultiSink []PresentationSink

func (m MultiSink) Apply(p models.ThemePalette) {
	for _, s := range m {
		s.Apply(p)
	}
}

// VarsSink is the global style-variable table. It stays empty until the
// first Apply and is never reset afterwards.
type VarsSink struct {
	mu   sync.RWMutex
	vars map[string]string
}

func NewVarsSink() *VarsSink {
	return &VarsSink{vars: make(map[string]string)}
}

func (v *VarsSink) Apply(p models.ThemePalette) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vars[VarPrimary] = p.Primary
	v.vars[VarSecondary] = p.Secondary
	v.vars[VarAccent] = p.Accent
	v.vars[VarBackground] = p.Background
	v.vars[VarSurface] = p.Surface
}

// Get returns one variable; ok is false before any palette was applied.
func (v *VarsSink) Get(name string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.vars[name]
	return val, ok
}

// Variables returns a copy of the table.
func (v *VarsSink) Variables() map[string]string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.vars)
}
