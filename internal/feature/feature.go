// Package feature holds map features and the in-memory, spatially indexed
// store the drawing tools edit.
package feature

import (
	"sync"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-toolbar/internal/style"
)

// ChangeFunc is called after a feature's geometry has been replaced.
type ChangeFunc func(f *Feature, old orb.Geometry)

// Feature is a map feature: a stable identity, style properties and a
// geometry that edit tools may replace.
type Feature struct {
	id string

	mu        sync.RWMutex
	props     style.Properties
	geometry  orb.Geometry
	listeners []ChangeFunc
}

// New creates a feature. An empty id is replaced by a random UUID.
func New(id string, props style.Properties, g orb.Geometry) *Feature {
	if id == "" {
		id = uuid.NewString()
	}
	return &Feature{id: id, props: props, geometry: g}
}

// ID returns the feature's identifier.
func (f *Feature) ID() string {
	return f.id
}

// Properties returns the feature's style properties.
func (f *Feature) Properties() style.Properties {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.props
}

// SetProperties replaces the feature's style properties.
func (f *Feature) SetProperties(p style.Properties) {
	f.mu.Lock()
	f.props = p
	f.mu.Unlock()
}

// Type returns the feature's style type.
func (f *Feature) Type() style.Type {
	return f.Properties().Type
}

// Geometry returns the current geometry.
func (f *Feature) Geometry() orb.Geometry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.geometry
}

// Bound returns the extent of the current geometry.
func (f *Feature) Bound() orb.Bound {
	g := f.Geometry()
	if g == nil {
		return orb.Bound{}
	}
	return g.Bound()
}

// SetGeometry replaces the geometry and notifies listeners. The feature keeps
// its identity, properties and listeners.
//
// It does not touch any index. For a feature held by a Store use
// Store.SetGeometry, which re-indexes it.
func (f *Feature) SetGeometry(g orb.Geometry) {
	old := f.swapGeometry(g)
	f.notify(old)
}

// OnChange registers fn to be called after every geometry replacement.
func (f *Feature) OnChange(fn ChangeFunc) {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

func (f *Feature) swapGeometry(g orb.Geometry) orb.Geometry {
	f.mu.Lock()
	defer f.mu.Unlock()
	old := f.geometry
	f.geometry = g
	return old
}

func (f *Feature) notify(old orb.Geometry) {
	f.mu.RLock()
	listeners := make([]ChangeFunc, len(f.listeners))
	copy(listeners, f.listeners)
	f.mu.RUnlock()

	for _, fn := range listeners {
		fn(f, old)
	}
}
