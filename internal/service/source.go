package service

import (
	"context"

	"github.com/joeblew999/plat-toolbar/internal/feature"
	"github.com/joeblew999/plat-toolbar/internal/featuredb"
	"github.com/joeblew999/plat-toolbar/internal/topology"
)

// FeatureSource holds the features of one draw layer.
type FeatureSource interface {
	topology.CandidateSource
	Put(ctx context.Context, f *feature.Feature) error
	Features(ctx context.Context) ([]*feature.Feature, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ FeatureSource = memorySource{}
	_ FeatureSource = (*featuredb.Layer)(nil)
)

// memorySource adapts an in-memory feature.Store.
type memorySource struct {
	*feature.Store
}

func newMemorySource() memorySource {
	return memorySource{Store: feature.NewStore()}
}

// Put adds f, replacing a stored feature with the same id.
func (m memorySource) Put(_ context.Context, f *feature.Feature) error {
	if old, ok := m.Get(f.ID()); ok && old != f {
		if err := m.Remove(f.ID()); err != nil {
			return err
		}
	}
	if _, ok := m.Get(f.ID()); ok {
		return nil
	}
	return m.Add(f)
}

func (m memorySource) Features(context.Context) ([]*feature.Feature, error) {
	return m.Store.Features(), nil
}

func (m memorySource) Delete(_ context.Context, id string) error {
	return m.Remove(id)
}
