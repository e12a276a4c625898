package feature

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

var (
	ErrNotFound  = errors.New("feature not found")
	ErrDuplicate = errors.New("feature already exists")
)

// Store is an in-memory feature collection with an R-tree over feature
// extents for fast overlap queries.
type Store struct {
	mu       sync.RWMutex
	features map[string]*indexedFeature
	rtree    *rtreego.Rtree
	seq      uint64
}

// indexedFeature wraps a feature for R-tree storage. bound is the extent the
// feature was indexed under, so it can be found again for deletion after the
// geometry changes.
type indexedFeature struct {
	feature *Feature
	bound   orb.Bound
	seq     uint64
	indexed bool
}

// Bounds implements rtreego.Spatial.
func (e *indexedFeature) Bounds() rtreego.Rect {
	return rect(e.bound)
}

const epsilon = 1e-9

// rect converts an extent to an R-tree rectangle. The R-tree rejects zero
// lengths, so points and axis-aligned lines get a small epsilon.
func rect(b orb.Bound) rtreego.Rect {
	w := b.Max[0] - b.Min[0]
	h := b.Max[1] - b.Min[1]
	if w < epsilon {
		w = epsilon
	}
	if h < epsilon {
		h = epsilon
	}
	r, _ := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{w, h})
	return r
}

// queryRect pads an extent so rectangles that only touch it still match;
// the R-tree treats shared edges as disjoint.
func queryRect(b orb.Bound) rtreego.Rect {
	return rect(b.Pad(epsilon))
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		features: make(map[string]*indexedFeature),
		rtree:    rtreego.NewTree(2, 25, 50),
	}
}

// Add inserts f into the store.
func (s *Store) Add(f *Feature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.features[f.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, f.ID())
	}
	s.seq++
	e := &indexedFeature{feature: f, seq: s.seq}
	s.features[f.ID()] = e
	s.index(e, f.Geometry())
	return nil
}

// Remove deletes the feature with the given id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.features[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.unindex(e)
	delete(s.features, id)
	return nil
}

// Get returns the feature with the given id.
func (s *Store) Get(id string) (*Feature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.features[id]
	if !ok {
		return nil, false
	}
	return e.feature, true
}

// Len returns the number of features in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.features)
}

// Features returns all features in insertion order.
func (s *Store) Features() []*Feature {
	s.mu.RLock()
	entries := make([]*indexedFeature, 0, len(s.features))
	for _, e := range s.features {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	result := make([]*Feature, len(entries))
	for i, e := range entries {
		result[i] = e.feature
	}
	return result
}

// ForEachFeatureIntersectingExtent calls fn for every feature whose extent
// intersects extent. This is a bounding-box test only. fn runs without the
// store lock held, so it may call back into the store.
func (s *Store) ForEachFeatureIntersectingExtent(ctx context.Context, extent orb.Bound, fn func(*Feature)) error {
	s.mu.RLock()
	spatials := s.rtree.SearchIntersect(queryRect(extent))
	matches := make([]*indexedFeature, 0, len(spatials))
	for _, sp := range spatials {
		e := sp.(*indexedFeature)
		// padding can widen a match; confirm on the real extent
		if e.bound.Intersects(extent) {
			matches = append(matches, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].seq < matches[j].seq })
	for _, e := range matches {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(e.feature)
	}
	return nil
}

// SetGeometry replaces f's geometry and re-indexes it. Listeners registered
// on f are notified after the index is updated.
func (s *Store) SetGeometry(ctx context.Context, f *Feature, g orb.Geometry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	e, ok := s.features[f.ID()]
	if !ok || e.feature != f {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, f.ID())
	}
	s.unindex(e)
	old := f.swapGeometry(g)
	s.index(e, g)
	s.mu.Unlock()

	f.notify(old)
	return nil
}

func (s *Store) index(e *indexedFeature, g orb.Geometry) {
	if g == nil {
		return
	}
	e.bound = g.Bound()
	e.indexed = true
	s.rtree.Insert(e)
}

func (s *Store) unindex(e *indexedFeature) {
	if !e.indexed {
		return
	}
	s.rtree.Delete(e)
	e.indexed = false
}
