// Package topology cuts freshly drawn shapes out of the area features they
// overlap by inserting the shape's outline as a hole.
package topology

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-toolbar/internal/feature"
	"github.com/joeblew999/plat-toolbar/internal/style"
)

// CandidateSource is the feature source the editor queries and edits.
type CandidateSource interface {
	// ForEachFeatureIntersectingExtent calls fn for every feature whose
	// extent intersects extent.
	ForEachFeatureIntersectingExtent(ctx context.Context, extent orb.Bound, fn func(*feature.Feature)) error
	// SetGeometry replaces f's geometry, keeping its identity.
	SetGeometry(ctx context.Context, f *feature.Feature, g orb.Geometry) error
}

// IsIntersectable reports whether a feature of type t with geometry g may
// receive a hole. Markers, wind barbs, measurements and layer features are
// never cut, and only polygons have an area to cut into.
func IsIntersectable(t style.Type, g orb.Geometry) bool {
	switch t {
	case style.TypeIconMarker, style.TypeWindBarb, style.TypeMeasurement, style.TypeLayer:
		return false
	}
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return true
	}
	return false
}

// CandidateError records a candidate that could not be cut.
type CandidateError struct {
	ID  string
	Err error
}

func (e *CandidateError) Error() string {
	return fmt.Sprintf("feature %s: %v", e.ID, e.Err)
}

func (e *CandidateError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one cut.
type Result struct {
	Edited []*feature.Feature
	Failed []*CandidateError
}

// Empty reports whether no candidate was touched. This is a normal outcome.
func (r *Result) Empty() bool {
	return len(r.Edited) == 0 && len(r.Failed) == 0
}

// Partial reports whether some candidates had to be skipped.
func (r *Result) Partial() bool {
	return len(r.Failed) > 0
}

// Editor applies intersection cuts. It holds no state between calls.
type Editor struct {
	logger *log.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the editor's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// NewEditor creates an editor.
func NewEditor(opts ...Option) *Editor {
	e := &Editor{logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CutOption configures a single ApplyIntersectionCut call.
type CutOption func(*cutOptions)

type cutOptions struct {
	exclude map[string]bool
}

// Exclude keeps the features with the given ids out of the candidate set,
// typically the feature that was just drawn.
func Exclude(ids ...string) CutOption {
	return func(o *cutOptions) {
		for _, id := range ids {
			o.exclude[id] = true
		}
	}
}

// ApplyIntersectionCut inserts the outline of g as a hole into every
// eligible feature of src whose extent overlaps g's extent. Overlap is a
// bounding-box test only. Each member of a MultiPolygon draw is cut on its
// own, so a feature only receives the outlines of members it overlaps.
//
// A g without area (a line or point draw) edits nothing. A candidate whose
// rings cannot be cut is recorded in Result.Failed and the others are still
// processed.
func (e *Editor) ApplyIntersectionCut(ctx context.Context, g orb.Geometry, src CandidateSource, opts ...CutOption) (*Result, error) {
	o := cutOptions{exclude: make(map[string]bool)}
	for _, opt := range opts {
		opt(&o)
	}

	res := &Result{}
	holes, err := OuterRings(g)
	if errors.Is(err, ErrNotArea) {
		e.logger.Debug("cut skipped", "reason", err)
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("drawn shape: %w", err)
	}

	// collect first: SetGeometry re-indexes the source
	var candidates []*feature.Feature
	holesOf := make(map[string][]orb.Ring)
	for _, hole := range holes {
		err = src.ForEachFeatureIntersectingExtent(ctx, hole.Bound(), func(f *feature.Feature) {
			if o.exclude[f.ID()] || !IsIntersectable(f.Type(), f.Geometry()) {
				return
			}
			if _, ok := holesOf[f.ID()]; !ok {
				candidates = append(candidates, f)
			}
			holesOf[f.ID()] = append(holesOf[f.ID()], hole)
		})
		if err != nil {
			return nil, fmt.Errorf("querying candidates: %w", err)
		}
	}

	for _, f := range candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		next, cut, err := cutAll(f.Geometry(), holesOf[f.ID()])
		if err == nil && cut == 0 {
			continue
		}
		if err == nil {
			err = src.SetGeometry(ctx, f, next)
		}
		if err != nil {
			e.logger.Warn("candidate skipped", "feature", f.ID(), "err", err)
			res.Failed = append(res.Failed, &CandidateError{ID: f.ID(), Err: err})
			continue
		}
		res.Edited = append(res.Edited, f)
	}

	e.logger.Debug("cut applied", "holes", len(holes), "candidates", len(candidates), "edited", len(res.Edited), "failed", len(res.Failed))
	return res, nil
}

// cutAll inserts each hole into g in turn and reports how many landed.
func cutAll(g orb.Geometry, holes []orb.Ring) (orb.Geometry, int, error) {
	cut := 0
	for _, hole := range holes {
		next, err := CutHole(g, hole)
		if errors.Is(err, ErrNoOverlap) {
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		g = next
		cut++
	}
	return g, cut, nil
}
