package topology

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

var (
	ErrMalformedRing = errors.New("malformed ring")
	ErrNotArea       = errors.New("geometry has no area")
	ErrNoOverlap     = errors.New("no polygon overlaps the cut")
)

// OuterRings returns a closed copy of the outer boundary of every member of
// an area geometry: one ring for a Polygon, one per member for a
// MultiPolygon. A ring with at least three points that is not closed gets
// closed.
func OuterRings(g orb.Geometry) ([]orb.Ring, error) {
	var rings []orb.Ring
	switch g := g.(type) {
	case orb.Polygon:
		if len(g) == 0 {
			return nil, fmt.Errorf("%w: polygon has no rings", ErrMalformedRing)
		}
		rings = []orb.Ring{g[0]}
	case orb.MultiPolygon:
		if len(g) == 0 {
			return nil, fmt.Errorf("%w: multipolygon has no members", ErrMalformedRing)
		}
		for i, p := range g {
			if len(p) == 0 {
				return nil, fmt.Errorf("%w: polygon %d has no rings", ErrMalformedRing, i)
			}
			rings = append(rings, p[0])
		}
	case orb.Ring:
		rings = []orb.Ring{g}
	case orb.Bound:
		rings = []orb.Ring{g.ToRing()}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotArea, kind(g))
	}

	out := make([]orb.Ring, len(rings))
	for i, r := range rings {
		r = r.Clone()
		if len(r) >= 3 && !r.Closed() {
			r = append(r, r[0])
		}
		if err := checkRing(r); err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// CutHole returns a copy of g with hole inserted as an inner ring, wound
// opposite to the outer ring it is inserted into. g is not modified.
//
// A MultiPolygon gets the hole in every member whose extent overlaps the
// hole's extent; if none does, CutHole returns ErrNoOverlap.
func CutHole(g orb.Geometry, hole orb.Ring) (orb.Geometry, error) {
	if err := checkRing(hole); err != nil {
		return nil, fmt.Errorf("hole: %w", err)
	}

	switch g := g.(type) {
	case orb.Polygon:
		return cutPolygon(g, hole)
	case orb.MultiPolygon:
		hb := hole.Bound()
		out := make(orb.MultiPolygon, len(g))
		cut := 0
		for i, p := range g {
			if len(p) == 0 || !p.Bound().Intersects(hb) {
				out[i] = p.Clone()
				continue
			}
			np, err := cutPolygon(p, hole)
			if err != nil {
				return nil, fmt.Errorf("polygon %d: %w", i, err)
			}
			out[i] = np
			cut++
		}
		if cut == 0 {
			return nil, ErrNoOverlap
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotArea, kind(g))
	}
}

func cutPolygon(p orb.Polygon, hole orb.Ring) (orb.Polygon, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: polygon has no rings", ErrMalformedRing)
	}
	for i, r := range p {
		if err := checkRing(r); err != nil {
			return nil, fmt.Errorf("ring %d: %w", i, err)
		}
	}

	out := p.Clone()
	h := hole.Clone()
	if h.Orientation() == out[0].Orientation() {
		h.Reverse()
	}
	return append(out, h), nil
}

func checkRing(r orb.Ring) error {
	if len(r) < 4 {
		return fmt.Errorf("%w: %d points", ErrMalformedRing, len(r))
	}
	if !r.Closed() {
		return fmt.Errorf("%w: not closed", ErrMalformedRing)
	}
	if r.Orientation() == 0 {
		return fmt.Errorf("%w: zero area", ErrMalformedRing)
	}
	return nil
}

func kind(g orb.Geometry) string {
	if g == nil {
		return "empty geometry"
	}
	return g.GeoJSONType()
}
