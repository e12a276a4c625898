package glyph

import (
	"math"
	"strconv"

	"github.com/gogpu/gg"
)

const (
	knotPrefix = "knot"

	// CalmKey is the wind barb drawn when no tabulated bucket matches.
	CalmKey = knotPrefix + "0"

	mpsToKnots   = 1.943844
	speedStep    = 2.5 // m/s
	knotStep     = 5
	maxBarbKnots = 100
)

// windBarbs holds one outline per tabulated bucket: knot0, knot2 and every
// multiple of five up to maxBarbKnots.
var windBarbs = buildWindBarbs()

// WindBarbKey maps a wind speed in m/s to the key of its barb outline.
//
// Speeds from 1.0 up to (not including) 2.5 m/s map straight to knot2.
// Anything else is floored to a 2.5 m/s step, converted to knots and rounded
// to the nearest 5 knots. Speeds without a tabulated bucket, including
// those past the largest one, fall back to the calm barb.
func WindBarbKey(mps float64) string {
	if math.IsNaN(mps) || math.IsInf(mps, 0) {
		return CalmKey
	}
	if mps >= 1.0 && mps < speedStep {
		return knotPrefix + "2"
	}
	stepped := math.Floor(mps/speedStep) * speedStep
	knots := math.Round(stepped*mpsToKnots/knotStep) * knotStep
	if knots < 0 || knots > maxBarbKnots {
		return CalmKey
	}
	key := knotPrefix + strconv.Itoa(int(knots))
	if _, ok := windBarbs[key]; !ok {
		return CalmKey
	}
	return key
}

// WindBarb returns the outline for a wind speed in m/s.
func WindBarb(mps float64) *gg.Path {
	return windBarbs[WindBarbKey(mps)]
}

func buildWindBarbs() map[string]*gg.Path {
	m := make(map[string]*gg.Path, maxBarbKnots/knotStep+2)
	m[CalmKey] = barbOutline(0)
	m[knotPrefix+"2"] = barbOutline(2)
	for k := knotStep; k <= maxBarbKnots; k += knotStep {
		m[knotPrefix+strconv.Itoa(k)] = barbOutline(k)
	}
	return m
}

// barbOutline draws a barb pointing up from the grid centre: the staff, then
// pennants for every 50 knots, full barbs for every 10 and a half barb for
// a remaining 5.
func barbOutline(knots int) *gg.Path {
	const (
		c       = GridSize / 2
		top     = 2.0
		barbLen = 9.0
		rise    = 3.0
		gap     = 3.0
	)

	p := gg.NewPath()
	if knots == 0 {
		p.Circle(c, c, 5)
		p.Circle(c, c, 3)
		return p
	}

	p.MoveTo(c, c)
	p.LineTo(c, top)

	y := top
	rest := knots
	for rest >= 50 {
		p.MoveTo(c, y)
		p.LineTo(c-barbLen, y+gap/2)
		p.LineTo(c, y+gap)
		p.Close()
		y += gap + 1
		rest -= 50
	}
	for rest >= 10 {
		p.MoveTo(c, y+rise)
		p.LineTo(c-barbLen, y)
		y += gap
		rest -= 10
	}
	if rest >= 5 {
		if y == top {
			y += gap
		}
		p.MoveTo(c, y+rise/2)
		p.LineTo(c-barbLen/2, y)
	}
	return p
}
