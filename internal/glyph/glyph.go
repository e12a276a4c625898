// Package glyph synthesizes the vector outlines drawn for map markers and
// wind barbs.
//
// Outlines are built once as gg paths on a 32x32 design grid and shared by
// every caller. Synthesize turns an outline plus appearance parameters into a
// standalone SVG document, which is what the style cache keys on.
package glyph

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// GridSize is the edge length of the square design grid every outline is
// drawn on.
const GridSize = 32.0

// ErrUnknownGlyph is returned when a key names neither an icon nor a
// tabulated wind barb.
var ErrUnknownGlyph = errors.New("unknown glyph")

// Appearance holds the paint parameters applied to an outline.
type Appearance struct {
	Width       float64
	Height      float64
	Fill        string
	Stroke      string
	StrokeWidth float64
}

// Lookup returns the shared outline for key. Keys starting with "knot" are
// wind barbs, anything else is an icon id.
func Lookup(key string) (*gg.Path, bool) {
	if strings.HasPrefix(key, knotPrefix) {
		p, ok := windBarbs[key]
		return p, ok
	}
	p, ok := icons[key]
	return p, ok
}

// Synthesize renders the outline for key as an SVG document.
func Synthesize(key string, a Appearance) (string, error) {
	p, ok := Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGlyph, key)
	}
	return Document(p, a), nil
}

// Document wraps an outline in an SVG element sized by a.
func Document(p *gg.Path, a Appearance) string {
	w, h := a.Width, a.Height
	if w <= 0 {
		w = GridSize
	}
	if h <= 0 {
		h = GridSize
	}
	fill := a.Fill
	if fill == "" {
		fill = "none"
	}
	stroke := a.Stroke
	if stroke == "" {
		stroke = "none"
	}

	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="`)
	b.WriteString(num(w))
	b.WriteString(`" height="`)
	b.WriteString(num(h))
	b.WriteString(`" viewBox="0 0 32 32"><path d="`)
	b.WriteString(PathData(p))
	b.WriteString(`" fill="`)
	b.WriteString(html.EscapeString(fill))
	b.WriteString(`" stroke="`)
	b.WriteString(html.EscapeString(stroke))
	b.WriteString(`" stroke-width="`)
	b.WriteString(num(a.StrokeWidth))
	b.WriteString(`"/></svg>`)
	return b.String()
}

// PathData serializes p as the value of an SVG d attribute.
func PathData(p *gg.Path) string {
	var b strings.Builder
	for _, elem := range p.Elements() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		switch e := elem.(type) {
		case gg.MoveTo:
			b.WriteString("M")
			writePoints(&b, e.Point)
		case gg.LineTo:
			b.WriteString("L")
			writePoints(&b, e.Point)
		case gg.QuadTo:
			b.WriteString("Q")
			writePoints(&b, e.Control, e.Point)
		case gg.CubicTo:
			b.WriteString("C")
			writePoints(&b, e.Control1, e.Control2, e.Point)
		case gg.Close:
			b.WriteString("Z")
		}
	}
	return b.String()
}

func writePoints(b *strings.Builder, pts ...gg.Point) {
	for _, pt := range pts {
		b.WriteByte(' ')
		b.WriteString(num(pt.X))
		b.WriteByte(' ')
		b.WriteString(num(pt.Y))
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
