// Package preview rasterises resolved styles to PNG so clients can show a
// swatch of a marker before placing it.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"github.com/joeblew999/plat-toolbar/internal/glyph"
	"github.com/joeblew999/plat-toolbar/internal/style"
)

// Size limits for a rendered preview, in pixels.
const (
	MinSize     = 8
	MaxSize     = 512
	DefaultSize = 64
)

var ErrSize = errors.New("preview size out of range")

// Render draws the circle and icon layers of s centred on a square canvas
// and returns the PNG encoding. Label layers are skipped.
func Render(s *style.Style, size int) ([]byte, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrSize, size)
	}

	dc := gg.NewContext(size, size)
	defer dc.Close()

	if s != nil {
		c := float64(size) / 2
		for _, l := range s.Layers {
			var err error
			switch l := l.(type) {
			case *style.CircleLayer:
				err = drawCircle(dc, c, l)
			case *style.IconLayer:
				err = drawIcon(dc, c, l)
			}
			if err != nil {
				return nil, fmt.Errorf("drawing %s layer: %w", l.Kind(), err)
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawCircle(dc *gg.Context, c float64, l *style.CircleLayer) error {
	if l.Radius <= 0 {
		return nil
	}
	dc.DrawCircle(c, c, l.Radius)
	return paint(dc, l.Fill, l.Stroke, l.StrokeWidth)
}

func drawIcon(dc *gg.Context, c float64, l *style.IconLayer) error {
	p, ok := glyph.Lookup(l.Key)
	if !ok {
		p, _ = glyph.Lookup(style.FallbackIcon)
	}
	w, h := l.Width, l.Height
	if w <= 0 {
		w = glyph.GridSize
	}
	if h <= 0 {
		h = glyph.GridSize
	}

	dc.Push()
	defer dc.Pop()
	dc.Translate(c, c)
	dc.Rotate(l.Rotation * math.Pi / 180)
	dc.Scale(w/glyph.GridSize, h/glyph.GridSize)
	dc.Translate(-glyph.GridSize/2, -glyph.GridSize/2)

	for _, e := range p.Elements() {
		switch e := e.(type) {
		case gg.MoveTo:
			dc.MoveTo(e.Point.X, e.Point.Y)
		case gg.LineTo:
			dc.LineTo(e.Point.X, e.Point.Y)
		case gg.QuadTo:
			dc.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case gg.CubicTo:
			dc.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case gg.Close:
			dc.ClosePath()
		}
	}
	return paint(dc, l.Fill, l.Stroke, l.StrokeWidth)
}

// paint fills then strokes the current path. Only hex colors are drawn;
// anything else is treated as none.
func paint(dc *gg.Context, fill, stroke string, width float64) error {
	if isHex(fill) {
		dc.SetHexColor(fill)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	}
	if isHex(stroke) && width > 0 {
		dc.SetHexColor(stroke)
		dc.SetLineWidth(width)
		if err := dc.StrokePreserve(); err != nil {
			return err
		}
	}
	dc.ClearPath()
	return nil
}

func isHex(color string) bool {
	return strings.HasPrefix(color, "#") && len(color) > 1
}
