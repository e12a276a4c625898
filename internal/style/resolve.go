package style

import "github.com/joeblew999/plat-toolbar/internal/glyph"

// Resolve returns the style for a feature with properties p viewed at
// resolution. Features with equal style attributes and the same label
// outcome get the same *Style.
//
// Icon markers resolve to [circle, icon, label?] and wind barbs to
// [icon, label?]. Any other type returns nil and the renderer falls back to
// the feature's own style.
func (c *Cache) Resolve(p Properties, resolution float64) *Style {
	var glyphKey string
	switch p.Type {
	case TypeIconMarker:
		glyphKey = p.Icon.Key
	case TypeWindBarb:
		glyphKey = glyph.WindBarbKey(p.WindSpeed)
	default:
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	withLabel := c.gate.ShowLabel(resolution)
	key := styleKey(p, glyphKey, withLabel)
	if s, ok := c.styles[key]; ok {
		c.hits++
		return s
	}
	c.misses++

	svg := c.synthesize(glyphKey, p.Icon)
	icon := c.iconLayer(glyphKey, p.Icon.Rotation, p.Icon.Width, p.Icon.Height, p.Icon.Fill, p.Icon.Stroke, p.Icon.StrokeWidth, svg)

	var s *Style
	if p.Type == TypeIconMarker {
		circle := c.circleLayer(p.Marker.Radius, p.Marker.Width, p.Marker.Fill, p.Marker.Stroke)
		s = &Style{Layers: []Layer{circle, icon}}
		if withLabel {
			s.Layers = append(s.Layers, c.label(p, MarkerLabelOffsetY))
		}
	} else {
		s = &Style{Layers: []Layer{icon}}
		if withLabel {
			s.Layers = append(s.Layers, c.label(p, windBarbLabelOffset(p.Icon.Rotation)))
		}
	}

	c.styles[key] = s
	return s
}

func (c *Cache) label(p Properties, offsetY float64) *LabelLayer {
	l := p.Label
	return c.labelLayer(p.LabelText(), offsetY, l.UseUpperCase, l.UseEllipsisAfter, l.Font, l.Fill, l.Stroke, l.StrokeWidth)
}
