package style

import (
	"strconv"
	"strings"
)

// keyBuilder concatenates primitive attribute values into one canonical
// cache key. Strings are length-prefixed so no pair of component lists can
// produce the same key.
type keyBuilder struct {
	b strings.Builder
}

func (k *keyBuilder) str(s string) *keyBuilder {
	k.b.WriteString(strconv.Itoa(len(s)))
	k.b.WriteByte(':')
	k.b.WriteString(s)
	return k
}

func (k *keyBuilder) num(f float64) *keyBuilder {
	if f == 0 {
		f = 0 // fold -0 into 0
	}
	k.b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	k.b.WriteByte('|')
	return k
}

func (k *keyBuilder) flag(v bool) *keyBuilder {
	if v {
		k.b.WriteByte('T')
	} else {
		k.b.WriteByte('F')
	}
	return k
}

func (k *keyBuilder) String() string {
	return k.b.String()
}

func iconKey(key string, rotation, width, height float64, fill, stroke string, strokeWidth float64, glyph string) string {
	var k keyBuilder
	return k.str(key).num(rotation).num(width).num(height).str(fill).str(stroke).num(strokeWidth).str(glyph).String()
}

func circleKey(radius, strokeWidth float64, fill, stroke string) string {
	var k keyBuilder
	return k.num(radius).num(strokeWidth).str(fill).str(stroke).String()
}

func labelKey(text string, offsetY float64, font, fill, stroke string, strokeWidth float64) string {
	var k keyBuilder
	return k.str(text).num(offsetY).str(font).str(fill).str(stroke).num(strokeWidth).String()
}

// styleKey covers every attribute Resolve reads for the given type.
func styleKey(p Properties, glyphKey string, withLabel bool) string {
	var k keyBuilder
	k.str(string(p.Type)).str(glyphKey).
		num(p.Icon.Rotation).num(p.Icon.Width).num(p.Icon.Height).
		str(p.Icon.Fill).str(p.Icon.Stroke).num(p.Icon.StrokeWidth)
	if p.Type == TypeIconMarker {
		k.num(p.Marker.Radius).num(p.Marker.Width).str(p.Marker.Fill).str(p.Marker.Stroke)
	}
	k.flag(withLabel)
	if withLabel {
		l := p.Label
		k.str(p.LabelText()).str(l.Font).str(l.Fill).str(l.Stroke).num(l.StrokeWidth).
			flag(l.UseUpperCase).num(float64(l.UseEllipsisAfter))
	}
	return k.String()
}
