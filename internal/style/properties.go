// Package style resolves per-feature style attributes into shared,
// renderable style layers.
package style

import (
	"strconv"
	"strings"
)

// Type is the semantic kind of a feature, set by the tool that created it.
type Type string

// Feature types set by the toolbar tools.
const (
	TypeIconMarker  Type = "iconMarker"
	TypeWindBarb    Type = "windBarb"
	TypeDrawing     Type = "drawing"
	TypeMeasurement Type = "measurement"
	TypeLayer       Type = "layer"
)

// Icon describes the glyph drawn for markers and wind barbs.
type Icon struct {
	Key         string  `json:"key,omitempty" yaml:"key,omitempty" doc:"Icon id, or wind barb key" example:"pin"`
	Width       float64 `json:"width,omitempty" yaml:"width,omitempty" doc:"Rendered width in pixels" example:"14"`
	Height      float64 `json:"height,omitempty" yaml:"height,omitempty" doc:"Rendered height in pixels" example:"14"`
	Rotation    float64 `json:"rotation,omitempty" yaml:"rotation,omitempty" doc:"Rotation in degrees, clockwise"`
	Fill        string  `json:"fill,omitempty" yaml:"fill,omitempty" doc:"Fill color (CSS)" example:"#ffffff"`
	Stroke      string  `json:"stroke,omitempty" yaml:"stroke,omitempty" doc:"Stroke color (CSS)" example:"#ffffff"`
	StrokeWidth float64 `json:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty" doc:"Stroke width in pixels"`
}

// Marker describes the background circle behind an icon marker.
type Marker struct {
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty" doc:"Circle radius in pixels" example:"14"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty" doc:"Circle stroke width in pixels" example:"2"`
	Fill   string  `json:"fill,omitempty" yaml:"fill,omitempty" doc:"Fill color (CSS)" example:"#0166A5FF"`
	Stroke string  `json:"stroke,omitempty" yaml:"stroke,omitempty" doc:"Stroke color (CSS)" example:"#0166A566"`
}

// Label describes the text drawn next to a marker.
type Label struct {
	Text             string  `json:"text,omitempty" yaml:"text,omitempty" doc:"Label text" example:"Marker #"`
	Font             string  `json:"font,omitempty" yaml:"font,omitempty" doc:"CSS font shorthand" example:"14px Calibri"`
	Fill             string  `json:"fill,omitempty" yaml:"fill,omitempty" doc:"Text fill color (CSS)"`
	Stroke           string  `json:"stroke,omitempty" yaml:"stroke,omitempty" doc:"Text halo color (CSS)"`
	StrokeWidth      float64 `json:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty" doc:"Text halo width"`
	UseUpperCase     bool    `json:"useUpperCase,omitempty" yaml:"useUpperCase,omitempty" doc:"Render the text upper-cased"`
	UseEllipsisAfter int     `json:"useEllipsisAfter,omitempty" yaml:"useEllipsisAfter,omitempty" minimum:"0" doc:"Truncate after this many characters, 0 disables"`
}

// Settings holds per-feature rendering switches.
type Settings struct {
	ShouldReplaceHashtag bool `json:"shouldReplaceHashtag,omitempty" yaml:"shouldReplaceHashtag,omitempty" doc:"Replace # in the label with the sequence number"`
	Sequence             int  `json:"sequence,omitempty" yaml:"sequence,omitempty" doc:"Sequence number substituted for #"`
}

// Properties are the style attributes attached to a feature. They are set
// when the feature is created, changed by the edit tools and read on every
// render pass.
type Properties struct {
	Type      Type     `json:"type" yaml:"type" doc:"Feature type" example:"iconMarker"`
	Icon      Icon     `json:"icon,omitempty" yaml:"icon,omitempty"`
	Marker    Marker   `json:"marker,omitempty" yaml:"marker,omitempty"`
	Label     Label    `json:"label,omitempty" yaml:"label,omitempty"`
	Settings  Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
	WindSpeed float64  `json:"windSpeed,omitempty" yaml:"windSpeed,omitempty" doc:"Wind speed in m/s, wind barbs only"`
}

// LabelText returns the label text with the hashtag substitution applied.
func (p Properties) LabelText() string {
	if !p.Settings.ShouldReplaceHashtag {
		return p.Label.Text
	}
	return strings.ReplaceAll(p.Label.Text, "#", strconv.Itoa(p.Settings.Sequence))
}
