package style

// Kind names the primitive a Layer draws.
type Kind string

const (
	KindIcon   Kind = "icon"
	KindCircle Kind = "circle"
	KindLabel  Kind = "label"
)

// Layer is one renderable visual primitive. Layers handed out by a Cache are
// shared between every feature that resolves to them and must not be
// modified.
type Layer interface {
	Kind() Kind
}

// IconLayer draws a glyph image.
type IconLayer struct {
	Key         string
	Rotation    float64 // degrees, clockwise
	Width       float64
	Height      float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Glyph       string // SVG document
}

// CircleLayer draws the filled background circle of a marker.
type CircleLayer struct {
	Radius      float64
	StrokeWidth float64
	Fill        string
	Stroke      string
}

// LabelLayer draws text offset from the feature's anchor.
type LabelLayer struct {
	Text        string
	OffsetY     float64 // pixels, negative is up
	Font        string
	Fill        string
	Stroke      string
	StrokeWidth float64
}

func (*IconLayer) Kind() Kind   { return KindIcon }
func (*CircleLayer) Kind() Kind { return KindCircle }
func (*LabelLayer) Kind() Kind  { return KindLabel }

// Style is an ordered list of layers, drawn first to last. A Cache returns
// the same *Style for every feature with the same appearance.
type Style struct {
	Layers []Layer
}

// Icon returns the style's icon layer, or nil.
func (s *Style) Icon() *IconLayer {
	for _, l := range s.Layers {
		if icon, ok := l.(*IconLayer); ok {
			return icon
		}
	}
	return nil
}

// Label returns the style's label layer, or nil.
func (s *Style) Label() *LabelLayer {
	for _, l := range s.Layers {
		if label, ok := l.(*LabelLayer); ok {
			return label
		}
	}
	return nil
}
