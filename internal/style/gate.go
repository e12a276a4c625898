package style

// Gate decides whether labels are drawn at a given view resolution.
type Gate struct {
	LabelsEnabled          bool
	VisibleUnderResolution float64
}

// DefaultGate shows labels once the view is zoomed in past 40 map units per
// pixel.
func DefaultGate() Gate {
	return Gate{LabelsEnabled: true, VisibleUnderResolution: 40}
}

// ShowLabel reports whether a label layer belongs in a style resolved at
// resolution.
func (g Gate) ShowLabel(resolution float64) bool {
	return g.LabelsEnabled && resolution < g.VisibleUnderResolution
}
