package style

import (
	"io"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	return NewCache(Gate{LabelsEnabled: true, VisibleUnderResolution: 40}, WithLogger(log.New(io.Discard)))
}

func marker(text string) Properties {
	return Properties{
		Type:   TypeIconMarker,
		Icon:   Icon{Key: "pin", Width: 14, Height: 14, Fill: "#ffffff", Stroke: "#ffffff", StrokeWidth: 1},
		Marker: Marker{Radius: 14, Width: 2, Fill: "#0166A5FF", Stroke: "#0166A566"},
		Label:  Label{Text: text, Font: "14px Calibri", Fill: "#fff", Stroke: "#000", StrokeWidth: 3},
	}
}

func windBarb(speed, rotation float64) Properties {
	return Properties{
		Type:      TypeWindBarb,
		Icon:      Icon{Width: 250, Height: 250, Rotation: rotation, Stroke: "#3B4352FF", StrokeWidth: 3},
		Label:     Label{Text: "Wind", Font: "14px Calibri"},
		WindSpeed: speed,
	}
}

func TestResolveSharesStyle(t *testing.T) {
	c := newTestCache(t)

	// distinct values with identical contents
	a := marker("Home")
	b := marker(strings.Clone("Home"))

	s1 := c.Resolve(a, 10)
	s2 := c.Resolve(b, 10)
	if s1 == nil {
		t.Fatal("Resolve returned nil for an icon marker")
	}
	if s1 != s2 {
		t.Fatal("equal properties resolved to different styles")
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 miss", st)
	}
}

func TestResolveLayerOrder(t *testing.T) {
	c := newTestCache(t)

	s := c.Resolve(marker("Home"), 10)
	kinds := layerKinds(s)
	if diff := cmp.Diff([]Kind{KindCircle, KindIcon, KindLabel}, kinds); diff != "" {
		t.Errorf("icon marker layers (-want +got):\n%s", diff)
	}

	s = c.Resolve(windBarb(10, 0), 10)
	kinds = layerKinds(s)
	if diff := cmp.Diff([]Kind{KindIcon, KindLabel}, kinds); diff != "" {
		t.Errorf("wind barb layers (-want +got):\n%s", diff)
	}
}

func TestResolveUnknownType(t *testing.T) {
	c := newTestCache(t)
	for _, typ := range []Type{TypeDrawing, TypeMeasurement, TypeLayer, "bookmark", ""} {
		if s := c.Resolve(Properties{Type: typ}, 10); s != nil {
			t.Errorf("Resolve(%q) = %v, want nil", typ, s)
		}
	}
	if n := c.Size(); n != 0 {
		t.Errorf("Size() = %d after unstyled types, want 0", n)
	}
}

func TestResolveLabelGate(t *testing.T) {
	c := newTestCache(t)
	p := marker("Home")

	near := c.Resolve(p, 39.9)
	far := c.Resolve(p, 40)

	if near == far {
		t.Fatal("icon-only and icon+label styles must be distinct entries")
	}
	if near.Label() == nil {
		t.Error("label missing below threshold")
	}
	if far.Label() != nil {
		t.Error("label present at threshold")
	}
	if near.Icon() != far.Icon() {
		t.Error("icon layer not shared between label variants")
	}
	if near.Layers[0] != far.Layers[0] {
		t.Error("circle layer not shared between label variants")
	}
}

func TestResolveLabelsDisabled(t *testing.T) {
	c := NewCache(Gate{LabelsEnabled: false, VisibleUnderResolution: 1000}, WithLogger(log.New(io.Discard)))
	if s := c.Resolve(marker("Home"), 1); s.Label() != nil {
		t.Error("label drawn with labels disabled")
	}
}

func TestClear(t *testing.T) {
	c := newTestCache(t)
	p := marker("Home")

	before := c.Resolve(p, 10)
	if c.Size() == 0 {
		t.Fatal("Size() = 0 after Resolve")
	}

	c.Clear()
	if n := c.Size(); n != 0 {
		t.Fatalf("Size() = %d after Clear, want 0", n)
	}

	after := c.Resolve(p, 10)
	if before == after {
		t.Fatal("Resolve after Clear reused a stale style")
	}
	if before.Icon() == after.Icon() {
		t.Fatal("Resolve after Clear reused a stale icon layer")
	}
	if n := c.Size(); n != 3 {
		t.Errorf("Size() = %d after rebuild, want 3", n)
	}
}

func TestSizeCountsNewTuples(t *testing.T) {
	c := newTestCache(t)

	steps := []struct {
		name  string
		build func()
		grow  int
	}{
		{"new icon", func() { c.IconLayer("pin", 0, 14, 14, "#fff", "#000", 1, "<svg/>") }, 1},
		{"same icon", func() { c.IconLayer("pin", 0, 14, 14, "#fff", "#000", 1, "<svg/>") }, 0},
		{"rotated icon", func() { c.IconLayer("pin", 90, 14, 14, "#fff", "#000", 1, "<svg/>") }, 1},
		{"other glyph", func() { c.IconLayer("pin", 0, 14, 14, "#fff", "#000", 1, "<svg>bad") }, 1},
		{"thicker stroke", func() { c.IconLayer("pin", 0, 14, 14, "#fff", "#000", 3, "<svg/>") }, 1},
		{"new circle", func() { c.CircleLayer(14, 2, "#fff", "#000") }, 1},
		{"same circle", func() { c.CircleLayer(14, 2, "#fff", "#000") }, 0},
		{"new label", func() { c.LabelLayer("home", -30, false, 0, "14px Calibri", "#fff", "#000", 3) }, 1},
		{"same label", func() { c.LabelLayer("home", -30, false, 0, "14px Calibri", "#fff", "#000", 3) }, 0},
		{"label upper", func() { c.LabelLayer("home", -30, true, 0, "14px Calibri", "#fff", "#000", 3) }, 1},
		{"label already upper", func() { c.LabelLayer("HOME", -30, false, 0, "14px Calibri", "#fff", "#000", 3) }, 0},
	}

	for _, step := range steps {
		n := c.Size()
		step.build()
		if got := c.Size() - n; got != step.grow {
			t.Errorf("%s: Size() grew by %d, want %d", step.name, got, step.grow)
		}
	}
}

func TestSizeCountsLayersNotStyles(t *testing.T) {
	c := newTestCache(t)

	c.Resolve(marker("Home"), 10)
	if got := c.Size(); got != 3 {
		t.Errorf("Size() after first marker = %d, want 3", got)
	}
	if got := c.Stats().Styles; got != 1 {
		t.Errorf("Stats().Styles = %d, want 1", got)
	}

	// same circle and icon, new label
	c.Resolve(marker("Work"), 10)
	if got := c.Size(); got != 4 {
		t.Errorf("Size() after second marker = %d, want 4", got)
	}
	if got := c.Stats().Styles; got != 2 {
		t.Errorf("Stats().Styles = %d, want 2", got)
	}
}

func TestLayerIdentityByValue(t *testing.T) {
	c := newTestCache(t)

	if c.CircleLayer(14, 2, "#fff", "#000") != c.CircleLayer(14, 2, "#fff", "#000") {
		t.Error("equal circle tuples returned different layers")
	}
	if c.CircleLayer(0, 2, "#fff", "#000") != c.CircleLayer(math.Copysign(0, -1), 2, "#fff", "#000") {
		t.Error("zero and negative zero radius returned different layers")
	}
	// length-prefixed components cannot run into each other
	if c.CircleLayer(1, 1, "ab", "c") == c.CircleLayer(1, 1, "a", "bc") {
		t.Error("distinct fill/stroke pairs collided")
	}
}

func TestLabelTransforms(t *testing.T) {
	c := newTestCache(t)

	tests := []struct {
		name     string
		text     string
		upper    bool
		ellipsis int
		want     string
	}{
		{"plain", "Harbour", false, 0, "Harbour"},
		{"upper", "Harbour", true, 0, "HARBOUR"},
		{"ellipsis", "Harbour entrance", false, 7, "Harbour..."},
		{"short text untouched", "Pier", false, 7, "Pier"},
		{"upper then ellipsis", "straße nord", true, 6, "STRASS..."},
		{"runes not bytes", "Göteborg", false, 3, "Göt..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := c.LabelLayer(tt.text, 0, tt.upper, tt.ellipsis, "", "", "", 0)
			if l.Text != tt.want {
				t.Errorf("text = %q, want %q", l.Text, tt.want)
			}
		})
	}
}

func TestWindBarbStyles(t *testing.T) {
	c := newTestCache(t)

	// both speeds floor to the same 10 knot bucket
	a := c.Resolve(windBarb(5.0, 45), 10)
	b := c.Resolve(windBarb(6.1, 45), 10)
	if a != b {
		t.Error("speeds in the same bucket resolved to different styles")
	}
	if got := a.Icon().Key; got != "knot10" {
		t.Errorf("icon key = %q, want knot10", got)
	}

	calm := c.Resolve(windBarb(1000, 45), 10)
	if got := calm.Icon().Key; got != "knot0" {
		t.Errorf("out of range icon key = %q, want knot0", got)
	}
}

func TestWindBarbLabelOffset(t *testing.T) {
	tests := []struct {
		rotation float64
		want     float64
	}{
		{0, WindBarbLabelOffsetY},
		{89.9, WindBarbLabelOffsetY},
		{90, -WindBarbLabelOffsetY},
		{180, -WindBarbLabelOffsetY},
		{270, -WindBarbLabelOffsetY},
		{270.1, WindBarbLabelOffsetY},
		{450, -WindBarbLabelOffsetY},
		{-90, -WindBarbLabelOffsetY},
		{-10, WindBarbLabelOffsetY},
	}
	for _, tt := range tests {
		if got := windBarbLabelOffset(tt.rotation); got != tt.want {
			t.Errorf("windBarbLabelOffset(%v) = %v, want %v", tt.rotation, got, tt.want)
		}
	}

	c := newTestCache(t)
	up := c.Resolve(windBarb(10, 0), 10).Label()
	down := c.Resolve(windBarb(10, 180), 10).Label()
	if up.OffsetY != -down.OffsetY {
		t.Errorf("offsets %v and %v are not mirrored", up.OffsetY, down.OffsetY)
	}
}

func TestMarkerLabelOffsetFixed(t *testing.T) {
	c := newTestCache(t)
	p := marker("Home")
	p.Icon.Rotation = 180
	if got := c.Resolve(p, 10).Label().OffsetY; got != MarkerLabelOffsetY {
		t.Errorf("marker label offset = %v, want %v", got, MarkerLabelOffsetY)
	}
}

func TestHashtagReplacement(t *testing.T) {
	c := newTestCache(t)

	p := marker("Marker #")
	p.Settings = Settings{ShouldReplaceHashtag: true, Sequence: 7}
	if got := c.Resolve(p, 10).Label().Text; got != "Marker 7" {
		t.Errorf("label = %q, want %q", got, "Marker 7")
	}

	p.Settings.ShouldReplaceHashtag = false
	if got := c.Resolve(p, 10).Label().Text; got != "Marker #" {
		t.Errorf("label = %q, want %q", got, "Marker #")
	}
}

func TestUnknownIconFallsBack(t *testing.T) {
	c := newTestCache(t)
	p := marker("Home")
	p.Icon.Key = "no-such-icon"

	s := c.Resolve(p, 10)
	if s == nil || s.Icon().Glyph == "" {
		t.Fatal("unknown icon should fall back to a drawable glyph")
	}
	if s.Icon().Key != "no-such-icon" {
		t.Errorf("icon key = %q, want the requested key", s.Icon().Key)
	}
}

func TestSetGateClears(t *testing.T) {
	c := newTestCache(t)
	c.Resolve(marker("Home"), 10)

	c.SetGate(c.Gate())
	if c.Size() == 0 {
		t.Fatal("SetGate with an unchanged gate cleared the cache")
	}

	c.SetGate(Gate{LabelsEnabled: false, VisibleUnderResolution: 40})
	if n := c.Size(); n != 0 {
		t.Fatalf("Size() = %d after gate change, want 0", n)
	}
	if s := c.Resolve(marker("Home"), 10); s.Label() != nil {
		t.Error("label drawn after labels were disabled")
	}
}

func TestDefaultLifecycle(t *testing.T) {
	c := Init(DefaultGate(), WithLogger(log.New(io.Discard)))
	if Default() != c {
		t.Fatal("Default() does not return the initialised cache")
	}
	Default().Resolve(marker("Home"), 10)
	Clear()
	if n := Default().Size(); n != 0 {
		t.Errorf("Size() = %d after Clear, want 0", n)
	}
}

func layerKinds(s *Style) []Kind {
	kinds := make([]Kind, len(s.Layers))
	for i, l := range s.Layers {
		kinds[i] = l.Kind()
	}
	return kinds
}
