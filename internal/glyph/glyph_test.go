package glyph

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gg"
)

func TestWindBarbKey(t *testing.T) {
	tests := []struct {
		name string
		mps  float64
		want string
	}{
		{"calm", 0.5, "knot0"},
		{"zero", 0, "knot0"},
		{"base case", 1.2, "knot2"},
		{"base case lower edge", 1.0, "knot2"},
		{"first step", 2.5, "knot5"},
		{"floored to step", 4.9, "knot5"},
		{"ten knots", 5, "knot10"},
		{"gale", 25, "knot50"},
		{"largest bucket", 50, "knot95"},
		{"out of range", 1000, "knot0"},
		{"negative", -3, "knot0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindBarbKey(tt.mps); got != tt.want {
				t.Errorf("WindBarbKey(%v) = %q, want %q", tt.mps, got, tt.want)
			}
		})
	}
}

func TestWindBarbKeyAlwaysTabulated(t *testing.T) {
	for mps := -5.0; mps < 80; mps += 0.25 {
		key := WindBarbKey(mps)
		if _, ok := windBarbs[key]; !ok {
			t.Fatalf("WindBarbKey(%v) = %q has no outline", mps, key)
		}
	}
}

func TestSynthesize(t *testing.T) {
	svg, err := Synthesize("star", Appearance{Width: 20, Height: 20, Fill: "#ff0000", Stroke: "#000", StrokeWidth: 1.5})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`width="20"`, `fill="#ff0000"`, `stroke="#000"`, `stroke-width="1.5"`, `d="M `} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %s: %s", want, svg)
		}
	}
}

func TestSynthesizeWindBarb(t *testing.T) {
	svg, err := Synthesize(WindBarbKey(25), Appearance{Stroke: "#333", StrokeWidth: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg, `fill="none"`) {
		t.Errorf("empty fill should render as none: %s", svg)
	}
}

func TestSynthesizeUnknown(t *testing.T) {
	_, err := Synthesize("unicorn", Appearance{})
	if !errors.Is(err, ErrUnknownGlyph) {
		t.Fatalf("err = %v, want ErrUnknownGlyph", err)
	}
	_, err = Synthesize("knot7", Appearance{})
	if !errors.Is(err, ErrUnknownGlyph) {
		t.Fatalf("err = %v, want ErrUnknownGlyph", err)
	}
}

func TestPathData(t *testing.T) {
	p := gg.NewPath()
	p.MoveTo(1, 2)
	p.LineTo(3.5, 4)
	p.QuadraticTo(5, 6, 7, 8)
	p.Close()

	want := "M 1 2 L 3.5 4 Q 5 6 7 8 Z"
	if got := PathData(p); got != want {
		t.Errorf("PathData = %q, want %q", got, want)
	}
}

func TestBarbOutlines(t *testing.T) {
	// the 50 knot barb carries one closed pennant, 15 knots a barb and a half
	if n := countCloses(windBarbs["knot50"]); n != 1 {
		t.Errorf("knot50 closes = %d, want 1", n)
	}
	if n := countMoves(windBarbs["knot15"]); n != 3 {
		t.Errorf("knot15 moves = %d, want 3 (staff, barb, half barb)", n)
	}
	if n := countMoves(windBarbs["knot2"]); n != 1 {
		t.Errorf("knot2 moves = %d, want staff only", n)
	}
}

func TestIcons(t *testing.T) {
	ids := Icons()
	if len(ids) != len(icons) {
		t.Fatalf("Icons() = %d ids, want %d", len(ids), len(icons))
	}
	for _, id := range ids {
		if p, ok := Lookup(id); !ok || len(p.Elements()) == 0 {
			t.Errorf("icon %q has no outline", id)
		}
	}
}

func countCloses(p *gg.Path) int {
	n := 0
	for _, e := range p.Elements() {
		if _, ok := e.(gg.Close); ok {
			n++
		}
	}
	return n
}

func countMoves(p *gg.Path) int {
	n := 0
	for _, e := range p.Elements() {
		if _, ok := e.(gg.MoveTo); ok {
			n++
		}
	}
	return n
}
