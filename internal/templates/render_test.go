package templates

import (
	"errors"
	"strings"
	"testing"

	"github.com/joeblew999/plat-toolbar/internal/feature"
	"github.com/joeblew999/plat-toolbar/internal/service"
	"github.com/joeblew999/plat-toolbar/internal/style"
	"github.com/joeblew999/plat-toolbar/internal/topology"
)

func TestLayerList(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}

	html, err := r.Render("layer-list", []service.LayerInfo{
		{LayerConfig: service.LayerConfig{ID: "draw", Name: "Draw <1>", Persistent: true}, Features: 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`id="layer-draw"`, "Draw &lt;1&gt;", ">3<", "saved", "/api/v1/layers/draw"} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in %s", want, html)
		}
	}

	empty, err := r.Render("layer-list", []service.LayerInfo{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(empty, "No layers") {
		t.Errorf("empty list = %s", empty)
	}
}

func TestCutResult(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}
	res := &topology.Result{
		Edited: []*feature.Feature{feature.New("a", style.Properties{Type: style.TypeDrawing}, nil)},
		Failed: []*topology.CandidateError{{ID: "b", Err: errors.New("bad ring")}},
	}
	html, err := r.Render("cut-result", res)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "Cut 1 features") || !strings.Contains(html, "b: bad ring") {
		t.Errorf("cut result = %s", html)
	}
}

func TestUnknownTemplate(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render("nope", nil); err == nil {
		t.Error("rendering an unknown template succeeded")
	}
}
