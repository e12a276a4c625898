package featuredb

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-toolbar/internal/feature"
	"github.com/joeblew999/plat-toolbar/internal/style"
	"github.com/joeblew999/plat-toolbar/internal/topology"
)

var _ topology.CandidateSource = (*Layer)(nil)

func square(x, y, size float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
	}}
}

func openDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Config{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func openTest(t *testing.T) *Layer {
	t.Helper()
	return openDB(t).Layer("draw")
}

func put(t *testing.T, db *Layer, features ...*feature.Feature) {
	t.Helper()
	for _, f := range features {
		if err := db.Put(context.Background(), f); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPutGet(t *testing.T) {
	db := openTest(t)
	props := style.Properties{
		Type:   style.TypeIconMarker,
		Icon:   style.Icon{Key: "pin", Width: 14, Height: 14},
		Marker: style.Marker{Radius: 12, Fill: "#0166A5FF"},
		Label:  style.Label{Text: "Camp #", UseUpperCase: true},
	}
	put(t, db, feature.New("camp", props, orb.Point{10.5, 59.9}))

	got, err := db.Get(context.Background(), "camp")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(props, got.Properties()); diff != "" {
		t.Errorf("properties (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(orb.Geometry(orb.Point{10.5, 59.9}), got.Geometry()); diff != "" {
		t.Errorf("geometry (-want +got):\n%s", diff)
	}

	if _, err := db.Get(context.Background(), "missing"); !errors.Is(err, feature.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPutReplaces(t *testing.T) {
	db := openTest(t)
	put(t, db,
		feature.New("a", style.Properties{Type: style.TypeDrawing}, square(0, 0, 1)),
		feature.New("a", style.Properties{Type: style.TypeDrawing}, square(5, 5, 1)),
	)

	n, err := db.Len(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}

func TestForEachFeatureIntersectingExtent(t *testing.T) {
	db := openTest(t)
	put(t, db,
		feature.New("b-west", style.Properties{}, square(0, 0, 10)),
		feature.New("a-east", style.Properties{}, square(100, 0, 10)),
		feature.New("c-empty", style.Properties{}, nil),
	)

	tests := []struct {
		name   string
		extent orb.Bound
		want   []string
	}{
		{"west only", orb.Bound{Min: orb.Point{5, 5}, Max: orb.Point{20, 20}}, []string{"b-west"}},
		{"both in id order", orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{200, 1}}, []string{"a-east", "b-west"}},
		{"shared edge", orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{20, 20}}, []string{"b-west"}},
		{"disjoint", orb.Bound{Min: orb.Point{50, 50}, Max: orb.Point{60, 60}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			err := db.ForEachFeatureIntersectingExtent(context.Background(), tt.extent, func(f *feature.Feature) {
				got = append(got, f.ID())
			})
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetGeometry(t *testing.T) {
	db := openTest(t)
	put(t, db, feature.New("a", style.Properties{Type: style.TypeDrawing}, square(0, 0, 1)))

	f, err := db.Get(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	var notified bool
	f.OnChange(func(*feature.Feature, orb.Geometry) { notified = true })

	if err := db.SetGeometry(context.Background(), f, square(50, 50, 1)); err != nil {
		t.Fatal(err)
	}
	if !notified {
		t.Error("listener not notified")
	}

	var got []string
	db.ForEachFeatureIntersectingExtent(context.Background(), orb.Bound{Min: orb.Point{50, 50}, Max: orb.Point{51, 51}}, func(f *feature.Feature) {
		got = append(got, f.ID())
	})
	if diff := cmp.Diff([]string{"a"}, got); diff != "" {
		t.Errorf("new extent (-want +got):\n%s", diff)
	}

	stranger := feature.New("nope", style.Properties{}, nil)
	if err := db.SetGeometry(context.Background(), stranger, square(0, 0, 1)); !errors.Is(err, feature.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestIntersectionCutPersists(t *testing.T) {
	db := openTest(t)
	put(t, db,
		feature.New("field", style.Properties{Type: style.TypeDrawing}, square(0, 0, 100)),
		feature.New("marker", style.Properties{Type: style.TypeIconMarker}, orb.Point{50, 50}),
	)

	ed := topology.NewEditor(topology.WithLogger(log.New(io.Discard)))
	res, err := ed.ApplyIntersectionCut(context.Background(), square(40, 40, 20), db)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Edited) != 1 || res.Edited[0].ID() != "field" {
		t.Fatalf("edited = %v, want [field]", res.Edited)
	}

	stored, err := db.Get(context.Background(), "field")
	if err != nil {
		t.Fatal(err)
	}
	p, ok := stored.Geometry().(orb.Polygon)
	if !ok || len(p) != 2 {
		t.Fatalf("stored geometry = %#v, want polygon with one hole", stored.Geometry())
	}
	if p[1].Orientation() == p[0].Orientation() {
		t.Error("stored hole has the outer ring's winding")
	}
}

func TestLayersAreIsolated(t *testing.T) {
	db := openDB(t)
	roads, parks := db.Layer("roads"), db.Layer("parks")
	put(t, roads, feature.New("a", style.Properties{Type: style.TypeDrawing}, square(0, 0, 10)))
	put(t, parks, feature.New("a", style.Properties{Type: style.TypeDrawing}, square(0, 0, 10)))
	put(t, parks, feature.New("b", style.Properties{Type: style.TypeDrawing}, square(20, 0, 10)))

	names, err := db.Layers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"parks", "roads"}, names); diff != "" {
		t.Errorf("layers (-want +got):\n%s", diff)
	}

	ed := topology.NewEditor(topology.WithLogger(log.New(io.Discard)))
	if _, err := ed.ApplyIntersectionCut(context.Background(), square(2, 2, 2), parks); err != nil {
		t.Fatal(err)
	}
	a, err := roads.Get(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(a.Geometry().(orb.Polygon)); got != 1 {
		t.Errorf("cut in parks changed roads: %d rings", got)
	}

	if err := parks.Delete(context.Background(), "b"); err != nil {
		t.Fatal(err)
	}
	if err := parks.Delete(context.Background(), "b"); !errors.Is(err, feature.ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
	if err := parks.Drop(context.Background()); err != nil {
		t.Fatal(err)
	}
	features, err := parks.Features(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(features) != 0 {
		t.Errorf("parks still holds %d features after Drop", len(features))
	}
	if n, _ := roads.Len(context.Background()); n != 1 {
		t.Errorf("roads Len() = %d, want 1", n)
	}
}
