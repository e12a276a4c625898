package feature

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-toolbar/internal/style"
)

// ToGeoJSON converts f to a GeoJSON feature. The style properties become the
// GeoJSON properties object.
func ToGeoJSON(f *Feature) (*geojson.Feature, error) {
	gf := geojson.NewFeature(f.Geometry())
	gf.ID = f.ID()

	data, err := json.Marshal(f.Properties())
	if err != nil {
		return nil, fmt.Errorf("encoding properties: %w", err)
	}
	if err := json.Unmarshal(data, &gf.Properties); err != nil {
		return nil, fmt.Errorf("encoding properties: %w", err)
	}
	return gf, nil
}

// FromGeoJSON converts a GeoJSON feature. A string or numeric id is kept;
// a missing id gets a fresh one.
func FromGeoJSON(gf *geojson.Feature) (*Feature, error) {
	var props style.Properties
	if len(gf.Properties) > 0 {
		data, err := json.Marshal(gf.Properties)
		if err != nil {
			return nil, fmt.Errorf("decoding properties: %w", err)
		}
		if err := json.Unmarshal(data, &props); err != nil {
			return nil, fmt.Errorf("decoding properties: %w", err)
		}
	}

	var id string
	switch v := gf.ID.(type) {
	case nil:
	case string:
		id = v
	default:
		id = fmt.Sprint(v)
	}
	return New(id, props, gf.Geometry), nil
}

// Collection converts features to a GeoJSON feature collection.
func Collection(features []*Feature) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		gf, err := ToGeoJSON(f)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", f.ID(), err)
		}
		fc.Append(gf)
	}
	return fc, nil
}
