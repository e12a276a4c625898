package api

import (
	"context"
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-toolbar/internal/feature"
	"github.com/joeblew999/plat-toolbar/internal/humastar"
	"github.com/joeblew999/plat-toolbar/internal/service"
	"github.com/joeblew999/plat-toolbar/internal/topology"
)

// LayerBody is a layer response carrying its hypermedia actions.
type LayerBody struct {
	service.LayerInfo
}

var layerActions = []humastar.ActionDef{
	{Rel: "features", Pattern: "/api/v1/layers/%s/features", Method: "GET", Title: "List features"},
	{Rel: "draw", Pattern: "/api/v1/layers/%s/features", Method: "POST", Title: "Add a feature"},
	{Rel: "cut", Pattern: "/api/v1/layers/%s/cut", Method: "POST", Title: "Cut a hole"},
	{Rel: "delete", Pattern: "/api/v1/layers/%s", Method: "DELETE", Title: "Delete layer"},
}

func (b LayerBody) Actions() []humastar.Action {
	return humastar.ActionsFor(b.ID, layerActions)
}

type FeatureIDInput struct {
	ID        string `path:"id" doc:"Layer ID" example:"drawings"`
	FeatureID string `path:"fid" doc:"Feature ID"`
}

type AddFeatureInput struct {
	ID   string `path:"id" doc:"Layer ID" example:"drawings"`
	Body struct {
		Feature json.RawMessage `json:"feature" doc:"GeoJSON feature; properties hold the style attributes"`
		Cut     bool            `json:"cut,omitempty" doc:"Cut the feature's outline out of the areas it overlaps"`
	}
}

type AddFeatureBody struct {
	Feature *geojson.Feature `json:"feature" doc:"Stored feature"`
	Cut     *CutBody         `json:"cut,omitempty" doc:"Intersection cut result, when one ran"`
}

type CutInput struct {
	ID   string `path:"id" doc:"Layer ID" example:"drawings"`
	Body struct {
		Geometry json.RawMessage `json:"geometry" doc:"GeoJSON geometry of the drawn shape"`
		Exclude  []string        `json:"exclude,omitempty" doc:"Feature IDs to leave untouched"`
	}
}

type CutFailure struct {
	ID    string `json:"id" doc:"Feature ID"`
	Error string `json:"error" doc:"Why the feature could not be edited"`
}

type CutBody struct {
	Edited  []string     `json:"edited" doc:"IDs of features that gained a hole"`
	Failed  []CutFailure `json:"failed,omitempty" doc:"Candidates that could not be edited"`
	Partial bool         `json:"partial" doc:"Whether some candidates failed"`
	Message string       `json:"message" doc:"Result message"`
}

func cutBody(res *topology.Result) *CutBody {
	body := &CutBody{Edited: make([]string, 0, len(res.Edited)), Partial: res.Partial()}
	for _, f := range res.Edited {
		body.Edited = append(body.Edited, f.ID())
	}
	for _, fe := range res.Failed {
		body.Failed = append(body.Failed, CutFailure{ID: fe.ID, Error: fe.Err.Error()})
	}
	switch {
	case res.Partial():
		body.Message = "Cut applied with failures"
	case res.Empty():
		body.Message = "Nothing to cut"
	default:
		body.Message = "Cut applied"
	}
	return body
}

// RegisterLayers registers layer, feature and cut routes.
func (h *APIHandler) RegisterLayers(api huma.API) {
	tags := huma.OperationTags("layers")
	huma.Get(api, "/api/v1/layers", h.ListLayers, tags)
	huma.Post(api, "/api/v1/layers", h.CreateLayer, tags)
	huma.Get(api, "/api/v1/layers/{id}", h.GetLayer, tags)
	huma.Delete(api, "/api/v1/layers/{id}", h.DeleteLayer, tags)

	ftags := huma.OperationTags("features")
	huma.Get(api, "/api/v1/layers/{id}/features", h.ListFeatures, ftags)
	huma.Post(api, "/api/v1/layers/{id}/features", h.AddFeature, ftags)
	huma.Delete(api, "/api/v1/layers/{id}/features/{fid}", h.DeleteFeature, ftags)
	huma.Post(api, "/api/v1/layers/{id}/cut", h.CutLayer, ftags)
}

func (h *APIHandler) ListLayers(ctx context.Context, input *humastar.EmptyInput) (*struct{ Body []LayerBody }, error) {
	layers, err := h.svc.Layer.List(ctx)
	if err != nil {
		return nil, serviceError(err)
	}
	out := make([]LayerBody, len(layers))
	for i, l := range layers {
		out[i] = LayerBody{l}
	}
	return &struct{ Body []LayerBody }{Body: out}, nil
}

func (h *APIHandler) CreateLayer(ctx context.Context, input *struct{ Body service.LayerConfig }) (*struct{ Body LayerBody }, error) {
	layer, err := h.svc.Layer.Create(input.Body)
	if err != nil {
		return nil, serviceError(err)
	}
	return &struct{ Body LayerBody }{Body: LayerBody{service.LayerInfo{LayerConfig: layer}}}, nil
}

func (h *APIHandler) GetLayer(ctx context.Context, input *IDInput) (*struct{ Body LayerBody }, error) {
	layer, ok := h.svc.Layer.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("layer not found: " + input.ID)
	}
	features, err := h.svc.Layer.Features(ctx, input.ID)
	if err != nil {
		return nil, serviceError(err)
	}
	info := service.LayerInfo{LayerConfig: layer, Features: len(features)}
	return &struct{ Body LayerBody }{Body: LayerBody{info}}, nil
}

func (h *APIHandler) DeleteLayer(ctx context.Context, input *IDInput) (*struct{ Body MessageBody }, error) {
	if err := h.svc.Layer.Delete(ctx, input.ID); err != nil {
		return nil, serviceError(err)
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Layer deleted"}}, nil
}

func (h *APIHandler) ListFeatures(ctx context.Context, input *IDInput) (*struct{ Body *geojson.FeatureCollection }, error) {
	features, err := h.svc.Layer.Features(ctx, input.ID)
	if err != nil {
		return nil, serviceError(err)
	}
	fc, err := feature.Collection(features)
	if err != nil {
		return nil, serviceError(err)
	}
	return &struct{ Body *geojson.FeatureCollection }{Body: fc}, nil
}

// AddFeature stores a drawn feature. With cut set, and intersection mode
// on, its outline is cut out of the other features of the layer.
func (h *APIHandler) AddFeature(ctx context.Context, input *AddFeatureInput) (*struct{ Body AddFeatureBody }, error) {
	gf, err := geojson.UnmarshalFeature(input.Body.Feature)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("invalid GeoJSON feature: " + err.Error())
	}
	f, err := feature.FromGeoJSON(gf)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	if err := h.svc.Layer.AddFeature(ctx, input.ID, f); err != nil {
		return nil, serviceError(err)
	}

	out := &struct{ Body AddFeatureBody }{}
	if out.Body.Feature, err = feature.ToGeoJSON(f); err != nil {
		return nil, serviceError(err)
	}
	if input.Body.Cut && h.intersectionEnabled() {
		res, err := h.svc.Layer.Cut(ctx, input.ID, f.Geometry(), f.ID())
		if err != nil {
			return nil, serviceError(err)
		}
		out.Body.Cut = cutBody(res)
	}
	return out, nil
}

func (h *APIHandler) DeleteFeature(ctx context.Context, input *FeatureIDInput) (*struct{ Body MessageBody }, error) {
	if err := h.svc.Layer.RemoveFeature(ctx, input.ID, input.FeatureID); err != nil {
		return nil, serviceError(err)
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Feature deleted"}}, nil
}

// CutLayer cuts the drawn geometry out of the layer's eligible features
// regardless of the intersection setting.
func (h *APIHandler) CutLayer(ctx context.Context, input *CutInput) (*struct{ Body CutBody }, error) {
	g, err := geojson.UnmarshalGeometry(input.Body.Geometry)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("invalid GeoJSON geometry: " + err.Error())
	}
	res, err := h.svc.Layer.Cut(ctx, input.ID, g.Geometry(), input.Body.Exclude...)
	if err != nil {
		return nil, serviceError(err)
	}
	return &struct{ Body CutBody }{Body: *cutBody(res)}, nil
}

func (h *APIHandler) intersectionEnabled() bool {
	if h.svc.Settings == nil {
		return true
	}
	return h.svc.Settings.Get().Intersection.Enabled
}
