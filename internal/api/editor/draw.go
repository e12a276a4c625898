package editor

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-toolbar/internal/config"
	"github.com/joeblew999/plat-toolbar/internal/feature"
	"github.com/joeblew999/plat-toolbar/internal/humastar"
	"github.com/joeblew999/plat-toolbar/internal/logging"
	"github.com/joeblew999/plat-toolbar/internal/service"
	"github.com/joeblew999/plat-toolbar/internal/templates"
)

// DrawHandler stores shapes finished in the UI and applies intersection
// mode to them.
type DrawHandler struct {
	layers   *service.LayerService
	settings *config.Store
	renderer *templates.Renderer
}

func NewDrawHandler(layers *service.LayerService, settings *config.Store, renderer *templates.Renderer) *DrawHandler {
	return &DrawHandler{layers: layers, settings: settings, renderer: renderer}
}

func (h *DrawHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/api/v1/editor/draw", h.Draw, huma.OperationTags("editor"))
	huma.Post(api, "/api/v1/editor/intersection", h.ToggleIntersection, huma.OperationTags("editor"))
}

// Draw reads the "layer" and "feature" signals. The feature signal is a
// GeoJSON feature object or its JSON text.
func (h *DrawHandler) Draw(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	layerID := signals.String("layer")
	if layerID == "" {
		return nil, huma.Error400BadRequest("Layer is required")
	}
	raw := signals.Raw("feature")
	if raw == nil {
		return nil, huma.Error400BadRequest("Feature is required")
	}
	gf, err := geojson.UnmarshalFeature(raw)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid GeoJSON feature: " + err.Error())
	}
	f, err := feature.FromGeoJSON(gf)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	return humastar.Stream(func(sse humastar.SSE) {
		ctx := sse.Context()
		if err := h.layers.AddFeature(ctx, layerID, f); err != nil {
			sse.Error(err.Error())
			return
		}
		sse.Signals(map[string]any{"featureId": f.ID()})

		if !h.settings.Get().Intersection.Enabled {
			sse.Success("Feature added")
			return
		}
		res, err := h.layers.Cut(ctx, layerID, f.Geometry(), f.ID())
		if err != nil {
			logging.FromContext(ctx).Warn("intersection cut", "layer", layerID, "err", err)
			sse.Error("Feature added, cut failed: " + err.Error())
			return
		}
		if html, err := h.renderer.Render("cut-result", res); err == nil {
			sse.Patch(html, "#cut-result")
		}
		switch {
		case res.Partial():
			sse.Error(fmt.Sprintf("Cut %d features, %d failed", len(res.Edited), len(res.Failed)))
		case res.Empty():
			sse.Notice("Feature added, nothing to cut")
		default:
			sse.Success(fmt.Sprintf("Feature added, cut %d features", len(res.Edited)))
		}
	}), nil
}

// ToggleIntersection sets intersection mode from the "intersection" signal.
func (h *DrawHandler) ToggleIntersection(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	if !signals.Has("intersection") {
		return nil, huma.Error400BadRequest("intersection signal is required")
	}
	next := h.settings.Get()
	next.Intersection.Enabled = signals.Bool("intersection")

	return humastar.Stream(func(sse humastar.SSE) {
		if err := h.settings.Update(next); err != nil {
			sse.Error(err.Error())
			return
		}
		sse.Signals(map[string]any{"intersection": next.Intersection.Enabled})
	}), nil
}
