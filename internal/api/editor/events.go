// Package editor serves the Datastar endpoints behind the toolbar UI.
package editor

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-toolbar/internal/humastar"
	"github.com/joeblew999/plat-toolbar/internal/logging"
	"github.com/joeblew999/plat-toolbar/internal/service"
	"github.com/joeblew999/plat-toolbar/internal/templates"
)

// EventHandler streams resource change events to the Datastar UI via SSE.
type EventHandler struct {
	bus      *service.EventBus
	layers   *service.LayerService
	renderer *templates.Renderer
}

// NewEventHandler creates a new event handler.
func NewEventHandler(bus *service.EventBus, layers *service.LayerService, renderer *templates.Renderer) *EventHandler {
	return &EventHandler{bus: bus, layers: layers, renderer: renderer}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/editor/events", h.Events,
		huma.OperationTags("editor"),
	)
}

// Events patches an "event" signal for every published change until the
// client goes away. Layer and feature changes also re-render #layer-list.
func (h *EventHandler) Events(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return humastar.Stream(func(sse humastar.SSE) {
		ch := h.bus.Subscribe()
		defer h.bus.Unsubscribe(ch)

		done := sse.Context().Done()
		for {
			select {
			case <-done:
				return
			case ev := <-ch:
				switch ev.Resource {
				case service.ResourceLayers, service.ResourceFeatures:
					h.patchLayerList(sse)
				}
				sse.Signals(map[string]any{"event": ev})
			}
		}
	}), nil
}

func (h *EventHandler) patchLayerList(sse humastar.SSE) {
	ctx := sse.Context()
	layers, err := h.layers.List(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("listing layers", "err", err)
		return
	}
	html, err := h.renderer.Render("layer-list", layers)
	if err != nil {
		logging.FromContext(ctx).Warn("rendering layer list", "err", err)
		return
	}
	sse.Patch(html, "#layer-list")
}
