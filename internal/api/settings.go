package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-toolbar/internal/config"
	"github.com/joeblew999/plat-toolbar/internal/humastar"
)

// RegisterSettings registers the global settings routes.
func (h *APIHandler) RegisterSettings(api huma.API) {
	tags := huma.OperationTags("settings")
	huma.Get(api, "/api/v1/settings", h.GetSettings, tags)
	huma.Put(api, "/api/v1/settings", h.UpdateSettings, tags)
}

func (h *APIHandler) GetSettings(ctx context.Context, input *humastar.EmptyInput) (*struct{ Body config.Settings }, error) {
	return &struct{ Body config.Settings }{Body: h.svc.Settings.Get()}, nil
}

// UpdateSettings replaces the settings. Subscribers re-gate or clear the
// style cache.
func (h *APIHandler) UpdateSettings(ctx context.Context, input *struct{ Body config.Settings }) (*struct{ Body config.Settings }, error) {
	if err := h.svc.Settings.Update(input.Body); err != nil {
		return nil, serviceError(err)
	}
	return &struct{ Body config.Settings }{Body: h.svc.Settings.Get()}, nil
}
