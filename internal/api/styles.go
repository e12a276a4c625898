package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-toolbar/internal/glyph"
	"github.com/joeblew999/plat-toolbar/internal/humastar"
	"github.com/joeblew999/plat-toolbar/internal/preview"
	"github.com/joeblew999/plat-toolbar/internal/service"
	"github.com/joeblew999/plat-toolbar/internal/style"
)

type ResolveRequest struct {
	Properties style.Properties `json:"properties" doc:"Style attributes of the feature"`
	Resolution float64          `json:"resolution,omitempty" minimum:"0" doc:"View resolution in map units per pixel" example:"10"`
}

type ResolveInput struct {
	Body ResolveRequest
}

// LayerDTO is one resolved style layer. Only the fields of its kind are set.
type LayerDTO struct {
	Kind        style.Kind `json:"kind" enum:"icon,circle,label" doc:"Layer primitive"`
	Key         string     `json:"key,omitempty" doc:"Glyph key, icon layers"`
	Rotation    float64    `json:"rotation,omitempty" doc:"Rotation in degrees, icon layers"`
	Width       float64    `json:"width,omitempty"`
	Height      float64    `json:"height,omitempty"`
	Radius      float64    `json:"radius,omitempty" doc:"Circle radius, circle layers"`
	Text        string     `json:"text,omitempty" doc:"Rendered text, label layers"`
	OffsetY     float64    `json:"offsetY,omitempty" doc:"Vertical label offset in pixels"`
	Font        string     `json:"font,omitempty"`
	Fill        string     `json:"fill,omitempty"`
	Stroke      string     `json:"stroke,omitempty"`
	StrokeWidth float64    `json:"strokeWidth,omitempty"`
	Glyph       string     `json:"glyph,omitempty" doc:"SVG document, icon layers"`
}

type StyleBody struct {
	Layers []LayerDTO `json:"layers" doc:"Layers in draw order"`
}

// styleBody converts a resolved style. A nil style, for types the cache
// does not style, has no layers.
func styleBody(s *style.Style) StyleBody {
	body := StyleBody{Layers: []LayerDTO{}}
	if s == nil {
		return body
	}
	for _, l := range s.Layers {
		dto := LayerDTO{Kind: l.Kind()}
		switch l := l.(type) {
		case *style.IconLayer:
			dto.Key, dto.Rotation, dto.Width, dto.Height = l.Key, l.Rotation, l.Width, l.Height
			dto.Fill, dto.Stroke, dto.StrokeWidth, dto.Glyph = l.Fill, l.Stroke, l.StrokeWidth, l.Glyph
		case *style.CircleLayer:
			dto.Radius, dto.StrokeWidth, dto.Fill, dto.Stroke = l.Radius, l.StrokeWidth, l.Fill, l.Stroke
		case *style.LabelLayer:
			dto.Text, dto.OffsetY, dto.Font = l.Text, l.OffsetY, l.Font
			dto.Fill, dto.Stroke, dto.StrokeWidth = l.Fill, l.Stroke, l.StrokeWidth
		}
		body.Layers = append(body.Layers, dto)
	}
	return body
}

type CacheBody struct {
	style.Stats
	LabelsEnabled          bool    `json:"labelsEnabled" doc:"Whether labels are drawn"`
	VisibleUnderResolution float64 `json:"visibleUnderResolution" doc:"Label resolution threshold"`
}

type PreviewInput struct {
	Size int `query:"size" default:"64" minimum:"8" maximum:"512" doc:"Edge length in pixels"`
	Body ResolveRequest
}

type PreviewOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type WindBarbInput struct {
	Speed float64 `query:"speed" minimum:"0" doc:"Wind speed in m/s" example:"7.5"`
}

type GlyphBody struct {
	Key string `json:"key" doc:"Glyph key" example:"knot15"`
	SVG string `json:"svg" doc:"SVG document"`
}

type IconsBody struct {
	Icons []string `json:"icons" doc:"Icon keys markers may use"`
}

// RegisterStyles registers style resolution, cache and glyph routes.
func (h *APIHandler) RegisterStyles(api huma.API) {
	tags := huma.OperationTags("styles")
	huma.Post(api, "/api/v1/styles/resolve", h.ResolveStyle, tags)
	huma.Post(api, "/api/v1/styles/preview", h.PreviewStyle, tags)
	huma.Get(api, "/api/v1/styles/cache", h.GetStyleCache, tags)
	huma.Delete(api, "/api/v1/styles/cache", h.ClearStyleCache, tags)

	gtags := huma.OperationTags("glyphs")
	huma.Get(api, "/api/v1/glyphs/icons", h.ListIcons, gtags)
	huma.Get(api, "/api/v1/glyphs/windbarb", h.GetWindBarb, gtags)
}

func (h *APIHandler) ResolveStyle(ctx context.Context, input *ResolveInput) (*struct{ Body StyleBody }, error) {
	s := h.svc.Styles.Resolve(input.Body.Properties, input.Body.Resolution)
	return &struct{ Body StyleBody }{Body: styleBody(s)}, nil
}

func (h *APIHandler) PreviewStyle(ctx context.Context, input *PreviewInput) (*PreviewOutput, error) {
	s := h.svc.Styles.Resolve(input.Body.Properties, input.Body.Resolution)
	png, err := preview.Render(s, input.Size)
	if errors.Is(err, preview.ErrSize) {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	if err != nil {
		return nil, serviceError(err)
	}
	return &PreviewOutput{ContentType: "image/png", Body: png}, nil
}

func (h *APIHandler) GetStyleCache(ctx context.Context, input *humastar.EmptyInput) (*struct{ Body CacheBody }, error) {
	gate := h.svc.Styles.Gate()
	return &struct{ Body CacheBody }{Body: CacheBody{
		Stats:                  h.svc.Styles.Stats(),
		LabelsEnabled:          gate.LabelsEnabled,
		VisibleUnderResolution: gate.VisibleUnderResolution,
	}}, nil
}

func (h *APIHandler) ClearStyleCache(ctx context.Context, input *humastar.EmptyInput) (*struct{ Body MessageBody }, error) {
	h.svc.Styles.Clear()
	h.publish(service.Event{Resource: service.ResourceStyles, Action: service.ActionCleared})
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Style cache cleared"}}, nil
}

func (h *APIHandler) ListIcons(ctx context.Context, input *humastar.EmptyInput) (*struct{ Body IconsBody }, error) {
	return &struct{ Body IconsBody }{Body: IconsBody{Icons: glyph.Icons()}}, nil
}

func (h *APIHandler) GetWindBarb(ctx context.Context, input *WindBarbInput) (*struct{ Body GlyphBody }, error) {
	key := glyph.WindBarbKey(input.Speed)
	svg, err := glyph.Synthesize(key, glyph.Appearance{Stroke: "#000000", StrokeWidth: 1})
	if err != nil {
		return nil, serviceError(err)
	}
	return &struct{ Body GlyphBody }{Body: GlyphBody{Key: key, SVG: svg}}, nil
}
