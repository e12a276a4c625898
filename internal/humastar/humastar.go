// Package humastar bridges Huma (REST/OpenAPI) with Datastar (SSE/hypermedia).
//
// It provides:
//   - SSE: Huma streaming to the Datastar SSE protocol via [SSE] and [NewSSE]
//   - Signals: typed Datastar signal parsing via [Signals] and [SignalsInput]
//   - Links: RFC 8288 Link headers via [LinkTransformer] and [Actor]
//
// Usage:
//
//	func (h *MyHandler) Draw(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
//	    signals, err := input.MustParse()
//	    if err != nil {
//	        return nil, err
//	    }
//	    return humastar.Stream(func(sse humastar.SSE) {
//	        sse.Success("drawn " + signals.String("layer"))
//	    }), nil
//	}
package humastar

import (
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/starfederation/datastar-go/datastar"
)

// Stream returns a Huma StreamResponse that calls fn with a ready SSE helper.
func Stream(fn func(sse SSE)) *huma.StreamResponse {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			fn(NewSSE(humaCtx))
		},
	}
}

// SSE wraps a Datastar SSE generator with the signal patterns the toolbar
// UI listens for.
type SSE struct {
	*datastar.ServerSentEventGenerator
}

// NewSSE creates a Datastar SSE helper from a Huma streaming context.
func NewSSE(ctx huma.Context) SSE {
	r, w := humago.Unwrap(ctx)
	return SSE{datastar.NewSSE(w, r)}
}

// Patch sends HTML to replace inner content at a CSS selector.
func (s SSE) Patch(html, selector string) {
	s.PatchElements(html,
		datastar.WithSelector(selector),
		datastar.WithModeInner(),
	)
}

// Error sends an error signal to the UI.
func (s SSE) Error(msg string) {
	s.MarshalAndPatchSignals(map[string]any{"error": msg})
}

// Success sends a success signal to the UI.
func (s SSE) Success(msg string) {
	s.MarshalAndPatchSignals(map[string]any{"success": msg})
}

// Notice sends an informational signal, for outcomes that are neither
// success nor failure.
func (s SSE) Notice(msg string) {
	s.MarshalAndPatchSignals(map[string]any{"notice": msg})
}

// Signals sends arbitrary signals to the UI.
func (s SSE) Signals(signals map[string]any) {
	s.MarshalAndPatchSignals(signals)
}

// Signals provides typed access to Datastar signal values.
// Datastar sends all signals as a flat JSON object in the request body.
type Signals map[string]any

// ParseSignals parses Datastar signals from a raw request body.
func ParseSignals(body []byte) (Signals, error) {
	var signals Signals
	if err := json.Unmarshal(body, &signals); err != nil {
		return nil, err
	}
	return signals, nil
}

// String returns a string signal value, or empty string if not found.
func (s Signals) String(key string) string {
	if v, ok := s[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// Bool returns a bool signal value, or false if not found.
func (s Signals) Bool(key string) bool {
	if v, ok := s[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Raw re-encodes a nested signal value, such as a GeoJSON object, so it can
// be decoded into a typed value. It returns nil if the key is missing.
func (s Signals) Raw(key string) json.RawMessage {
	v, ok := s[key]
	if !ok || v == nil {
		return nil
	}
	if str, ok := v.(string); ok {
		return json.RawMessage(str)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// Has returns true if the signal key exists (even if zero-valued).
func (s Signals) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// EmptyInput is a shared input struct for handlers with no parameters.
type EmptyInput struct{}

// SignalsInput is an input struct for handlers that receive Datastar signals.
type SignalsInput struct {
	RawBody []byte
}

// MustParse parses signals or returns a Huma 400 error.
func (i *SignalsInput) MustParse() (Signals, error) {
	signals, err := ParseSignals(i.RawBody)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid request data: " + err.Error())
	}
	return signals, nil
}
