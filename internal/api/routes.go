// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-toolbar/internal/config"
	"github.com/joeblew999/plat-toolbar/internal/feature"
	"github.com/joeblew999/plat-toolbar/internal/humastar"
	"github.com/joeblew999/plat-toolbar/internal/service"
	"github.com/joeblew999/plat-toolbar/internal/style"
	"github.com/joeblew999/plat-toolbar/internal/topology"
)

// Version is reported by the health and info endpoints.
const Version = "0.1.0"

// Services holds the service dependencies for API handlers.
type Services struct {
	Layer    *service.LayerService
	Settings *config.Store
	Styles   *style.Cache
	Bus      *service.EventBus
}

// RegisterRoutes registers every REST route. Methods named Register* on
// APIHandler are discovered by huma.AutoRegister.
func RegisterRoutes(api huma.API, svc *Services) {
	huma.AutoRegister(api, NewAPIHandler(svc))
}

// Types

type IDInput struct {
	ID string `path:"id" doc:"Layer ID" example:"drawings"`
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"0.1.0"`
}

// APIHandler holds all REST API handlers.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

func (h *APIHandler) GetHealth(ctx context.Context, input *humastar.EmptyInput) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: Version}}, nil
}

// publish sends an event on the configured bus, if any.
func (h *APIHandler) publish(e service.Event) {
	if h.svc.Bus != nil {
		h.svc.Bus.Publish(e)
	}
}

// serviceError maps domain errors to HTTP problems.
func serviceError(err error) error {
	switch {
	case errors.Is(err, service.ErrLayerNotFound), errors.Is(err, feature.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, service.ErrLayerExists), errors.Is(err, feature.ErrDuplicate):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, service.ErrNoDatabase):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, topology.ErrMalformedRing), errors.Is(err, config.ErrInvalid):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return huma.Error503ServiceUnavailable("request cancelled", err)
	}
	return huma.Error500InternalServerError("internal error", err)
}
