package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-toolbar/internal/glyph"
	"github.com/joeblew999/plat-toolbar/internal/humastar"
)

type InfoHandler struct {
	dataDir string
	dbOK    bool
}

func NewInfoHandler(dataDir string, dbOK bool) *InfoHandler {
	return &InfoHandler{dataDir: dataDir, dbOK: dbOK}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	DataDir  string   `json:"data_dir" doc:"Data directory path"`
	DB       bool     `json:"db" doc:"Whether persistent layers are available"`
	Icons    int      `json:"icons" doc:"Number of marker icons"`
	Features []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *humastar.EmptyInput) (*struct{ Body InfoBody }, error) {
	features := []string{"styles", "glyphs", "intersection", "preview"}
	if h.dbOK {
		features = append(features, "duckdb")
	}
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "plat-toolbar",
		Version:  Version,
		DataDir:  h.dataDir,
		DB:       h.dbOK,
		Icons:    len(glyph.Icons()),
		Features: features,
	}}, nil
}
