// Package service contains the business logic for the toolbar server: draw
// layers, their feature sources and the edit events they publish.
package service

// LayerConfig describes a draw layer.
// Huma reads the tags for OpenAPI and validation.
type LayerConfig struct {
	ID             string `json:"id,omitempty" doc:"Unique layer identifier" example:"drawings"`
	Name           string `json:"name" required:"true" minLength:"1" maxLength:"100" doc:"Display name" example:"Drawings"`
	Persistent     bool   `json:"persistent,omitempty" default:"false" doc:"Keep the layer's features in DuckDB"`
	DefaultVisible bool   `json:"defaultVisible,omitempty" default:"true" doc:"Whether the layer is visible by default"`
}

// LayerInfo is a layer with its feature count.
type LayerInfo struct {
	LayerConfig
	Features int `json:"features" doc:"Number of features in the layer"`
}
