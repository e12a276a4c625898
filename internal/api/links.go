package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-toolbar/internal/humastar"
)

// links maps operation paths to their RFC 8288 Link header values.
// Enables restish hypermedia navigation via `restish links <url>`.
var links = map[string][]string{
	"/health": {
		`</api/v1/info>; rel="info"`,
		`</api/v1/layers>; rel="layers"`,
		`</api/v1/settings>; rel="settings"`,
	},
	"/api/v1/info": {
		`</health>; rel="health"`,
		`</api/v1/layers>; rel="layers"`,
		`</api/v1/styles/cache>; rel="styles"`,
	},
	"/api/v1/layers": {
		`</api/v1/settings>; rel="settings"`,
		`</api/v1/styles/cache>; rel="styles"`,
	},
	"/api/v1/layers/{id}": {
		`</api/v1/layers>; rel="collection"`,
	},
	"/api/v1/layers/{id}/features": {
		`</api/v1/layers>; rel="layers"`,
	},
	"/api/v1/settings": {
		`</api/v1/layers>; rel="layers"`,
		`</api/v1/styles/cache>; rel="styles"`,
	},
	"/api/v1/styles/cache": {
		`</api/v1/styles/resolve>; rel="resolve"`,
		`</api/v1/glyphs/icons>; rel="icons"`,
	},
}

// LinkTransformer returns a Huma Transformer that injects the API's Link
// headers.
func LinkTransformer() huma.Transformer {
	return humastar.LinkTransformer(links)
}
