// Package templates handles HTML fragment rendering for Datastar SSE responses.
package templates

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed fragments/*.html
var fragments embed.FS

// funcMap provides common template functions.
var funcMap = template.FuncMap{
	// dict creates a map from key-value pairs, useful for passing multiple values to nested templates
	"dict": func(values ...any) map[string]any {
		if len(values)%2 != 0 {
			return nil
		}
		m := make(map[string]any, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				continue
			}
			m[key] = values[i+1]
		}
		return m
	},
}

// Renderer renders the embedded HTML fragments.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded fragments.
func New() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(fragments, "fragments/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl}, nil
}

// Render renders a named template to a string.
func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
