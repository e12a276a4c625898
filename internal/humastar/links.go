package humastar

import (
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// Action is a state-dependent hypermedia link, rendered as
//
//	</api/v1/layers/draw/cut>; rel="cut"; method="POST"; title="Cut a hole"
type Action struct {
	Rel    string
	Href   string
	Method string
	Title  string
}

// LinkHeader formats the action as an RFC 8288 Link header value.
func (a Action) LinkHeader() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<%s>; rel="%s"`, a.Href, a.Rel)
	if a.Method != "" {
		fmt.Fprintf(&b, `; method="%s"`, a.Method)
	}
	if a.Title != "" {
		fmt.Fprintf(&b, `; title="%s"`, a.Title)
	}
	return b.String()
}

// Actor is implemented by response bodies that advertise actions.
type Actor interface {
	Actions() []Action
}

// ActionDef is an action whose Href is built from a resource ID. Pattern
// holds one %s verb.
type ActionDef struct {
	Rel, Pattern, Method, Title string
}

// ActionsFor expands defs for the resource id.
func ActionsFor(id string, defs []ActionDef) []Action {
	actions := make([]Action, len(defs))
	for i, d := range defs {
		actions[i] = Action{Rel: d.Rel, Href: fmt.Sprintf(d.Pattern, id), Method: d.Method, Title: d.Title}
	}
	return actions
}

// LinkTransformer returns a Huma Transformer that injects RFC 8288 Link
// headers: the static links registered for the operation path, a self link
// for item endpoints and the actions of an [Actor] body.
func LinkTransformer(links map[string][]string) huma.Transformer {
	return func(ctx huma.Context, status string, v any) (any, error) {
		op := ctx.Operation()
		if op == nil {
			return v, nil
		}

		for _, link := range links[op.Path] {
			ctx.AppendHeader("Link", link)
		}
		if strings.Contains(op.Path, "{") {
			ctx.AppendHeader("Link", fmt.Sprintf(`<%s>; rel="self"`, ctx.URL().Path))
		}
		if a, ok := v.(Actor); ok {
			for _, action := range a.Actions() {
				ctx.AppendHeader("Link", action.LinkHeader())
			}
		}
		return v, nil
	}
}
