// Package render turns review lists into HTML fragments. Templates are plain
// token-substitution strings ({{token}}), resolved per call from an explicit
// variable map; there is no shared mutable template scope, so concurrent
// renders are safe.
package render

import (
	"io"

	"github.com/valyala/fasttemplate"
)

const (
	tokenStart = "{{"
	tokenEnd   = "}}"
)

// Registry resolves a template by theme and name, falling back to the
// default theme and finally to a hardcoded inline template.
type Registry struct {
	themes map[string]map[string]string
}

func NewRegistry() *Registry {
	return &Registry{themes: builtinThemes()}
}

// Register installs or overrides a single template.
func (reg *Registry) Register(theme, name, tpl string) {
	if reg.themes[theme] == nil {
		reg.themes[theme] = map[string]string{}
	}
	reg.themes[theme][name] = tpl
}

// Lookup walks the fallback chain: requested theme, default theme, inline
// fallback.
func (reg *Registry) Lookup(theme, name string) string {
	if t, ok := reg.themes[theme]; ok {
		if tpl, ok := t[name]; ok {
			return tpl
		}
	}
	if tpl, ok := reg.themes["default"][name]; ok {
		return tpl
	}
	return inlineFallback
}

// Execute substitutes vars into the template. Unknown tokens render empty.
func Execute(tpl string, vars map[string]string) string {
	t := fasttemplate.New(tpl, tokenStart, tokenEnd)
	return t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if v, ok := vars[tag]; ok {
			return w.Write([]byte(v))
		}
		return 0, nil
	})
}

const inlineFallback = `<div class="gmr-review">` +
	`<span class="gmr-author">{{author_name}}</span>` +
	`<span class="gmr-stars">{{rating_stars}}</span>` +
	`<div class="gmr-content">{{content}}</div>` +
	`</div>`
