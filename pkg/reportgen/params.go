package reportgen

import (
	"net/url"
	"strings"
)

// Params holds request parameter values. Names match case-insensitively.
type Params map[string]string

// ParamsFromValues takes the first value of each key.
func ParamsFromValues(values url.Values) Params {
	p := make(Params, len(values))
	for k, v := range values {
		if k != "" && len(v) > 0 {
			p[k] = v[0]
		}
	}
	return p
}

// Get returns the value for name, or "" when absent.
func (p Params) Get(name string) string {
	v, _ := p.Lookup(name)
	return v
}

// Lookup returns the value for name and whether it was present.
func (p Params) Lookup(name string) (string, bool) {
	if v, ok := p[name]; ok {
		return v, true
	}
	for k, v := range p {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Bind resolves each query parameter name. Missing or empty values bind
// nil so they never compare equal to an empty string.
func (p Params) Bind(names []string) map[string]interface{} {
	bound := make(map[string]interface{}, len(names))
	for _, name := range names {
		if v := p.Get(name); v != "" {
			bound[name] = v
		} else {
			bound[name] = nil
		}
	}
	return bound
}
