// Package datasource provides the data-retrieval collaborators of the
// report pipeline: SQL databases through sqlx and xlsx workbooks through
// excelize.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
)

// ErrSheetNotFound indicates a workbook query naming an unknown sheet or
// defined name.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrInvalidQuery indicates a query the data source cannot interpret.
var ErrInvalidQuery = errors.New("invalid query")

// Source executes a query with named parameters. A nil parameter value is
// an explicit null binding.
type Source interface {
	Execute(ctx context.Context, query string, params map[string]interface{}) (*models.Table, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context, query string, params map[string]interface{}) (*models.Table, error)

// Execute calls f.
func (f Func) Execute(ctx context.Context, query string, params map[string]interface{}) (*models.Table, error) {
	return f(ctx, query, params)
}

// Router dispatches queries of the form "prefix:rest" to the source
// registered for prefix, and everything else to Default.
type Router struct {
	Default  Source
	prefixed map[string]Source
}

// NewRouter returns a Router with the given default source (may be nil).
func NewRouter(def Source) *Router {
	return &Router{Default: def, prefixed: make(map[string]Source)}
}

// Handle registers src for queries starting with prefix followed by ':'.
// Prefixes are case-insensitive.
func (r *Router) Handle(prefix string, src Source) {
	r.prefixed[strings.ToLower(prefix)] = src
}

// Execute implements Source.
func (r *Router) Execute(ctx context.Context, query string, params map[string]interface{}) (*models.Table, error) {
	trimmed := strings.TrimSpace(query)
	if i := strings.IndexByte(trimmed, ':'); i > 0 {
		if src, ok := r.prefixed[strings.ToLower(trimmed[:i])]; ok {
			return src.Execute(ctx, strings.TrimSpace(trimmed[i+1:]), params)
		}
	}
	if r.Default == nil {
		return nil, fmt.Errorf("%w: no data source for %q", ErrInvalidQuery, trimmed)
	}
	return r.Default.Execute(ctx, query, params)
}

// lookup finds a parameter by case-insensitive name.
func lookup(params map[string]interface{}, name string) (interface{}, bool) {
	if v, ok := params[name]; ok {
		return v, true
	}
	for k, v := range params {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// Ping checks the default source when it supports pinging.
func (r *Router) Ping(ctx context.Context) error {
	if p, ok := r.Default.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
