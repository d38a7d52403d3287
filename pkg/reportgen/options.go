// Package reportgen renders report templates whose {{ ... }} tokens
// describe tables, charts and filter controls.
package reportgen

import (
	"github.com/ukaji3/reportgen-go/pkg/reportgen/output"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/render"
	"go.uber.org/zap"
)

// Options configures a Processor.
type Options struct {
	// Logger receives per-component failures. If nil, logging is disabled.
	Logger *zap.Logger
	// Builder resolves visual specs. If nil, a builder with random element
	// ids is used.
	Builder *render.Builder
	// HTML renders visual specs to fragments.
	HTML output.HTML
}

// DefaultOptions returns default processor options.
func DefaultOptions() Options {
	return Options{
		Logger:  zap.NewNop(),
		Builder: render.NewBuilder(),
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) builder() *render.Builder {
	if o.Builder != nil {
		return o.Builder
	}
	return render.NewBuilder()
}
