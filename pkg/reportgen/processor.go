package reportgen

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/ukaji3/reportgen-go/pkg/reportgen/datasource"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/output"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/parser"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/pivot"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/render"
	"go.uber.org/zap"
)

// Processor replaces template tokens with rendered components. Tokens are
// resolved one at a time, in order; a failing token becomes an inline
// error notice and the rest of the template still renders.
type Processor struct {
	source  datasource.Source
	builder *render.Builder
	html    output.HTML
	logger  *zap.Logger
}

// NewProcessor creates a processor reading data from source.
func NewProcessor(source datasource.Source, opts Options) *Processor {
	return &Processor{
		source:  source,
		builder: opts.builder(),
		html:    opts.HTML,
		logger:  opts.logger(),
	}
}

// Report is a processed template with its filter components held apart.
type Report struct {
	// Body is the template with every non-filter token rendered and every
	// filter token removed.
	Body string
	// Filters holds the rendered filter components in template order.
	Filters []string
	// Sources lists the asynchronous option sources the filters declared.
	Sources []models.FilterSource
}

// Resolved is the outcome of resolving one token.
type Resolved struct {
	Instructions parser.Instructions
	// Data is the query result, or nil when the token ran no query.
	Data   *models.Table
	Visual models.Visual
}

// Process renders every token in tmpl in place.
func (p *Processor) Process(ctx context.Context, tmpl string, params Params) string {
	return parser.ReplaceTokens(tmpl, func(tok parser.Token) string {
		fragment, _ := p.renderToken(ctx, tok.Content, params)
		return fragment
	})
}

// Compose renders tmpl like Process but collects filter components into
// the report's Filters instead of leaving them in the body.
func (p *Processor) Compose(ctx context.Context, tmpl string, params Params) *Report {
	r := &Report{}
	r.Body = parser.ReplaceTokens(tmpl, func(tok parser.Token) string {
		fragment, v := p.renderToken(ctx, tok.Content, params)
		f, ok := v.(*models.FilterSpec)
		if !ok {
			return fragment
		}
		if f.Source != nil {
			r.Sources = append(r.Sources, *f.Source)
		}
		r.Filters = append(r.Filters, fragment)
		return ""
	})
	return r
}

// WrapWithFilterPanel places the report's filters in a panel form that
// submits to action. A report without filters is returned as its body.
func WrapWithFilterPanel(action string, r *Report) string {
	return output.FilterPanel(action, r.Filters, r.Body)
}

// RenderToken renders a single token, given with or without its {{ }}
// delimiters. It serves partial refreshes of one component.
func (p *Processor) RenderToken(ctx context.Context, token string, params Params) string {
	fragment, _ := p.renderToken(ctx, parser.TrimToken(token), params)
	return fragment
}

// Resolve parses a token and produces its visual spec.
func (p *Processor) Resolve(ctx context.Context, content string, params Params) (*Resolved, error) {
	token := strings.TrimSpace(content)
	ins := parser.Parse(token)
	res := &Resolved{Instructions: ins}

	if models.ParseRepresentation(ins["representation"]) == models.RepresentationFilter {
		param := ins.String("param", ins.String("id", ""))
		if v := params.Get(param); param != "" && v != "" {
			ins.Set("value", v)
		}
		if ins.Has("query") {
			data, err := p.execute(ctx, ins.String("query", ""), params)
			if err != nil {
				return nil, NewTokenError(token, StageQuery, err)
			}
			res.Data = data
		}
		res.Visual = p.builder.Filter(ins, res.Data)
		return res, nil
	}

	query := ins.String("query", ins.String("dataSource", ""))
	if query == "" {
		return nil, NewTokenError(token, StageQuery, ErrNoQuery)
	}
	data, err := p.execute(ctx, query, params)
	if err != nil {
		return nil, NewTokenError(token, StageQuery, err)
	}
	res.Data = data
	v, err := p.builder.Render(data, ins)
	if err != nil {
		return nil, NewTokenError(token, StageRender, err)
	}
	res.Visual = v
	return res, nil
}

func (p *Processor) execute(ctx context.Context, query string, params Params) (*models.Table, error) {
	if p.source == nil {
		return nil, errors.New("no data source configured")
	}
	return p.source.Execute(ctx, query, params.Bind(parser.QueryParams(query)))
}

// renderToken resolves and renders one token body. It never fails: errors
// and panics turn into notices.
func (p *Processor) renderToken(ctx context.Context, content string, params Params) (fragment string, v models.Visual) {
	token := strings.TrimSpace(content)
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Component panicked",
				zap.String("token", token),
				zap.Any("panic", r),
				zap.Stack("stack"))
			v = p.notice(fmt.Errorf("panic: %v", r))
			fragment = p.wrap(token, v)
		}
	}()

	res, err := p.Resolve(ctx, token, params)
	switch {
	case errors.Is(err, ErrNoQuery):
		v = &models.Notice{
			ID:      p.builder.NewID("notice"),
			Level:   models.NoticeWarning,
			Title:   "Nothing to render",
			Message: "Component needs a query, a dataSource or representation=filter.",
		}
	case err != nil:
		p.logger.Error("Failed to render component",
			zap.String("token", token),
			zap.Error(err),
			zap.Stack("stack"))
		v = p.notice(err)
	default:
		v = res.Visual
	}
	return p.wrap(token, v), v
}

func (p *Processor) notice(err error) *models.Notice {
	n := &models.Notice{
		ID:      p.builder.NewID("notice"),
		Level:   models.NoticeError,
		Title:   "Error processing component",
		Message: err.Error(),
	}
	var te *TokenError
	if errors.As(err, &te) {
		n.Message = te.Err.Error()
	}
	if errors.Is(err, pivot.ErrInvalidArgument) {
		n.Title = "Pivot error"
	}
	return n
}

func (p *Processor) wrap(token string, v models.Visual) string {
	fragment, err := p.html.Render(v)
	if err != nil {
		p.logger.Error("Failed to write component",
			zap.String("token", token),
			zap.Error(NewTokenError(token, StageOutput, err)))
		fragment = `<div class="alert alert-danger" role="alert">` + html.EscapeString(err.Error()) + `</div>`
	}
	return output.Component(v.ElementID(), token, fragment)
}
