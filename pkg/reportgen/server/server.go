// Package server exposes report rendering over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/kataras/iris/v12"
	"github.com/ukaji3/reportgen-go/pkg/reportgen"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/datasource"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/output"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/parser"
	"go.uber.org/zap"
)

// Route paths.
const (
	PathHealth     = "/health"
	PathReports    = "/reports"
	PathRefresh    = "/reports/refresh"
	PathFilterData = output.DefaultFilterDataURL
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Server renders report templates and serves component refreshes and
// asynchronous filter options.
//
// Refreshes and filter data only run tokens and option queries that a
// rendered report emitted; anything else is rejected.
type Server struct {
	source    datasource.Source
	templates *reportgen.Templates
	logger    *zap.Logger
	processor *reportgen.Processor

	mu      sync.RWMutex
	tokens  map[string]bool
	queries map[string]bool
}

func NewServer() *Server {
	return &Server{}
}

func (server *Server) WithLogger(logger *zap.Logger) *Server {
	server.logger = logger
	return server
}

func (server *Server) WithSource(source datasource.Source) *Server {
	server.source = source
	return server
}

func (server *Server) WithTemplates(templates reportgen.Templates) *Server {
	server.templates = &templates
	return server
}

func (server *Server) Init() (*Server, error) {
	if server.source == nil {
		return nil, errors.New("server initialized without data source")
	}
	if server.templates == nil {
		return nil, errors.New("server initialized without templates")
	}
	if server.logger == nil {
		return nil, errors.New("server initialized without logger")
	}
	server.processor = reportgen.NewProcessor(server.source, reportgen.Options{
		Logger: server.logger,
		HTML:   output.HTML{FilterDataURL: PathFilterData},
	})
	server.tokens = make(map[string]bool)
	server.queries = make(map[string]bool)
	server.logger.Info("Server initialized", zap.String("templates", server.templates.Dir))
	return server, nil
}

func (server *Server) MakeRouter() *iris.Application {
	router := iris.New()
	router.Use(server.recoveryMiddleware)
	router.OnErrorCode(iris.StatusNotFound, handleNotFound)
	router.Get(PathHealth, server.handleHealth)
	router.Get(PathReports, server.handleList)
	router.Get(PathFilterData, server.handleFilterData)
	router.Post(PathRefresh, server.handleRefresh)
	router.Get(PathReports+"/{name}", server.handleReport)

	if err := router.Build(); err != nil {
		server.logger.Error("Failed to build router", zap.Error(err))
	}
	return router
}

func (server *Server) recoveryMiddleware(ctx iris.Context) {
	defer func() {
		if r := recover(); r != nil {
			server.logger.Error("Panic recovered",
				zap.String("path", ctx.Path()),
				zap.Any("panic", r),
				zap.Stack("stack"))
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.WriteString("Internal Server Error")
		}
	}()
	ctx.Next()
}

func (server *Server) handleHealth(ctx iris.Context) {
	if p, ok := server.source.(pinger); ok {
		if err := p.Ping(ctx.Request().Context()); err != nil {
			response := newErrorResponse("database unavailable", http.StatusServiceUnavailable, err)
			response.log(server.logger)
			_ = response.write(ctx)
			return
		}
	}
	_ = writeJSON(ctx, http.StatusOK, "Healthy")
}

func (server *Server) handleList(ctx iris.Context) {
	infos, err := server.templates.List()
	if err != nil {
		response := newErrorResponse("listing templates failed", http.StatusInternalServerError, err)
		response.log(server.logger)
		_ = response.write(ctx)
		return
	}
	if infos == nil {
		infos = []reportgen.TemplateInfo{}
	}
	_ = writeJSON(ctx, http.StatusOK, map[string][]reportgen.TemplateInfo{"reports": infos})
}

func (server *Server) handleReport(ctx iris.Context) {
	name := ctx.Params().Get("name")
	tmpl, err := server.templates.Load(name)
	if errors.Is(err, reportgen.ErrTemplateNotFound) {
		response := newErrorResponse(fmt.Sprintf("template %q not found", name), http.StatusNotFound, err)
		response.log(server.logger)
		_ = response.write(ctx)
		return
	}
	if err != nil {
		response := newErrorResponse("loading template failed", http.StatusInternalServerError, err)
		response.log(server.logger)
		_ = response.write(ctx)
		return
	}

	tmpl = reportgen.StripComments(tmpl)
	report := server.processor.Compose(ctx.Request().Context(), tmpl, params(ctx))
	server.remember(tmpl, report.Sources)

	body := reportgen.WrapWithFilterPanel(PathReports+"/"+url.PathEscape(name), report)
	html, err := renderPage(name, body)
	if err != nil {
		response := newErrorResponse("rendering page failed", http.StatusInternalServerError, err)
		response.log(server.logger)
		_ = response.write(ctx)
		return
	}
	writeHTML(ctx, html)
}

func (server *Server) handleRefresh(ctx iris.Context) {
	token := strings.TrimSpace(parser.TrimToken(ctx.FormValue("token")))
	if token == "" {
		response := newErrorResponse("missing chart token", http.StatusBadRequest, nil)
		response.log(server.logger)
		_ = response.write(ctx)
		return
	}
	if !server.known(server.tokens, token) {
		response := newErrorResponse("unknown chart token", http.StatusForbidden, nil)
		response.log(server.logger)
		_ = response.write(ctx)
		return
	}
	fragment := server.processor.RenderToken(ctx.Request().Context(), token, params(ctx))
	writeHTML(ctx, fragment)
}

func (server *Server) handleFilterData(ctx iris.Context) {
	query := strings.TrimSpace(ctx.URLParam("query"))
	valueField := ctx.URLParam("valueField")
	textField := ctx.URLParam("textField")
	if textField == "" {
		textField = valueField
	}
	if query == "" || valueField == "" {
		response := newErrorResponse("query and valueField are required", http.StatusBadRequest, nil)
		response.log(server.logger)
		_ = response.write(ctx)
		return
	}
	if !server.known(server.queries, query) {
		response := newErrorResponse("unknown filter query", http.StatusForbidden, nil)
		response.log(server.logger)
		_ = response.write(ctx)
		return
	}

	bound := params(ctx).Bind(parser.QueryParams(query))
	data, err := server.source.Execute(ctx.Request().Context(), query, bound)
	if err != nil {
		response := newErrorResponse("filter query failed", http.StatusInternalServerError, err)
		response.log(server.logger)
		_ = response.write(ctx)
		return
	}
	options, err := filterOptions(data, valueField, textField)
	if err != nil {
		response := newErrorResponse(err.Error(), http.StatusBadRequest, err)
		response.log(server.logger)
		_ = response.write(ctx)
		return
	}
	_ = writeJSON(ctx, http.StatusOK, options)
}

// remember records the tokens of a rendered template and the option
// queries its dropdowns declared.
func (server *Server) remember(tmpl string, sources []models.FilterSource) {
	server.mu.Lock()
	defer server.mu.Unlock()
	for _, tok := range parser.ScanTokens(tmpl) {
		server.tokens[strings.TrimSpace(tok.Content)] = true
	}
	for _, src := range sources {
		server.queries[strings.TrimSpace(src.Query)] = true
	}
}

func (server *Server) known(set map[string]bool, key string) bool {
	server.mu.RLock()
	defer server.mu.RUnlock()
	return set[key]
}

func filterOptions(data *models.Table, valueField, textField string) ([]models.FilterOption, error) {
	valueCol := data.ColumnIndex(valueField)
	if valueCol < 0 {
		return nil, fmt.Errorf("column %q not found", valueField)
	}
	textCol := data.ColumnIndex(textField)
	if textCol < 0 {
		return nil, fmt.Errorf("column %q not found", textField)
	}
	options := make([]models.FilterOption, 0, data.Len())
	for r := range data.Rows {
		options = append(options, models.FilterOption{Value: data.Text(r, valueCol), Text: data.Text(r, textCol)})
	}
	return options, nil
}

func params(ctx iris.Context) reportgen.Params {
	return reportgen.ParamsFromValues(ctx.FormValues())
}

func handleNotFound(ctx iris.Context) {
	_ = newErrorResponse("not found", http.StatusNotFound, nil).write(ctx)
}
