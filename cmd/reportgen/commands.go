package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/reportgen-go/pkg/reportgen"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/datasource"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/output"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/parser"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/pivot"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/render"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/server"
	"go.uber.org/zap"
)

func renderCmd() *cobra.Command {
	var action string
	cmd := &cobra.Command{
		Use:   "render [template]",
		Short: "Render a template file to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read template: %w", err)
			}
			params, err := requestParams()
			if err != nil {
				return err
			}
			src, cleanup, err := openSource()
			if err != nil {
				return err
			}
			defer cleanup()

			p := reportgen.NewProcessor(src, reportgen.Options{Logger: logger})
			content := reportgen.StripComments(string(tmpl))
			var html string
			if action != "" {
				html = reportgen.WrapWithFilterPanel(action, p.Compose(cmd.Context(), content, params))
			} else {
				html = p.Process(cmd.Context(), content, params)
			}
			return writeOutput([]byte(html))
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringArrayVarP(&paramPairs, "param", "p", nil, "Request parameter name=value (repeatable)")
	cmd.Flags().StringVar(&action, "form-action", "", "Collect filters into a panel form submitting to this URL")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, cleanup, err := openSource()
			if err != nil {
				return err
			}
			defer cleanup()

			srv, err := server.NewServer().
				WithLogger(logger).
				WithSource(src).
				WithTemplates(reportgen.Templates{Dir: cfg.Templates.Dir, Extension: cfg.Templates.Extension}).
				Init()
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}

			httpServer := &http.Server{
				Addr:         cfg.Server.Addr,
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
				WriteTimeout: cfg.Server.WriteTimeout.Duration,
				ErrorLog:     zap.NewStdLog(logger),
				Handler:      srv.MakeRouter(),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errc := make(chan error, 1)
			go func() {
				logger.Info("Serving reports", zap.String("addr", httpServer.Addr))
				errc <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
				logger.Info("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout.Duration)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			}
		},
	}
	return cmd
}

func pivotCmd() *cobra.Command {
	var (
		rowField, colField, valueField, agg string
		rowTotals, colTotals                bool
	)
	cmd := &cobra.Command{
		Use:   "pivot [query]",
		Short: "Run a query and print its pivot table as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := requestParams()
			if err != nil {
				return err
			}
			src, cleanup, err := openSource()
			if err != nil {
				return err
			}
			defer cleanup()

			query := args[0]
			data, err := src.Execute(cmd.Context(), query, params.Bind(parser.QueryParams(query)))
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}
			table, err := pivot.Pivot(data, rowField, colField, valueField, pivot.ParseAggregator(agg), &pivot.Config{
				RowTotals:  rowTotals,
				ColTotals:  colTotals,
				GrandTotal: rowTotals && colTotals,
			})
			if err != nil {
				return err
			}

			jsonData, err := output.ToJSON(table, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			return writeOutput(append(jsonData, '\n'))
		},
	}
	cmd.Flags().StringVar(&rowField, "row", "", "Row field")
	cmd.Flags().StringVar(&colField, "col", "", "Column field")
	cmd.Flags().StringVar(&valueField, "value", "", "Value field")
	cmd.Flags().StringVar(&agg, "agg", "sum", "Aggregator: sum, count, avg, min, max")
	cmd.Flags().BoolVar(&rowTotals, "row-totals", false, "Add a Total column")
	cmd.Flags().BoolVar(&colTotals, "col-totals", false, "Add a Total row")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringArrayVarP(&paramPairs, "param", "p", nil, "Query parameter name=value (repeatable)")
	_ = cmd.MarkFlagRequired("row")
	_ = cmd.MarkFlagRequired("col")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [template]",
		Short: "Export the tables and charts of a template to an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				return errors.New("--output is required for xlsx export")
			}
			tmpl, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read template: %w", err)
			}
			params, err := requestParams()
			if err != nil {
				return err
			}
			src, cleanup, err := openSource()
			if err != nil {
				return err
			}
			defer cleanup()

			p := reportgen.NewProcessor(src, reportgen.Options{Logger: logger})
			var sheets []output.Sheet
			for i, tok := range parser.ScanTokens(reportgen.StripComments(string(tmpl))) {
				res, err := p.Resolve(cmd.Context(), tok.Content, params)
				if err != nil {
					logger.Warn("Skipping component", zap.Int("index", i), zap.Error(err))
					continue
				}
				sheets = append(sheets, exportSheets(res, len(sheets))...)
			}
			if len(sheets) == 0 {
				return errors.New("template has no exportable components")
			}

			var buf bytes.Buffer
			if err := output.WriteXLSX(&buf, sheets...); err != nil {
				return fmt.Errorf("xlsx export failed: %w", err)
			}
			return writeOutput(buf.Bytes())
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output xlsx path")
	cmd.Flags().StringArrayVarP(&paramPairs, "param", "p", nil, "Request parameter name=value (repeatable)")
	return cmd
}

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets [workbook]",
		Short: "List the sheets of an xlsx workbook as JSON",
		Long: `List the sheets queries can name with the "xlsx:" prefix. Without an
argument the configured workbook is read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.Workbook.Path
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no workbook given and none configured")
			}
			sheets, err := datasource.NewWorkbook(path).Sheets()
			if err != nil {
				return err
			}
			jsonData, err := output.ToJSON(sheets, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			return writeOutput(append(jsonData, '\n'))
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}

// exportSheets maps a resolved component to workbook sheets. Filters and
// notices have no tabular content and are skipped.
func exportSheets(res *reportgen.Resolved, offset int) []output.Sheet {
	switch v := res.Visual.(type) {
	case *models.ChartSpec:
		return []output.Sheet{{Name: sheetName(v.Title, offset), Chart: v}}
	case *models.ChartGroupSpec:
		var sheets []output.Sheet
		for i, g := range v.Groups {
			sheets = append(sheets, output.Sheet{Name: sheetName(g.Name, offset+i), Chart: g.Chart})
		}
		return sheets
	case *models.TableSpec:
		table := res.Data
		if res.Instructions.Has("pivotRow") || res.Instructions.Has("pivotCol") {
			pivoted, err := render.PivotTable(res.Data, res.Instructions)
			if err != nil {
				return nil
			}
			table = pivoted
		}
		return []output.Sheet{{Name: sheetName(res.Instructions.String("title", ""), offset), Table: table}}
	}
	return nil
}

// sheetName makes a unique-by-position Excel sheet name: at most 31
// characters, none of []:*?/\.
func sheetName(title string, index int) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	suffix := fmt.Sprintf(" %d", index+1)
	if name == "" {
		return "Sheet" + strings.TrimSpace(suffix)
	}
	if runes := []rune(name); len(runes)+len(suffix) > 31 {
		name = string(runes[:31-len(suffix)])
	}
	return name + suffix
}
