// Package main provides the CLI entry point for reportgen-go.
package main

import (
	"fmt"
	"os"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"github.com/ukaji3/reportgen-go/pkg/reportgen"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/config"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/datasource"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "modernc.org/sqlite"
)

var (
	configPath string
	verbose    bool
	outputPath string
	pretty     bool
	paramPairs []string

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reportgen",
		Short: "Render report templates into tables, charts and filters",
		Long: `reportgen-go processes report templates whose {{ ... }} tokens describe
tables, bar/line/pie charts and filter controls backed by SQL queries or
xlsx workbooks.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(renderCmd(), serveCmd(), pivotCmd(), exportCmd(), sheetsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		level, err := zap.ParseAtomicLevel(strings.ToLower(cfg.Logging.Level))
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		zc.Level = level
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// openSource builds the data source from the config: the SQL database as
// the default route and the workbook under the "xlsx:" prefix.
func openSource() (*datasource.Router, func(), error) {
	router := datasource.NewRouter(nil)
	cleanup := func() {}
	if cfg.Database.Driver != "" {
		db, err := datasource.OpenSQL(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		router.Default = db
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close database", zap.Error(err))
			}
		}
		logger.Debug("Database configured", zap.String("driver", cfg.Database.Driver))
	}
	if cfg.Workbook.Path != "" {
		router.Handle("xlsx", datasource.NewWorkbook(cfg.Workbook.Path))
		logger.Debug("Workbook configured", zap.String("path", cfg.Workbook.Path))
	}
	return router, cleanup, nil
}

// requestParams parses --param name=value flags.
func requestParams() (reportgen.Params, error) {
	params := make(reportgen.Params, len(paramPairs))
	for _, pair := range paramPairs {
		eq := strings.IndexByte(pair, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("invalid param %q (expected name=value)", pair)
		}
		params[pair[:eq]] = pair[eq+1:]
	}
	return params, nil
}

func writeOutput(data []byte) error {
	if outputPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
