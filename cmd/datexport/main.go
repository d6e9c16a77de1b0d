// Command datexport converts device tables in .xlsx workbooks into DAT JSON documents.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javajack/datexport"
	"github.com/javajack/datexport/internal/config"
	"github.com/javajack/datexport/internal/logging"
)

// app carries state shared by all subcommands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = &config.Config{Columns: datexport.DefaultColumns, HeaderRows: datexport.DefaultHeaderRows, LogLevel: "info", LogFormat: "console"}
	}
	a.cfg = cfg

	rootCmd := &cobra.Command{
		Use:           "datexport",
		Short:         "Export device association tables from .xlsx workbooks to JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			logger, err := logging.New(a.cfg.LogLevel, a.cfg.LogFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfg.Sheet, "sheet", a.cfg.Sheet, "Sheet to read (default: active sheet)")
	flags.IntVar(&a.cfg.Columns, "columns", a.cfg.Columns, "Number of leading columns that form a row")
	flags.IntVar(&a.cfg.HeaderRows, "header-rows", a.cfg.HeaderRows, "Number of header rows to skip")
	flags.StringVar(&a.cfg.Filter, "filter", a.cfg.Filter, `Row filter expression, e.g. 'key startsWith "GPU"'`)
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "Log format (console, json)")

	rootCmd.AddCommand(
		newExportCmd(a),
		newValidateCmd(a),
		newDescribeCmd(a),
		newSubtreeCmd(a),
	)
	return rootCmd
}

// options converts the configuration into exporter options.
func (a *app) options(extra ...datexport.Option) []datexport.Option {
	opts := []datexport.Option{
		datexport.WithSheet(a.cfg.Sheet),
		datexport.WithColumns(a.cfg.Columns),
		datexport.WithHeaderRows(a.cfg.HeaderRows),
		datexport.WithFilter(a.cfg.Filter),
		datexport.WithLogger(a.logger),
	}
	return append(opts, extra...)
}
