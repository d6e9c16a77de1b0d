package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javajack/datexport"
)

// stdoutPath selects standard output instead of a file.
const stdoutPath = "-"

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <workbook.xlsx>",
		Short: "Convert the device table and write the JSON document",
		Long: `Convert the device table and write the JSON document.

Rows below the header are read from columns A..G. The first column is the
device key, the remaining non-empty cells become its association list.

Example: datexport export "GPU Board.xlsx"      # writes GPU_Board.json
         datexport export board.xlsx -o -        # writes to stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := &exportStats{}
			e, err := datexport.NewExporter(a.options(
				datexport.WithWorkbook(args[0]),
				datexport.WithRecordListener(stats),
			)...)
			if err != nil {
				return err
			}
			doc, src, err := e.Document()
			if err != nil {
				return err
			}

			if output == "" {
				output = filepath.Join(filepath.Dir(args[0]), datexport.DefaultFileName(src.Name))
			}
			if err := writeOutput(cmd.OutOrStdout(), output, doc); err != nil {
				return err
			}
			a.logger.Info("export finished",
				zap.String("output", output),
				zap.Int("records", stats.records),
				zap.Int("replaced", stats.records-doc.Len()),
				zap.Int("skipped_empty_key", stats.skipped[datexport.SkipEmptyKey]),
				zap.Int("skipped_filtered", stats.skipped[datexport.SkipFiltered]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `Output file, "-" for stdout (default: <workbook name>.json next to the workbook)`)
	return cmd
}

// writeOutput writes doc to path, or to stdout when path is "-". A partially
// written file is removed.
func writeOutput(stdout io.Writer, path string, doc *datexport.Document) error {
	if path == stdoutPath {
		return datexport.WriteDocument(stdout, doc)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	if err := datexport.WriteDocument(out, doc); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close output file %q: %w", path, err)
	}
	return nil
}

// exportStats counts conversion events for the summary log line.
type exportStats struct {
	records int
	skipped map[datexport.SkipReason]int
}

func (s *exportStats) OnRecord(key string, rec *datexport.Record, row int) {
	s.records++
}

func (s *exportStats) OnSkip(row int, reason datexport.SkipReason) {
	if s.skipped == nil {
		s.skipped = make(map[datexport.SkipReason]int)
	}
	s.skipped[reason]++
}
