package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javajack/datexport"
)

func newSubtreeCmd(a *app) *cobra.Command {
	var (
		output     string
		testLayers bool
	)

	cmd := &cobra.Command{
		Use:   "subtree <root-device> <input>",
		Short: "Write the part of a document reachable from one device",
		Long: `Write the part of a document reachable from one device.

The input is either an .xlsx workbook, which is converted first, or a JSON
document produced by export ("-" reads JSON from stdin). Associations that
point outside the sub-tree are dropped.

Example: datexport subtree GPU0 dat.json -o gpu0.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}
			children := datexport.AssociationChildren
			if testLayers {
				children = datexport.LayerChildren
			}
			sub, err := doc.SubTreeFunc(args[0], children)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, sub)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", stdoutPath, `Output file, "-" for stdout`)
	cmd.Flags().BoolVar(&testLayers, "testlayers", false, "Follow DEVICE accessors in the test layers instead of associations")
	return cmd
}

// loadDocument reads a JSON document or converts a workbook, depending on the input name.
func (a *app) loadDocument(stdin io.Reader, input string) (*datexport.Document, error) {
	if input == stdoutPath {
		return datexport.LoadDocument(stdin)
	}
	if strings.EqualFold(filepath.Ext(input), ".json") {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("open document %q: %w", input, err)
		}
		defer f.Close()
		return datexport.LoadDocument(f)
	}
	e, err := datexport.NewExporter(a.options(datexport.WithWorkbook(input))...)
	if err != nil {
		return nil, err
	}
	doc, _, err := e.Document()
	return doc, err
}
