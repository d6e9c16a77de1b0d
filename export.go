package datexport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// jsonIndent is the indentation used for exported documents.
const jsonIndent = "  "

// Exporter reads a workbook, converts its device table and writes the JSON document.
type Exporter struct {
	opts      *Options
	converter *Converter
}

// NewExporter creates an Exporter with the given options.
func NewExporter(opts ...Option) (*Exporter, error) {
	o := newOptions(opts)
	c, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	return &Exporter{opts: o, converter: c}, nil
}

// Export converts the workbook at inPath and writes the document to outPath.
func Export(inPath, outPath string, opts ...Option) error {
	e, err := NewExporter(append([]Option{WithWorkbook(inPath)}, opts...)...)
	if err != nil {
		return err
	}
	return e.Export(outPath)
}

// ExportBytes converts the workbook at inPath and returns the document as bytes.
func ExportBytes(inPath string, opts ...Option) ([]byte, error) {
	e, err := NewExporter(append([]Option{WithWorkbook(inPath)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return e.ExportBytes()
}

// ExportReader converts a workbook read from r and writes the document to w.
func ExportReader(r io.Reader, w io.Writer, opts ...Option) error {
	e, err := NewExporter(append([]Option{WithWorkbookReader(r)}, opts...)...)
	if err != nil {
		return err
	}
	return e.ExportWriter(w)
}

// Document reads the workbook and converts it, returning the source alongside.
func (e *Exporter) Document() (*Document, *Source, error) {
	src, err := readSource(e.opts)
	if err != nil {
		return nil, nil, err
	}
	doc, err := e.converter.Convert(src.Grid)
	if err != nil {
		return nil, nil, fmt.Errorf("convert sheet %q: %w", src.Sheet, err)
	}
	e.opts.logger.Info("converted device table",
		zap.String("workbook", src.Name),
		zap.String("region", src.Region.String()),
		zap.Int("records", doc.Len()))
	return doc, src, nil
}

// Export converts the workbook and writes the document to outPath. The output
// file is removed if writing or closing it fails.
func (e *Exporter) Export(outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", outPath, err)
	}
	return finishOutput(out, e.ExportWriter(out))
}

// finishOutput closes out and removes it when writeErr or the close failed.
func finishOutput(out *os.File, writeErr error) error {
	closeErr := out.Close()
	if writeErr == nil && closeErr != nil {
		writeErr = fmt.Errorf("close output file %q: %w", out.Name(), closeErr)
	}
	if writeErr != nil {
		os.Remove(out.Name())
	}
	return writeErr
}

// ExportBytes converts the workbook and returns the document as bytes.
func (e *Exporter) ExportBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.ExportWriter(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportWriter converts the workbook and writes the document to w.
func (e *Exporter) ExportWriter(w io.Writer) error {
	doc, _, err := e.Document()
	if err != nil {
		return err
	}
	return WriteDocument(w, doc)
}

// WriteDocument writes doc to w as JSON indented by two spaces, followed by a newline.
func WriteDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// DefaultFileName returns the suggested output file name for a workbook name:
// spaces become underscores and ".json" is appended.
func DefaultFileName(name string) string {
	return strings.ReplaceAll(name, " ", "_") + ".json"
}
