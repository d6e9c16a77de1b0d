package datexport

import (
	"io"

	"go.uber.org/zap"
)

const (
	// DefaultColumns is the width of the device table: the key column plus six association columns.
	DefaultColumns = 7
	// DefaultHeaderRows is the number of leading rows skipped when reading a sheet.
	DefaultHeaderRows = 1
)

// Options holds configuration for the Converter and Exporter.
type Options struct {
	workbookPath   string
	workbookReader io.Reader
	sheet          string
	columns        int
	headerRows     int
	transformMap   TransformMap
	filter         string
	listeners      []RecordListener
	logger         *zap.Logger
}

func defaultOptions() *Options {
	return &Options{
		columns:      DefaultColumns,
		headerRows:   DefaultHeaderRows,
		transformMap: DefaultTransformMap(),
		logger:       zap.NewNop(),
	}
}

func newOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures the Converter and Exporter.
type Option func(*Options)

// WithWorkbook sets the workbook file path.
func WithWorkbook(path string) Option {
	return func(o *Options) { o.workbookPath = path }
}

// WithWorkbookReader sets the workbook as an io.Reader.
func WithWorkbookReader(r io.Reader) Option {
	return func(o *Options) { o.workbookReader = r }
}

// WithSheet selects the sheet to read (default: the active sheet).
func WithSheet(name string) Option {
	return func(o *Options) { o.sheet = name }
}

// WithColumns sets how many leading columns form a row (default: 7).
// Values below 1 are ignored.
func WithColumns(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.columns = n
		}
	}
}

// WithHeaderRows sets how many leading rows are skipped (default: 1).
// Negative values are ignored.
func WithHeaderRows(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.headerRows = n
		}
	}
}

// WithTransformMap replaces the cell substitutions. The map is copied.
func WithTransformMap(m TransformMap) Option {
	return func(o *Options) { o.transformMap = m.Clone() }
}

// WithFilter sets an expression that must evaluate to true for a row to be exported.
// The expression sees key, association, row and index.
func WithFilter(expression string) Option {
	return func(o *Options) { o.filter = expression }
}

// WithRecordListener adds a listener that is notified for each emitted record and skipped row.
func WithRecordListener(listener RecordListener) Option {
	return func(o *Options) { o.listeners = append(o.listeners, listener) }
}

// WithLogger sets the logger (default: no-op).
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
