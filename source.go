package datexport

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrNoSheet is returned when the requested sheet does not exist in the workbook.
var ErrNoSheet = errors.New("sheet not found")

// readerWorkbookName is the document name used when the workbook comes from a reader.
const readerWorkbookName = "workbook"

// Source is a device table read from a workbook.
type Source struct {
	Name   string  // workbook name without directory or extension
	Sheet  string  // sheet the rows were read from
	Region AreaRef // cells covered by Grid
	Grid   Grid    // rows below the header, each exactly as wide as the configured column count

	raw Grid // rows as stored, before padding or truncation
}

// CellRef returns the workbook position of a grid cell.
func (s *Source) CellRef(row, col int) CellRef {
	return NewCellRef(s.Sheet, s.Region.First.Row+row, col)
}

// ReadGrid opens the workbook at path and reads its device table.
func ReadGrid(path string, opts ...Option) (*Source, error) {
	return readSource(newOptions(append([]Option{WithWorkbook(path)}, opts...)))
}

// ReadGridReader reads the device table from a workbook supplied as a reader.
func ReadGridReader(r io.Reader, opts ...Option) (*Source, error) {
	return readSource(newOptions(append([]Option{WithWorkbookReader(r)}, opts...)))
}

// ReadGridFile reads the device table from an already open workbook. The
// caller keeps ownership of f.
func ReadGridFile(f *excelize.File, opts ...Option) (*Source, error) {
	o := newOptions(opts)
	name := readerWorkbookName
	if f.Path != "" {
		name = workbookName(f.Path)
	}
	return readFile(f, name, o)
}

func readSource(o *Options) (*Source, error) {
	f, name, err := openWorkbook(o)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readFile(f, name, o)
}

// openWorkbook opens the workbook named by the options, preferring the reader.
func openWorkbook(o *Options) (*excelize.File, string, error) {
	if o.workbookReader != nil {
		f, err := excelize.OpenReader(o.workbookReader)
		if err != nil {
			return nil, "", fmt.Errorf("open workbook from reader: %w", err)
		}
		return f, readerWorkbookName, nil
	}
	if o.workbookPath == "" {
		return nil, "", fmt.Errorf("no workbook specified (use WithWorkbook or WithWorkbookReader)")
	}
	f, err := excelize.OpenFile(o.workbookPath)
	if err != nil {
		return nil, "", fmt.Errorf("open workbook %q: %w", o.workbookPath, err)
	}
	return f, workbookName(o.workbookPath), nil
}

// readFile reads the configured window of the sheet. Cells are read as stored,
// not as displayed, so number formats do not leak into keys.
func readFile(f *excelize.File, name string, o *Options) (*Source, error) {
	sheet, err := resolveSheet(f, o.sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	rows = trimTrailingEmptyRows(rows)

	var raw Grid
	if len(rows) > o.headerRows {
		raw = Grid(rows[o.headerRows:])
	}

	grid := make(Grid, len(raw))
	for i, row := range raw {
		cells := make([]string, o.columns)
		copy(cells, row)
		grid[i] = cells
	}

	first := NewCellRef(sheet, o.headerRows, 0)
	last := NewCellRef(sheet, o.headerRows+len(grid)-1, o.columns-1)
	o.logger.Debug("read device table",
		zap.String("sheet", sheet),
		zap.String("region", NewAreaRef(first, last).String()),
		zap.Int("rows", len(grid)))

	return &Source{
		Name:   name,
		Sheet:  sheet,
		Region: NewAreaRef(first, last),
		Grid:   grid,
		raw:    raw,
	}, nil
}

// resolveSheet returns the requested sheet name, or the active sheet when none is given.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	if sheet == "" {
		active := f.GetSheetName(f.GetActiveSheetIndex())
		if active == "" {
			return "", fmt.Errorf("workbook has no active sheet: %w", ErrNoSheet)
		}
		return active, nil
	}
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return "", fmt.Errorf("look up sheet %q: %w", sheet, err)
	}
	if idx < 0 {
		return "", fmt.Errorf("sheet %q: %w", sheet, ErrNoSheet)
	}
	return sheet, nil
}

// trimTrailingEmptyRows drops rows after the last row holding any value.
func trimTrailingEmptyRows(rows [][]string) [][]string {
	last := len(rows)
	for last > 0 && rowIsEmpty(rows[last-1]) {
		last--
	}
	return rows[:last]
}

func rowIsEmpty(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// workbookName returns the file name of path without its extension.
func workbookName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
