package datexport

import (
	"go.uber.org/zap"
)

// Converter turns a device table into a Document. A Converter is immutable
// after construction and may be shared between goroutines.
type Converter struct {
	opts   *Options
	filter *RowFilter
}

// NewConverter creates a Converter with the given options. It fails only when
// the filter expression does not compile.
func NewConverter(opts ...Option) (*Converter, error) {
	o := newOptions(opts)
	c := &Converter{opts: o}
	if o.filter != "" {
		f, err := CompileFilter(o.filter)
		if err != nil {
			return nil, err
		}
		c.filter = f
	}
	return c, nil
}

// TransformFields returns a copy of grid with the converter's substitutions applied.
func (c *Converter) TransformFields(grid Grid) Grid {
	return c.opts.transformMap.Transform(grid)
}

// BuildRecords builds a Document from an already transformed grid. The
// filter is not consulted; use Convert for the full pipeline.
func (c *Converter) BuildRecords(grid Grid) *Document {
	doc, _ := c.build(grid, nil)
	return doc
}

// Convert substitutes cell values, applies the filter if one is configured
// and builds the Document. The input grid is not modified.
func (c *Converter) Convert(grid Grid) (*Document, error) {
	return c.build(c.TransformFields(grid), c.filter)
}

func (c *Converter) build(grid Grid, filter *RowFilter) (*Document, error) {
	doc := NewDocument()
	skipped := 0
	for i, row := range grid {
		key := grid.Cell(i, 0)
		if key == "" {
			skipped++
			c.notifySkip(i, SkipEmptyKey)
			continue
		}
		association := rowAssociation(row)

		if filter != nil {
			ok, err := filter.Match(i, key, association, row)
			if err != nil {
				return nil, err
			}
			if !ok {
				skipped++
				c.notifySkip(i, SkipFiltered)
				continue
			}
		}

		if doc.Has(key) {
			c.opts.logger.Debug("record replaced by later row", zap.String("key", key), zap.Int("row", i))
		}
		rec := NewRecord(association)
		doc.Set(key, rec)
		for _, l := range c.opts.listeners {
			l.OnRecord(key, rec, i)
		}
	}
	c.opts.logger.Debug("records built",
		zap.Int("rows", len(grid)),
		zap.Int("records", doc.Len()),
		zap.Int("skipped", skipped))
	return doc, nil
}

func (c *Converter) notifySkip(row int, reason SkipReason) {
	c.opts.logger.Debug("row skipped", zap.Int("row", row), zap.Stringer("reason", reason))
	for _, l := range c.opts.listeners {
		l.OnSkip(row, reason)
	}
}

// rowAssociation returns the non-empty cells after the key, in column order.
func rowAssociation(row []string) []string {
	association := []string{}
	if len(row) < 2 {
		return association
	}
	for _, v := range row[1:] {
		if v != "" {
			association = append(association, v)
		}
	}
	return association
}

// BuildRecords builds a Document from an already transformed grid using the default options.
func BuildRecords(grid Grid) *Document {
	c := &Converter{opts: defaultOptions()}
	return c.BuildRecords(grid)
}

// Convert applies the default substitutions to grid and builds the Document.
func Convert(grid Grid) *Document {
	c := &Converter{opts: defaultOptions()}
	return c.BuildRecords(c.TransformFields(grid))
}
