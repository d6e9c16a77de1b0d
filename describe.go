package datexport

import (
	"fmt"
	"strings"
)

// Describe reads the workbook at path and returns a human-readable listing of
// the records it would export. Useful for checking a table before exporting.
func Describe(path string, opts ...Option) (string, error) {
	e, err := NewExporter(append([]Option{WithWorkbook(path)}, opts...)...)
	if err != nil {
		return "", err
	}
	return e.Describe()
}

// Describe converts the workbook and returns the listing with a header naming
// the region that was read.
func (e *Exporter) Describe() (string, error) {
	doc, src, err := e.Document()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Workbook: %s\n", src.Name)
	fmt.Fprintf(&b, "Region: %s (%d rows)\n", src.Region, src.Region.Rows())
	fmt.Fprintf(&b, "Output: %s\n", DefaultFileName(src.Name))
	b.WriteString(doc.Describe())
	return b.String(), nil
}

// Describe returns a count line followed by one line per record in document order:
//
//	Records: 2
//	  GPU0 -> HSC0, VR (2)
//	  HSC0 (0)
func (d *Document) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Records: %d\n", d.Len())
	for _, key := range d.keys {
		rec := d.records[key]
		b.WriteString("  ")
		b.WriteString(key)
		if len(rec.Association) > 0 {
			b.WriteString(" -> ")
			b.WriteString(strings.Join(rec.Association, ", "))
		}
		fmt.Fprintf(&b, " (%d)\n", len(rec.Association))
	}
	return b.String()
}
