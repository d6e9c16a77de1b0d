package datexport

import (
	"fmt"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Export will fail
	SeverityWarning                 // Export succeeds but may drop or override data
)

// ValidationIssue represents a single problem found in a device table.
type ValidationIssue struct {
	Severity Severity
	CellRef  CellRef
	Message  string
}

// String formats the issue as "[ERROR] Sheet1!A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.CellRef, v.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []ValidationIssue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate reads the workbook at path and checks its device table. A non-nil
// error means the workbook could not be read at all.
func Validate(path string, opts ...Option) ([]ValidationIssue, error) {
	o := newOptions(append([]Option{WithWorkbook(path)}, opts...))
	src, err := readSource(o)
	if err != nil {
		return nil, err
	}

	var issues []ValidationIssue
	issues = append(issues, validateFilter(o, src.CellRef(0, 0))...)
	issues = append(issues, validateTruncated(src, o.columns)...)
	issues = append(issues, validateContent(o.transformMap.Transform(src.Grid), src.CellRef)...)
	return issues, nil
}

// ValidateGrid checks an in-memory grid as it would be passed to Convert.
// Cell references carry no sheet and count rows from the top of the grid.
func ValidateGrid(grid Grid, opts ...Option) []ValidationIssue {
	o := newOptions(opts)
	ref := func(row, col int) CellRef { return NewCellRef("", row, col) }

	var issues []ValidationIssue
	issues = append(issues, validateFilter(o, ref(0, 0))...)
	issues = append(issues, validateWidth(grid, o.columns, ref)...)
	issues = append(issues, validateContent(o.transformMap.Transform(grid), ref)...)
	return issues
}

func validateFilter(o *Options, at CellRef) []ValidationIssue {
	if o.filter == "" {
		return nil
	}
	if _, err := CompileFilter(o.filter); err != nil {
		return []ValidationIssue{{
			Severity: SeverityError,
			CellRef:  at,
			Message:  fmt.Sprintf("invalid filter expression: %v", err),
		}}
	}
	return nil
}

// validateTruncated reports workbook rows with values beyond the configured columns.
func validateTruncated(src *Source, columns int) []ValidationIssue {
	var issues []ValidationIssue
	for i, row := range src.raw {
		if len(row) <= columns || rowIsEmpty(row[columns:]) {
			continue
		}
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			CellRef:  src.CellRef(i, columns),
			Message:  fmt.Sprintf("values after column %s are ignored", ColToName(columns-1)),
		})
	}
	return issues
}

// validateWidth reports in-memory rows that are not exactly columns wide.
func validateWidth(grid Grid, columns int, ref func(row, col int) CellRef) []ValidationIssue {
	var issues []ValidationIssue
	for i, row := range grid {
		switch {
		case len(row) < columns:
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				CellRef:  ref(i, len(row)),
				Message:  fmt.Sprintf("row has %d of %d columns, missing cells read as empty", len(row), columns),
			})
		case len(row) > columns:
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				CellRef:  ref(i, columns),
				Message:  fmt.Sprintf("row has %d columns, expected %d", len(row), columns),
			})
		}
	}
	return issues
}

// validateContent checks a transformed grid for skipped rows, duplicate keys
// and associations that name no key.
func validateContent(grid Grid, ref func(row, col int) CellRef) []ValidationIssue {
	var issues []ValidationIssue
	firstRow := make(map[string]int)
	for i, row := range grid {
		key := grid.Cell(i, 0)
		if key == "" {
			if len(row) > 1 && !rowIsEmpty(row[1:]) {
				issues = append(issues, ValidationIssue{
					Severity: SeverityWarning,
					CellRef:  ref(i, 0),
					Message:  "row has values but no key and is skipped",
				})
			}
			continue
		}
		if prev, ok := firstRow[key]; ok {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				CellRef:  ref(i, 0),
				Message:  fmt.Sprintf("duplicate key %q replaces the record from %s", key, ref(prev, 0).CellName()),
			})
			continue
		}
		firstRow[key] = i
	}

	for i, row := range grid {
		if grid.Cell(i, 0) == "" {
			continue
		}
		for col := 1; col < len(row); col++ {
			v := row[col]
			if v == "" {
				continue
			}
			if _, ok := firstRow[v]; ok {
				continue
			}
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				CellRef:  ref(i, col),
				Message:  fmt.Sprintf("association %q is not a key in the table", v),
			})
		}
	}
	return issues
}
