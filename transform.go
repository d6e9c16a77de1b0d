package datexport

// Grid is a table of cell values read row by row. Rows may be ragged; a
// missing cell reads as the empty string.
type Grid [][]string

// Cell returns the value at (row, col), or "" when the position is outside the grid.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// TransformMap maps literal cell values to their replacement. Matching is exact;
// values without an entry are kept as they are.
type TransformMap map[string]string

// DefaultTransformMap returns a fresh copy of the substitutions applied to
// device tables: placeholder markers are blanked and the shared regulator
// name is collapsed to "VR".
func DefaultTransformMap() TransformMap {
	return TransformMap{
		"n/a":              "",
		"(out-scope)":      "",
		"VR_VDD/HVDD/DVDD": "VR",
	}
}

// Clone returns a copy of m so the caller's map can change without affecting converters.
func (m TransformMap) Clone() TransformMap {
	out := make(TransformMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Apply returns the replacement for value, or value itself when it is not mapped.
func (m TransformMap) Apply(value string) string {
	if repl, ok := m[value]; ok {
		return repl
	}
	return value
}

// Transform returns a new grid with every cell passed through Apply. The
// input grid is left untouched and its shape is preserved.
func (m TransformMap) Transform(grid Grid) Grid {
	if grid == nil {
		return nil
	}
	out := make(Grid, len(grid))
	for i, row := range grid {
		if row == nil {
			continue
		}
		newRow := make([]string, len(row))
		for j, cell := range row {
			newRow[j] = m.Apply(cell)
		}
		out[i] = newRow
	}
	return out
}

// TransformFields applies DefaultTransformMap to every cell of grid.
func TransformFields(grid Grid) Grid {
	return DefaultTransformMap().Transform(grid)
}
