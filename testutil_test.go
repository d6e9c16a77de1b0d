package datexport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join("testdata")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

// deviceHeader is the header row of the device tables used in tests.
var deviceHeader = []string{"Device", "Assoc 1", "Assoc 2", "Assoc 3", "Assoc 4", "Assoc 5", "Assoc 6", "Notes"}

// setRows writes rows to sheet starting at A1.
func setRows(t *testing.T, f *excelize.File, sheet string, rows [][]string) {
	t.Helper()
	for i, row := range rows {
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &vals))
	}
}

// createWorkbook saves a workbook whose first sheet holds rows and returns its path.
func createWorkbook(t *testing.T, name string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	setRows(t, f, "Sheet1", rows)

	path := filepath.Join(testdataDir(t), name)
	require.NoError(t, f.SaveAs(path))
	t.Cleanup(func() { os.Remove(path) })
	return path
}

// createDeviceWorkbook saves a small GPU board table:
//
//	GPU0  -> HSC0, VR, FPGA
//	HSC0  -> (none)
//	VR    -> HSC0
//	FPGA  -> (none, "n/a" cleared)
func createDeviceWorkbook(t *testing.T, name string) string {
	t.Helper()
	return createWorkbook(t, name, [][]string{
		deviceHeader,
		{"GPU0", "HSC0", "VR_VDD/HVDD/DVDD", "", "FPGA", "", "", "ignored note"},
		{"HSC0", "", "", "", "", "", ""},
		{"VR_VDD/HVDD/DVDD", "HSC0", "(out-scope)"},
		{"FPGA", "n/a"},
	})
}
