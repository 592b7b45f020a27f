// Package gatetest builds gate checklist workbooks for tests.
package gatetest

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// Cell is a value placed at a 1-based worksheet position.
type Cell struct {
	Col  int
	Row  int
	Text string
	Link string // hyperlink target, empty for none
}

// Sheet is a named worksheet with its cells.
type Sheet struct {
	Name  string
	Cells []Cell
}

// Row places the 0-based table columns of one checklist row onto
// worksheet row sheetRow.
func Row(sheetRow int, cols map[int]string) []Cell {
	cells := make([]Cell, 0, len(cols))
	for col, text := range cols {
		cells = append(cells, Cell{Col: col + 1, Row: sheetRow, Text: text})
	}
	return cells
}

// Title places the gate title where the default layout reads it (D4).
func Title(text string) Cell {
	return Cell{Col: 4, Row: 4, Text: text}
}

// Header places a header cell in A1.
func Header() Cell {
	return Cell{Col: 1, Row: 1, Text: "Gate checklist"}
}

// Build writes the sheets into a new workbook and returns its xlsx bytes.
func Build(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("new sheet %q: %v", s.Name, err)
		}

		for _, c := range s.Cells {
			axis, err := excelize.CoordinatesToCellName(c.Col, c.Row)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(s.Name, axis, c.Text); err != nil {
				t.Fatalf("set %s!%s: %v", s.Name, axis, err)
			}
			if c.Link != "" {
				if err := f.SetCellHyperLink(s.Name, axis, c.Link, "External"); err != nil {
					t.Fatalf("set hyperlink %s!%s: %v", s.Name, axis, err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}
