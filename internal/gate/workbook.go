// Package gate reads gate checklist workbooks and maps a gate sheet onto
// the epic and task records that represent it in Jira.
package gate

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sentinel errors for workbook lookups.
var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrNoGateSheets  = errors.New("no gate sheets")
)

// Cell is one worksheet cell: its display text and hyperlink target, if any.
type Cell struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// Blank reports whether the cell has neither text nor a hyperlink.
func (c Cell) Blank() bool {
	return strings.TrimSpace(c.Text) == "" && c.Link == ""
}

// Table is a sheet with its header row split off. Table row r is worksheet
// row r+2 and table column c is worksheet column c+1.
type Table struct {
	Name   string
	Header []Cell
	Rows   [][]Cell
}

// NewTable builds a Table from a full grid whose first row is the header.
func NewTable(name string, grid [][]Cell) *Table {
	t := &Table{Name: name}
	if len(grid) == 0 {
		return t
	}
	t.Header = grid[0]
	t.Rows = grid[1:]
	return t
}

// Len returns the number of rows below the header.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Cell returns the cell at the table position, or an empty cell when the
// position lies outside the populated range.
func (t *Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return Cell{}
	}
	r := t.Rows[row]
	if col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// SheetRow converts a table row index into the 1-based worksheet row.
func SheetRow(row int) int {
	return row + 2
}

// Workbook is an opened gate checklist workbook.
type Workbook struct {
	file *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

// OpenReader opens a workbook from r, such as an uploaded file.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Sheets returns every sheet name in workbook order.
func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

// HasSheet reports whether a sheet with exactly this name exists.
func (w *Workbook) HasSheet(name string) bool {
	for _, s := range w.file.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// GateSheets returns the names of sheets starting with prefix, in workbook order.
func (w *Workbook) GateSheets(prefix string) []string {
	var gates []string
	for _, s := range w.file.GetSheetList() {
		if strings.HasPrefix(s, prefix) {
			gates = append(gates, s)
		}
	}
	return gates
}

// Table loads the named sheet with its hyperlinks. Links are read for
// every cell of the used width, including cells without display text.
func (w *Workbook) Table(name string) (*Table, error) {
	if !w.HasSheet(name) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	grid := make([][]Cell, len(rows))
	for r, row := range rows {
		cells := make([]Cell, width)
		for c := range cells {
			if c < len(row) {
				cells[c].Text = row[c]
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			ok, target, err := w.file.GetCellHyperLink(name, axis)
			if err != nil {
				return nil, fmt.Errorf("read hyperlink %s!%s: %w", name, axis, err)
			}
			if ok {
				cells[c].Link = target
			}
		}
		grid[r] = cells
	}

	return NewTable(name, grid), nil
}
