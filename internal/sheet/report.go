package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Column is a report column and its width in characters.
type Column struct {
	Title string
	Width float64
}

// Report is a single-sheet table with a title line and an optional total line.
type Report struct {
	Sheet   string
	Title   string
	Columns []Column
	Rows    [][]interface{}
	// Total, when set, is written under the last column with TotalLabel before it.
	TotalLabel string
	Total      interface{}
}

// Build renders the report into a new workbook. Layout: title on row 1,
// headers on row 3, data from row 4.
func (r *Report) Build() (*excelize.File, error) {
	f := excelize.NewFile()
	name := r.Sheet
	if name == "" {
		name = "Sheet1"
	}
	if name != "Sheet1" {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			f.Close()
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	set := func(col, row int, v interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(name, cell, v)
	}

	if r.Title != "" {
		if err := set(1, 1, r.Title); err != nil {
			f.Close()
			return nil, err
		}
		_ = f.SetCellStyle(name, "A1", "A1", bold)
	}
	for i, c := range r.Columns {
		if err := set(i+1, 3, c.Title); err != nil {
			f.Close()
			return nil, err
		}
		if c.Width > 0 {
			col, _ := excelize.ColumnNumberToName(i + 1)
			_ = f.SetColWidth(name, col, col, c.Width)
		}
	}
	if len(r.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(r.Columns), 3)
		_ = f.SetCellStyle(name, "A3", last, bold)
	}

	row := 4
	for _, values := range r.Rows {
		for i, v := range values {
			if err := set(i+1, row, v); err != nil {
				f.Close()
				return nil, err
			}
		}
		row++
	}

	if r.Total != nil && len(r.Columns) >= 2 {
		n := len(r.Columns)
		if err := set(n-1, row, r.TotalLabel); err != nil {
			f.Close()
			return nil, err
		}
		if err := set(n, row, r.Total); err != nil {
			f.Close()
			return nil, err
		}
		from, _ := excelize.CoordinatesToCellName(n-1, row)
		to, _ := excelize.CoordinatesToCellName(n, row)
		_ = f.SetCellStyle(name, from, to, bold)
	}
	return f, nil
}

// Write renders the report straight to w.
func (r *Report) Write(w io.Writer) error {
	f, err := r.Build()
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	defer f.Close()
	return f.Write(w)
}

// StudentTemplate is the bulk upload template with two example rows.
func StudentTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const name = "students"
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"name", "fee", "room_id"},
		{"Ali Khan", 5000, 1},
		{"Sara Ahmed", 5500, 2},
	}
	for i, values := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(name, "A", "A", 24)
	return f.Write(w)
}
