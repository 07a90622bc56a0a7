// Package sheet reads uploaded spreadsheets and writes xlsx reports.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of generated workbooks.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	ErrUnsupported = errors.New("unsupported file type, upload an .xlsx or .csv file")
	ErrEmpty       = errors.New("the file has no header row")
)

// Row is one data row keyed by normalized header; Line is its 1-based line
// in the file, the header being line 1.
type Row struct {
	Line  int
	Cells map[string]string
}

// Get returns the trimmed cell under column, "" when absent.
func (r Row) Get(column string) string {
	return r.Cells[column]
}

type Table struct {
	Header []string
	Rows   []Row
}

// Missing lists the required columns the header lacks.
func (t *Table) Missing(columns ...string) []string {
	have := make(map[string]bool, len(t.Header))
	for _, h := range t.Header {
		have[h] = true
	}
	var out []string
	for _, c := range columns {
		if !have[c] {
			out = append(out, c)
		}
	}
	return out
}

// Allowed reports whether filename has an extension Read understands.
func Allowed(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}

// Read parses the first worksheet of an xlsx file, or a csv file, by extension.
// Headers are trimmed and lower-cased; fully blank rows are skipped.
func Read(filename string, r io.Reader) (*Table, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSX(r)
	case ".csv":
		records, err = readCSV(r)
	default:
		return nil, ErrUnsupported
	}
	if err != nil {
		return nil, err
	}
	return buildTable(records)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read CSV file: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read CSV file: %w", err)
	}
	return rows, nil
}

func buildTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	t := &Table{Header: make([]string, len(records[0]))}
	for i, h := range records[0] {
		t.Header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for i, rec := range records[1:] {
		row := Row{Line: i + 2, Cells: make(map[string]string, len(t.Header))}
		blank := true
		for j, h := range t.Header {
			if h == "" || j >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[j])
			if v != "" {
				blank = false
			}
			row.Cells[h] = v
		}
		if blank {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
