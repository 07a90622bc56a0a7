package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRead_CSVNormalizesHeaders(t *testing.T) {
	data := "\xEF\xBB\xBF Name ,FEE,Room_ID\nAli,5000,1\n,,\nSara,5500.50,2\n"
	table, err := Read("students.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "fee", "room_id"}, table.Header)
	assert.Empty(t, table.Missing("name", "fee", "room_id"))
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 2, table.Rows[0].Line)
	assert.Equal(t, "Ali", table.Rows[0].Get("name"))
	// the blank line 3 is skipped but line numbers keep counting
	assert.Equal(t, 4, table.Rows[1].Line)
	assert.Equal(t, "5500.50", table.Rows[1].Get("fee"))
}

func TestRead_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, StudentTemplate(&buf))

	table, err := Read("upload.XLSX", &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "fee", "room_id"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Sara Ahmed", table.Rows[1].Get("name"))
	assert.Equal(t, "2", table.Rows[1].Get("room_id"))
}

func TestRead_MissingColumns(t *testing.T) {
	table, err := Read("a.csv", strings.NewReader("name,amount\nx,1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"fee", "room_id"}, table.Missing("name", "fee", "room_id"))
}

func TestRead_Rejects(t *testing.T) {
	_, err := Read("old.xls", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Read("empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Read("broken.xlsx", strings.NewReader("not a zip"))
	assert.Error(t, err)

	assert.True(t, Allowed("a.xlsx"))
	assert.True(t, Allowed("a.CSV"))
	assert.False(t, Allowed("a.pdf"))
}

func TestReport_Build(t *testing.T) {
	r := Report{
		Sheet: "Expenses",
		Title: "Expense report 2025-03",
		Columns: []Column{
			{Title: "Date", Width: 12},
			{Title: "Item", Width: 30},
			{Title: "Price", Width: 12},
		},
		Rows: [][]interface{}{
			{"2025-03-01", "Gas", "120.00"},
			{"2025-03-04", "Rice", "80.50"},
		},
		TotalLabel: "Total",
		Total:      "200.50",
	}
	f, err := r.Build()
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Expenses"}, f.GetSheetList())
	v, err := f.GetCellValue("Expenses", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Expense report 2025-03", v)
	v, _ = f.GetCellValue("Expenses", "B3")
	assert.Equal(t, "Item", v)
	v, _ = f.GetCellValue("Expenses", "B5")
	assert.Equal(t, "Rice", v)
	v, _ = f.GetCellValue("Expenses", "B6")
	assert.Equal(t, "Total", v)
	v, _ = f.GetCellValue("Expenses", "C6")
	assert.Equal(t, "200.50", v)

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf))
	g, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer g.Close()
	rows, err := g.GetRows("Expenses")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}
