package spreadsheet_test

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Gastos-api/internal/application/export"
	"github.com/jhoicas/Gastos-api/internal/infrastructure/spreadsheet"
)

func table() export.Table {
	return export.Table{
		Sheet:   "Expense Reports",
		Headers: []string{"Employee Name", "Status", "Claimed Amount"},
		Rows: [][]any{
			{"Ana, Pérez", "Pending Approval", decimal.RequireFromString("1234.5")},
			{"Luis", "Paid", nil},
		},
	}
}

func TestCSV_Encode(t *testing.T) {
	body, err := spreadsheet.CSV{}.Encode(table())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Employee Name", "Status", "Claimed Amount"}, records[0])
	assert.Equal(t, []string{"Ana, Pérez", "Pending Approval", "1234.50"}, records[1], "comas escapadas y montos con 2 decimales")
	assert.Equal(t, "", records[2][2])
}

func TestXLSX_Encode(t *testing.T) {
	body, err := spreadsheet.XLSX{}.Encode(table())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Expense Reports"}, f.GetSheetList())
	v, err := f.GetCellValue("Expense Reports", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Ana, Pérez", v)

	raw, err := f.GetCellValue("Expense Reports", "C2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	n, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err, "los montos se guardan como número")
	assert.InDelta(t, 1234.5, n, 0.001)
}

func TestEncoders_Formatos(t *testing.T) {
	enc := spreadsheet.Encoders()
	assert.Equal(t, "csv", enc[export.FormatCSV].Extension())
	assert.Equal(t, "xlsx", enc[export.FormatXLSX].Extension())
}
