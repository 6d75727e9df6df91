// Package spreadsheet serializa tablas de exportación a CSV y XLSX.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Gastos-api/internal/application/export"
)

var (
	_ export.TableEncoder = CSV{}
	_ export.TableEncoder = XLSX{}
)

// Encoders devuelve los codificadores disponibles indexados por formato.
func Encoders() map[string]export.TableEncoder {
	return map[string]export.TableEncoder{
		export.FormatCSV:  CSV{},
		export.FormatXLSX: XLSX{},
	}
}

// CSV codifica con encoding/csv; los montos salen con 2 decimales.
type CSV struct{}

func (CSV) ContentType() string { return "text/csv; charset=utf-8" }
func (CSV) Extension() string   { return "csv" }

// Encode escribe encabezados y filas.
func (CSV) Encode(t export.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Headers); err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = cellString(v)
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.StringFixed(2)
	default:
		return fmt.Sprint(x)
	}
}

// XLSX codifica con excelize; los montos quedan como números con formato de 2 decimales.
type XLSX struct{}

func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (XLSX) Extension() string { return "xlsx" }

// Encode crea un libro con una hoja, encabezado en negrita y anchos de columna fijos.
func (XLSX) Encode(t export.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}
	f.SetActiveSheet(index)

	for c, h := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}
	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if d, ok := v.(decimal.Decimal); ok {
				if err := f.SetCellFloat(sheet, cell, d.InexactFloat64(), 2, 64); err != nil {
					return nil, err
				}
				_ = f.SetCellStyle(sheet, cell, cell, amountStyle)
				continue
			}
			if err := f.SetCellValue(sheet, cell, cellString(v)); err != nil {
				return nil, err
			}
		}
	}

	if n := len(t.Headers); n > 0 {
		last, _ := excelize.ColumnNumberToName(n)
		_ = f.SetColWidth(sheet, "A", last, 18)
		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
		})
		if err == nil {
			_ = f.SetCellStyle(sheet, "A1", last+"1", headerStyle)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
