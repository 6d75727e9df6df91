package export

import (
	"context"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
)

// Table datos tabulares de una exportación. Las celdas son string, decimal.Decimal o nil.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}

// TableEncoder serializa una tabla en un formato de archivo (csv, xlsx).
type TableEncoder interface {
	Encode(t Table) ([]byte, error)
	ContentType() string
	Extension() string
}

// ReportDocument datos de la impresión de un reporte de gastos.
type ReportDocument struct {
	CompanyName    string
	CurrencySymbol string
	Report         dto.ReportResponse
}

// AnomalyDocument datos de la impresión del reporte de anomalías.
type AnomalyDocument struct {
	CompanyName    string
	CurrencySymbol string
	Result         dto.AnomalyReportResponse
}

// PDFRenderer genera las versiones imprimibles.
type PDFRenderer interface {
	RenderReport(ctx context.Context, doc ReportDocument) ([]byte, error)
	RenderAnomalies(ctx context.Context, doc AnomalyDocument) ([]byte, error)
}

// File archivo listo para descargar.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}
