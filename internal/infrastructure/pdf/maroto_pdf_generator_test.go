package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/export"
	"github.com/jhoicas/Gastos-api/internal/infrastructure/pdf"
)

func TestRenderReport_GeneraPDF(t *testing.T) {
	submitted := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	doc := export.ReportDocument{
		CompanyName:    "Acme S.A.S.",
		CurrencySymbol: "Rs.",
		Report: dto.ReportResponse{
			Title: "Visita a cliente", ReportType: "travel", StartDate: "2026-03-01", EndDate: "2026-03-02",
			StatusLabel: "Pending Approval", EmployeeName: "Ana", SubmittedAt: &submitted,
			TotalAmount: decimal.RequireFromString("150.25"),
			Items: []dto.ItemResponse{
				{ItemDate: "2026-03-01", Category: "Travel", Description: "taxi al aeropuerto", PaymentMethod: "Cash", Amount: decimal.RequireFromString("150.25")},
			},
		},
	}
	body, err := pdf.NewMarotoPDFGenerator().RenderReport(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")), "cabecera PDF")
}

func TestRenderAnomalies_GeneraPDFConErrores(t *testing.T) {
	doc := export.AnomalyDocument{
		CompanyName: "Acme S.A.S.",
		Result: dto.AnomalyReportResponse{
			Period: dto.Period{Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)},
			Items: []dto.AnomalyItem{
				{ItemDate: time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), EmployeeName: "Luis", Category: "Meals",
					Description: "cena", Amount: decimal.RequireFromString("80"), FlagReason: "Weekend Spending"},
			},
			Errors: []string{"No se pudieron calcular las estadísticas por categoría."},
		},
	}
	body, err := pdf.NewMarotoPDFGenerator().RenderAnomalies(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}
