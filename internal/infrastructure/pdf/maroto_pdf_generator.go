// Package pdf implementa las versiones imprimibles del reporte de gastos y del
// reporte de anomalías.
//
// Layout de la página A4 del reporte de gastos:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + título    │  Estado + Fecha de envío      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMPLEADO: Nombre / Departamento / Tienda / Período         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Categoría | Descripción | Pago | Monto       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Reclamado / Aprobado                               │
//	│  COMENTARIOS del revisor                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/export"
	"github.com/jhoicas/Gastos-api/pkg/money"
)

var _ export.PDFRenderer = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 176, Green: 42, Blue: 55}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa export.PDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// RenderReport genera el PDF del reporte de gastos.
func (g *MarotoPDFGenerator) RenderReport(_ context.Context, doc export.ReportDocument) ([]byte, error) {
	r := doc.Report
	m := newDocument("Expense Report", doc.CompanyName)

	m.AddRows(reportHeaderRow(doc.CompanyName, r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(employeeRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	for _, it := range r.Items {
		m.AddRows(itemRow(it, doc.CurrencySymbol))
	}
	if len(r.Items) == 0 {
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("El reporte no tiene ítems.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(reportTotalsRow(r, doc.CurrencySymbol))
	if r.AdminComments != "" {
		m.AddRows(row.New(14).Add(col.New(12).Add(
			text.New("COMENTARIOS DEL REVISOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(r.AdminComments, props.Text{Size: 8, Top: 6}),
		)))
	}
	return generate(m)
}

// RenderAnomalies genera el PDF del reporte de anomalías.
func (g *MarotoPDFGenerator) RenderAnomalies(_ context.Context, doc export.AnomalyDocument) ([]byte, error) {
	res := doc.Result
	m := newDocument("Anomaly Detection Report", doc.CompanyName)

	dept := nonEmpty(res.Department, "Todos")
	m.AddRows(row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.CompanyName, "—"), props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Reporte de detección de anomalías", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Período: %s a %s", res.Period.Start.Format(dto.DateLayout), res.Period.End.Format(dto.DateLayout)),
				props.Text{Size: 8, Align: align.Right, Top: 2, Color: colorGray}),
			text.New("Departamento: "+dept, props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
			text.New(fmt.Sprintf("Ítems marcados: %d", len(res.Items)),
				props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 13}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for _, e := range res.Errors {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New(e, props.Text{Size: 8, Top: 1, Color: colorDanger}),
		)))
	}

	h := headerCell
	m.AddRows(row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Empleado", 2, align.Left),
		h("Categoría", 2, align.Left),
		h("Descripción", 3, align.Left),
		h("Monto", 1, align.Right),
		h("Razón", 2, align.Left),
	))
	for _, it := range res.Items {
		m.AddRows(row.New(7).Add(
			bodyCell(it.ItemDate.Format(dto.DateLayout), 2, align.Left),
			bodyCell(it.EmployeeName, 2, align.Left),
			bodyCell(it.Category, 2, align.Left),
			bodyCell(it.Description, 3, align.Left),
			bodyCell(money.Format(doc.CurrencySymbol, it.Amount), 1, align.Right),
			col.New(2).Add(text.New(it.FlagReason, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1, Color: colorDanger,
			})),
		))
	}
	if len(res.Items) == 0 && len(res.Errors) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("No se encontraron anomalías en el período.", props.Text{Size: 9, Top: 2, Align: align.Center}),
		)))
	}
	return generate(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// reportHeaderRow: empresa + título (izq) y estado + fecha de envío (der).
func reportHeaderRow(company string, r dto.ReportResponse) core.Row {
	submitted := "—"
	if r.SubmittedAt != nil {
		submitted = r.SubmittedAt.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "—"), props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(r.Title, props.Text{Size: 10, Top: 9}),
		),
		col.New(5).Add(
			text.New("REPORTE DE GASTOS", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(r.StatusLabel, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7}),
			text.New("Enviado: "+submitted, props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

// employeeRow: datos del empleado y período del viaje.
func employeeRow(r dto.ReportResponse) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("EMPLEADO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(r.EmployeeName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Departamento: %s   |   Tienda: %s   |   Tipo: %s   |   Período: %s a %s",
				nonEmpty(r.Department, "—"),
				nonEmpty(r.StoreName, "—"),
				nonEmpty(r.ReportType, "—"),
				r.StartDate, r.EndDate,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
	}))
}

func bodyCell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

// itemsHeaderRow: cabecera de la tabla de ítems.
func itemsHeaderRow() core.Row {
	return row.New(8).Add(
		headerCell("Fecha", 2, align.Left),
		headerCell("Categoría", 2, align.Left),
		headerCell("Descripción", 4, align.Left),
		headerCell("Medio de pago", 2, align.Left),
		headerCell("Monto", 2, align.Right),
	)
}

func itemRow(it dto.ItemResponse, symbol string) core.Row {
	return row.New(7).Add(
		bodyCell(it.ItemDate, 2, align.Left),
		bodyCell(it.Category, 2, align.Left),
		bodyCell(it.Description, 4, align.Left),
		bodyCell(it.PaymentMethod, 2, align.Left),
		bodyCell(money.Format(symbol, it.Amount), 2, align.Right),
	)
}

// reportTotalsRow: bloque de totales alineado a la derecha.
func reportTotalsRow(r dto.ReportResponse, symbol string) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 6})
	}
	return row.New(16).Add(
		col.New(6),
		col.New(3).Add(
			label("Total reclamado:"),
			text.New("Total aprobado:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 6}),
		),
		col.New(3).Add(
			text.New(money.Format(symbol, r.TotalAmount), props.Text{Size: 9, Align: align.Right, Right: 1}),
			grand(money.Format(symbol, r.ApprovedAmount)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
