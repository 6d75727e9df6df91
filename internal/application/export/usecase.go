// Package export genera las descargas de reportes: listado en CSV/XLSX y versiones
// imprimibles en PDF del reporte de gastos y del reporte de anomalías.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Gastos-api/internal/application/analytics"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/expense"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

// Formatos de exportación del listado.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ReportColumns encabezados del listado exportado.
var ReportColumns = []string{
	"Employee Name", "Department", "Report Title", "Report Type", "Submitted On",
	"Status", "Claimed Amount", "Approved Amount", "Approved On", "Paid On",
}

// Deps dependencias del caso de uso.
type Deps struct {
	Reports        repository.ExpenseReportRepository
	Companies      repository.CompanyRepository
	Anomalies      *analytics.AnomalyUseCase
	Encoders       map[string]TableEncoder
	PDF            PDFRenderer
	CurrencySymbol string
}

// UseCase exportaciones.
type UseCase struct {
	d   Deps
	now func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	return &UseCase{d: d, now: time.Now}
}

// ExportReports listado filtrado en CSV (por defecto) o XLSX.
func (uc *UseCase) ExportReports(ctx context.Context, actor entity.Actor, q dto.ReportsQuery) (*File, error) {
	format := strings.ToLower(strings.TrimSpace(q.Format))
	if format == "" {
		format = FormatCSV
	}
	enc, ok := uc.d.Encoders[format]
	if !ok {
		return nil, domain.Invalid("formato no soportado: " + format)
	}
	f, err := analytics.BuildFilter(actor, q)
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Reports.ListReports(ctx, f)
	if err != nil {
		return nil, err
	}

	body, err := enc.Encode(ReportsTable(list))
	if err != nil {
		return nil, fmt.Errorf("export: %s: %w", format, err)
	}
	return &File{
		Name:        fmt.Sprintf("expense_report_%s.%s", uc.now().Format(dto.DateLayout), enc.Extension()),
		ContentType: enc.ContentType(),
		Body:        body,
	}, nil
}

// ReportsTable arma la tabla del listado con las columnas de ReportColumns.
func ReportsTable(list []*entity.ExpenseReport) Table {
	t := Table{Sheet: "Expense Reports", Headers: ReportColumns, Rows: make([][]any, 0, len(list))}
	for _, r := range list {
		t.Rows = append(t.Rows, []any{
			r.EmployeeName,
			r.Department,
			r.Title,
			r.ReportType,
			formatDate(r.SubmittedAt),
			entity.StatusLabel(r.Status),
			r.TotalAmount,
			r.ApprovedAmount,
			formatDate(r.ApprovedAt),
			formatDate(r.PaidAt),
		})
	}
	return t
}

// ReportPDF versión imprimible de un reporte. La ve el dueño, su aprobador y el staff de cuentas/admin.
func (uc *UseCase) ReportPDF(ctx context.Context, actor entity.Actor, reportID string) (*File, error) {
	r, err := uc.d.Reports.GetReport(ctx, actor.CompanyID, reportID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if r.UserID != actor.UserID && r.ApproverID != actor.UserID &&
		!actor.Has(entity.RoleAccounts, entity.RoleAdmin, entity.RolePlatformAdmin) {
		return nil, domain.ErrForbidden
	}
	items, err := uc.d.Reports.ListItems(ctx, r.ID)
	if err != nil {
		return nil, err
	}

	body, err := uc.d.PDF.RenderReport(ctx, ReportDocument{
		CompanyName:    uc.companyName(ctx, r.CompanyID),
		CurrencySymbol: uc.d.CurrencySymbol,
		Report:         expense.ToReportResponse(r, items),
	})
	if err != nil {
		return nil, fmt.Errorf("export: pdf reporte: %w", err)
	}
	return &File{Name: "expense_report_" + r.ID + ".pdf", ContentType: "application/pdf", Body: body}, nil
}

// AnomalyPDF versión imprimible del reporte de anomalías con los mismos filtros.
func (uc *UseCase) AnomalyPDF(ctx context.Context, actor entity.Actor, q dto.AnomalyQuery) (*File, error) {
	res, err := uc.d.Anomalies.Report(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	body, err := uc.d.PDF.RenderAnomalies(ctx, AnomalyDocument{
		CompanyName:    uc.companyName(ctx, actor.CompanyID),
		CurrencySymbol: uc.d.CurrencySymbol,
		Result:         *res,
	})
	if err != nil {
		return nil, fmt.Errorf("export: pdf anomalías: %w", err)
	}
	return &File{
		Name:        fmt.Sprintf("anomaly_report_%s.pdf", uc.now().Format(dto.DateLayout)),
		ContentType: "application/pdf",
		Body:        body,
	}, nil
}

// companyName nombre para el encabezado; si la consulta falla se imprime sin él.
func (uc *UseCase) companyName(ctx context.Context, companyID string) string {
	c, err := uc.d.Companies.GetByID(ctx, companyID)
	if err != nil || c == nil {
		return ""
	}
	return c.Name
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dto.DateLayout)
}
