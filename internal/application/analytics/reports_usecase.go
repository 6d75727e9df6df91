package analytics

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/expense"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
	"github.com/jhoicas/Gastos-api/pkg/logger"
)

const (
	errSummaryReports  = "No se pudo cargar el listado de reportes."
	errSummaryCategory = "No se pudo cargar el resumen por categoría."
	errSummaryPayment  = "No se pudo cargar el resumen por medio de pago."
)

// ReportsUseCase listado filtrado de reportes con totales y resúmenes por categoría y medio de pago.
type ReportsUseCase struct {
	reports       repository.ExpenseReportRepository
	analyticsRepo repository.AnalyticsRepository
	log           *logger.Logger
}

// NewReportsUseCase construye el caso de uso. log puede ser nil.
func NewReportsUseCase(reports repository.ExpenseReportRepository, analyticsRepo repository.AnalyticsRepository, log *logger.Logger) *ReportsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportsUseCase{reports: reports, analyticsRepo: analyticsRepo, log: log.Component("reports")}
}

// BuildFilter valida los filtros de la consulta. Las fechas aplican sobre submitted_at y el fin es inclusivo.
func BuildFilter(actor entity.Actor, q dto.ReportsQuery) (repository.ReportFilter, error) {
	f := repository.ReportFilter{
		CompanyID: actor.CompanyID,
		UserID:    strings.TrimSpace(q.UserID),
		Status:    strings.TrimSpace(q.Status),
	}
	if f.Status != "" && !entity.ValidStatus(f.Status) {
		return f, domain.Invalid("estado desconocido: " + f.Status)
	}
	if s := strings.TrimSpace(q.Start); s != "" {
		t, err := dto.ParseDate(s)
		if err != nil {
			return f, domain.Invalid("start_date inválida, formato esperado YYYY-MM-DD")
		}
		f.Start = &t
	}
	if s := strings.TrimSpace(q.End); s != "" {
		t, err := dto.ParseDate(s)
		if err != nil {
			return f, domain.Invalid("end_date inválida, formato esperado YYYY-MM-DD")
		}
		t = endOfDay(t)
		f.End = &t
	}
	if f.Start != nil && f.End != nil && f.Start.After(*f.End) {
		return f, domain.Invalid("start_date no puede ser posterior a end_date")
	}
	return f, nil
}

// Summary reportes filtrados, totales reclamado/aprobado, conteo por estado y resúmenes de ítems.
//
// Solo un filtro inválido devuelve error. Una consulta fallida deja su sección vacía y
// agrega un mensaje a Errors.
func (uc *ReportsUseCase) Summary(ctx context.Context, actor entity.Actor, q dto.ReportsQuery) (*dto.ReportsSummaryResponse, error) {
	f, err := BuildFilter(actor, q)
	if err != nil {
		return nil, err
	}
	out := &dto.ReportsSummaryResponse{
		TotalClaimed:  decimal.Zero,
		TotalApproved: decimal.Zero,
		CountByStatus: make(map[string]int),
	}
	fail := func(err error, msg, section string) {
		uc.log.Error().Err(err).Str("company_id", f.CompanyID).Str("section", section).Msg("consulta del resumen de reportes fallida")
		out.Errors = append(out.Errors, msg)
	}

	list, err := uc.reports.ListReports(ctx, f)
	if err != nil {
		fail(err, errSummaryReports, "reports")
		list = nil
	}
	byCategory, err := uc.analyticsRepo.ItemSummary(ctx, f, repository.GroupByCategory)
	if err != nil {
		fail(err, errSummaryCategory, "by_category")
		byCategory = nil
	}
	byPayment, err := uc.analyticsRepo.ItemSummary(ctx, f, repository.GroupByPaymentMethod)
	if err != nil {
		fail(err, errSummaryPayment, "by_payment_method")
		byPayment = nil
	}

	out.Reports = expense.ToReportList(list)
	out.ByCategory = toSeries(byCategory)
	out.ByPayment = toSeries(byPayment)
	for _, r := range list {
		out.TotalClaimed = out.TotalClaimed.Add(r.TotalAmount)
		out.TotalApproved = out.TotalApproved.Add(r.ApprovedAmount)
		out.CountByStatus[r.Status]++
	}
	return out, nil
}
