// Package analytics contiene los casos de uso de dashboards, resúmenes de reportes y el
// reporte de detección de anomalías.
package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
	"github.com/jhoicas/Gastos-api/pkg/logger"
)

// monthlyPaidWindow meses del histórico de pagos en el dashboard.
const monthlyPaidWindow = 12

// Mensajes de la lista errors del dashboard, uno por panel que no se pudo consultar.
const (
	errDashCategory   = "No se pudieron cargar los totales por categoría."
	errDashDepartment = "No se pudieron cargar los totales por departamento."
	errDashPayment    = "No se pudieron cargar los totales por medio de pago."
	errDashMonthly    = "No se pudo cargar el histórico de pagos mensuales."
	errDashStatus     = "No se pudo cargar el conteo por estado."
)

// DashboardUseCase genera las series del dashboard de gastos.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	log           *logger.Logger
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso. log puede ser nil.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{analyticsRepo: analyticsRepo, log: log.Component("dashboard"), now: time.Now}
}

// Dashboard construye las series del período para la empresa del actor.
//
// Cinco consultas en paralelo. Un panel cuya consulta falla queda vacío y agrega un mensaje
// a Errors; solo un período inválido devuelve error.
func (uc *DashboardUseCase) Dashboard(ctx context.Context, actor entity.Actor, q dto.PeriodQuery) (*dto.DashboardResponse, error) {
	period, err := ResolvePeriod(q.Start, q.End, uc.now())
	if err != nil {
		return nil, err
	}
	companyID := actor.CompanyID
	start, end := period.Start, endOfDay(period.End)

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type result struct {
		rows []repository.LabeledTotal
		err  error
	}
	run := func(fn func() ([]repository.LabeledTotal, error)) <-chan result {
		ch := make(chan result, 1)
		go func() {
			rows, err := fn()
			ch <- result{rows, err}
		}()
		return ch
	}

	catCh := run(func() ([]repository.LabeledTotal, error) {
		return uc.analyticsRepo.TotalsByCategory(ctx, companyID, start, end)
	})
	deptCh := run(func() ([]repository.LabeledTotal, error) {
		return uc.analyticsRepo.TotalsByDepartment(ctx, companyID, start, end)
	})
	payCh := run(func() ([]repository.LabeledTotal, error) {
		return uc.analyticsRepo.TotalsByPaymentMethod(ctx, companyID, start, end)
	})
	monthCh := run(func() ([]repository.LabeledTotal, error) {
		return uc.analyticsRepo.MonthlyPaid(ctx, companyID, monthlyPaidWindow)
	})
	statusCh := run(func() ([]repository.LabeledTotal, error) {
		return uc.analyticsRepo.StatusCounts(ctx, companyID)
	})

	cat, dept, pay, month, status := <-catCh, <-deptCh, <-payCh, <-monthCh, <-statusCh

	out := &dto.DashboardResponse{Period: period}
	panel := func(r result, msg, name string) dto.ChartSeries {
		if r.err != nil {
			uc.log.Error().Err(r.err).Str("company_id", companyID).Str("panel", name).Msg("consulta del dashboard fallida")
			out.Errors = append(out.Errors, msg)
			return toSeries(nil)
		}
		return toSeries(r.rows)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out.ByCategory = panel(cat, errDashCategory, "by_category")
	out.ByDepartment = panel(dept, errDashDepartment, "by_department")
	out.ByPaymentMethod = panel(pay, errDashPayment, "by_payment_method")
	out.MonthlyPaid = panel(month, errDashMonthly, "monthly_paid")
	out.ByStatus = panel(status, errDashStatus, "by_status")
	for i, l := range out.ByStatus.Labels {
		out.ByStatus.Labels[i] = entity.StatusLabel(l)
	}
	return out, nil
}

// Departments departamentos distintos de la empresa para el filtro del front.
func (uc *DashboardUseCase) Departments(ctx context.Context, actor entity.Actor) ([]string, error) {
	list, err := uc.analyticsRepo.ListDepartments(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// toSeries convierte filas agregadas en arreglos paralelos; nunca devuelve nil.
func toSeries(rows []repository.LabeledTotal) dto.ChartSeries {
	s := dto.ChartSeries{
		Labels: make([]string, 0, len(rows)),
		Values: make([]decimal.Decimal, 0, len(rows)),
		Counts: make([]int, 0, len(rows)),
	}
	for _, r := range rows {
		s.Labels = append(s.Labels, r.Label)
		s.Values = append(s.Values, r.Total.Round(2))
		s.Counts = append(s.Counts, r.Count)
	}
	return s
}
