package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain/anomaly"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
	"github.com/jhoicas/Gastos-api/pkg/logger"
)

// AnomalyObserver recibe el número de ítems marcados por razón vigente.
type AnomalyObserver interface {
	ObserveAnomalies(byReason map[string]int)
}

// Mensajes de la lista errors cuando una fuente de datos falla.
const (
	errCandidates = "No se pudieron consultar los ítems del período; no se evaluó ninguna regla."
	errStats      = "No se pudieron calcular las estadísticas por categoría; se omitió la regla High Value."
)

// AnomalyUseCase reporte de detección de anomalías.
//
// El reporte nunca falla por errores de datos: cada fuente que falla deshabilita
// las reglas que dependen de ella y agrega un mensaje a Errors.
type AnomalyUseCase struct {
	anomalies     repository.AnomalyRepository
	analyticsRepo repository.AnalyticsRepository
	obs           AnomalyObserver
	log           *logger.Logger
	now           func() time.Time
}

// NewAnomalyUseCase construye el caso de uso. obs y log pueden ser nil.
func NewAnomalyUseCase(anomalies repository.AnomalyRepository, analyticsRepo repository.AnalyticsRepository, obs AnomalyObserver, log *logger.Logger) *AnomalyUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AnomalyUseCase{
		anomalies:     anomalies,
		analyticsRepo: analyticsRepo,
		obs:           obs,
		log:           log.Component("anomalies"),
		now:           time.Now,
	}
}

// Report evalúa High Value, Vague Description y Weekend Spending sobre el período.
// Solo devuelve error si el período es inválido.
func (uc *AnomalyUseCase) Report(ctx context.Context, actor entity.Actor, q dto.AnomalyQuery) (*dto.AnomalyReportResponse, error) {
	period, err := ResolvePeriod(q.Start, q.End, uc.now())
	if err != nil {
		return nil, err
	}
	filter := repository.AnomalyFilter{
		CompanyID:  actor.CompanyID,
		Start:      period.Start,
		End:        period.End,
		Department: strings.TrimSpace(q.Department),
	}

	// ── Consultas en paralelo ──────────────────────────────────────────────────
	type candidatesResult struct {
		list []anomaly.Candidate
		err  error
	}
	type statsResult struct {
		stats map[string]anomaly.CategoryStats
		err   error
	}
	type departmentsResult struct {
		list []string
		err  error
	}
	candCh := make(chan candidatesResult, 1)
	statsCh := make(chan statsResult, 1)
	deptCh := make(chan departmentsResult, 1)

	go func() {
		list, err := uc.anomalies.ListCandidates(ctx, filter)
		candCh <- candidatesResult{list, err}
	}()
	go func() {
		stats, err := uc.anomalies.CategoryStats(ctx, actor.CompanyID)
		statsCh <- statsResult{stats, err}
	}()
	go func() {
		list, err := uc.analyticsRepo.ListDepartments(ctx, actor.CompanyID)
		deptCh <- departmentsResult{list, err}
	}()

	cand, stats, dept := <-candCh, <-statsCh, <-deptCh

	out := &dto.AnomalyReportResponse{
		Period:      period,
		Department:  filter.Department,
		Items:       []dto.AnomalyItem{},
		Departments: dept.list,
	}
	if out.Departments == nil {
		out.Departments = []string{}
	}
	if dept.err != nil {
		uc.log.Warn().Err(dept.err).Str("company_id", actor.CompanyID).Msg("no se pudieron listar departamentos")
	}

	if cand.err != nil {
		uc.log.Error().Err(cand.err).Str("company_id", actor.CompanyID).Msg("consulta de candidatos fallida")
		out.Errors = append(out.Errors, errCandidates)
		return out, nil
	}

	// ── Reglas en orden: la última que marca define la razón ─────────────────
	rules := make([]anomaly.Rule, 0, 3)
	if stats.err != nil {
		uc.log.Error().Err(stats.err).Str("company_id", actor.CompanyID).Msg("estadísticas por categoría fallidas")
		out.Errors = append(out.Errors, errStats)
	} else {
		rules = append(rules, anomaly.HighValue(stats.stats))
	}
	rules = append(rules, anomaly.VagueDescription(), anomaly.WeekendSpending())

	flags := anomaly.Detect(cand.list, rules)
	byReason := make(map[string]int)
	for _, f := range flags {
		byReason[f.Reason]++
		out.Items = append(out.Items, dto.AnomalyItem{
			ItemID:       f.ItemID,
			ReportID:     f.ReportID,
			ItemDate:     f.ItemDate,
			EmployeeName: f.EmployeeName,
			Department:   f.Department,
			Category:     f.Category,
			Amount:       f.Amount,
			Description:  f.Description,
			FlagReason:   f.Reason,
			Reasons:      f.Reasons,
		})
	}
	if uc.obs != nil {
		uc.obs.ObserveAnomalies(byReason)
	}
	return out, nil
}
