package expense

import (
	"context"
	"time"

	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

// PayoutUseCase pagos de reportes aprobados.
type PayoutUseCase struct {
	reports repository.ExpenseReportRepository
	audit   *audit.Recorder
	obs     TransitionObserver
	now     func() time.Time
}

// NewPayoutUseCase construye el caso de uso. obs puede ser nil.
func NewPayoutUseCase(reports repository.ExpenseReportRepository, rec *audit.Recorder, obs TransitionObserver) *PayoutUseCase {
	if obs == nil {
		obs = nopObserver{}
	}
	return &PayoutUseCase{reports: reports, audit: rec, obs: obs, now: time.Now}
}

// ListPayouts reportes aprobados pendientes de pago, el más antiguo primero.
func (uc *PayoutUseCase) ListPayouts(ctx context.Context, actor entity.Actor) ([]dto.PayoutResponse, error) {
	rows, err := uc.reports.ListPayouts(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PayoutResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.PayoutResponse{
			Report:             ToReportResponse(&rows[i].Report, nil),
			ReimbursementTotal: rows[i].ReimbursementTotal,
			CorporateCardTotal: rows[i].CorporateCardTotal,
		})
	}
	return out, nil
}

// MarkPaid approved -> paid. Un reporte inexistente, no aprobado o ya pagado es un conflicto.
func (uc *PayoutUseCase) MarkPaid(ctx context.Context, actor entity.Actor, reportID string) error {
	ok, err := uc.reports.MarkPaid(ctx, actor.CompanyID, reportID, uc.now())
	if err == nil && !ok {
		err = domain.Conflict("el reporte no existe, no está aprobado o ya fue pagado")
	}
	if err != nil {
		uc.audit.Record(ctx, actor, audit.Entry{
			ActionType: "report_mark_paid_failed", TargetType: "report", TargetID: reportID,
			Message: "No se pudo marcar como pagado: " + err.Error(),
		})
		return err
	}
	uc.obs.ObserveTransition(entity.StatusApproved, entity.StatusPaid)
	uc.audit.Record(ctx, actor, audit.Entry{
		ActionType: "report_marked_paid", TargetType: "report", TargetID: reportID,
		Message: "Reporte marcado como pagado",
	})
	return nil
}
