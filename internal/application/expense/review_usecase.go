package expense

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

// reviewableStatuses estados visibles para un admin en la bandeja (todo menos borradores).
var reviewableStatuses = []string{
	entity.StatusPendingApproval, entity.StatusPendingVerification,
	entity.StatusApproved, entity.StatusPaid, entity.StatusRejected,
}

// ReviewUseCase revisión en dos niveles: aprobador (L1) y contabilidad (L2).
type ReviewUseCase struct {
	reports repository.ExpenseReportRepository
	tx      repository.TxRunner
	audit   *audit.Recorder
	obs     TransitionObserver
	now     func() time.Time
}

// NewReviewUseCase construye el caso de uso. obs puede ser nil.
func NewReviewUseCase(reports repository.ExpenseReportRepository, tx repository.TxRunner, rec *audit.Recorder, obs TransitionObserver) *ReviewUseCase {
	if obs == nil {
		obs = nopObserver{}
	}
	return &ReviewUseCase{reports: reports, tx: tx, audit: rec, obs: obs, now: time.Now}
}

// Queue bandeja de revisión según los roles del actor. Para platform_admin sin empresa
// seleccionada la bandeja abarca todas las empresas.
func (uc *ReviewUseCase) Queue(ctx context.Context, actor entity.Actor) ([]dto.ReportResponse, error) {
	var filters []repository.ReviewQueueFilter
	switch {
	case actor.Has(entity.RoleAdmin, entity.RolePlatformAdmin):
		filters = append(filters, repository.ReviewQueueFilter{CompanyID: actor.CompanyID, Statuses: reviewableStatuses})
	default:
		if actor.Has(entity.RoleApprover) {
			filters = append(filters, repository.ReviewQueueFilter{
				CompanyID:  actor.CompanyID,
				Statuses:   []string{entity.StatusPendingApproval},
				ApproverID: actor.UserID,
			})
		}
		if actor.Has(entity.RoleAccounts) {
			filters = append(filters, repository.ReviewQueueFilter{
				CompanyID: actor.CompanyID,
				Statuses:  []string{entity.StatusPendingVerification},
			})
		}
	}
	if len(filters) == 0 {
		return nil, domain.ErrForbidden
	}

	var all []*entity.ExpenseReport
	for _, f := range filters {
		list, err := uc.reports.ListReviewQueue(ctx, f)
		if err != nil {
			return nil, err
		}
		all = append(all, list...)
	}
	return ToReportList(all), nil
}

// GetForReview reporte con empleado e ítems, acotado a la empresa del actor.
func (uc *ReviewUseCase) GetForReview(ctx context.Context, actor entity.Actor, reportID string) (*dto.ReportResponse, error) {
	r, err := uc.load(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}
	if !uc.canView(actor, r) {
		return nil, domain.ErrNotFound
	}
	items, err := uc.reports.ListItems(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	out := ToReportResponse(r, items)
	return &out, nil
}

func (uc *ReviewUseCase) load(ctx context.Context, actor entity.Actor, reportID string) (*entity.ExpenseReport, error) {
	r, err := uc.reports.GetReport(ctx, actor.CompanyID, reportID)
	if err != nil {
		return nil, err
	}
	if r == nil || r.Status == entity.StatusDraft {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (uc *ReviewUseCase) canView(actor entity.Actor, r *entity.ExpenseReport) bool {
	if actor.Has(entity.RoleAdmin, entity.RolePlatformAdmin, entity.RoleAccounts) {
		return true
	}
	return actor.Has(entity.RoleApprover) && r.ApproverID == actor.UserID
}

// ApproverDecision L1: pending_approval -> pending_verification | rejected.
func (uc *ReviewUseCase) ApproverDecision(ctx context.Context, actor entity.Actor, reportID string, in dto.ReviewDecisionRequest) (*dto.ReportResponse, error) {
	if !actor.Has(entity.RoleApprover, entity.RoleAdmin, entity.RolePlatformAdmin) {
		return nil, domain.ErrForbidden
	}
	r, err := uc.load(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}
	if r.Status != entity.StatusPendingApproval {
		return nil, domain.Conflict("el reporte no está pendiente de aprobación")
	}
	if !actor.Has(entity.RoleAdmin, entity.RolePlatformAdmin) {
		if r.UserID == actor.UserID || r.ApproverID != actor.UserID {
			return nil, domain.ErrForbidden
		}
	}

	comments := strings.TrimSpace(in.Comments)
	d := repository.Decision{
		CompanyID:  r.CompanyID,
		ReportID:   r.ID,
		FromStatus: entity.StatusPendingApproval,
		Comments:   comments,
	}
	var action, msg string
	switch in.Action {
	case dto.ActionApprove:
		d.ToStatus = entity.StatusPendingVerification
		d.ApprovedAmount = r.TotalAmount
		action, msg = "report_approved_l1", "Reporte aprobado por el aprobador. Enviado a contabilidad."
	case dto.ActionReject:
		if comments == "" {
			return nil, domain.Invalid("el motivo del rechazo es obligatorio")
		}
		d.ToStatus = entity.StatusRejected
		d.ApprovedAmount = decimal.Zero
		action, msg = "report_rejected_l1", "Reporte rechazado por el aprobador. Motivo: "+comments
	default:
		return nil, domain.Invalid("acción inválida")
	}

	ok, err := uc.reports.ApplyDecision(ctx, d)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Conflict("el reporte cambió de estado; recargue e intente de nuevo")
	}
	uc.obs.ObserveTransition(d.FromStatus, d.ToStatus)
	uc.audit.Record(ctx, actor, audit.Entry{
		CompanyID: r.CompanyID, ActionType: action, TargetType: "report", TargetID: r.ID, Message: msg,
	})

	r.Status, r.ApprovedAmount, r.AdminComments = d.ToStatus, d.ApprovedAmount, comments
	out := ToReportResponse(r, nil)
	return &out, nil
}

// AccountsDecision L2: pending_verification -> approved | rejected. Al aprobar, los ítems pagados
// con caja menor se descuentan de la billetera del empleado en la misma transacción.
func (uc *ReviewUseCase) AccountsDecision(ctx context.Context, actor entity.Actor, reportID string, in dto.ReviewDecisionRequest) (*dto.ReportResponse, error) {
	if !actor.Has(entity.RoleAccounts, entity.RoleAdmin, entity.RolePlatformAdmin) {
		return nil, domain.ErrForbidden
	}
	r, err := uc.load(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}
	if r.Status != entity.StatusPendingVerification {
		return nil, domain.Conflict("el reporte no está pendiente de verificación")
	}

	comments := strings.TrimSpace(in.Comments)
	switch in.Action {
	case dto.ActionApprove:
		return uc.approveL2(ctx, actor, r, in.ApprovedAmount, comments)
	case dto.ActionReject:
		if comments == "" {
			return nil, domain.Invalid("el motivo del rechazo es obligatorio")
		}
		d := repository.Decision{
			CompanyID:      r.CompanyID,
			ReportID:       r.ID,
			FromStatus:     entity.StatusPendingVerification,
			ToStatus:       entity.StatusRejected,
			ApprovedAmount: decimal.Zero,
			Comments:       comments,
			ActorID:        actor.UserID,
		}
		ok, err := uc.reports.ApplyDecision(ctx, d)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.Conflict("el reporte cambió de estado; recargue e intente de nuevo")
		}
		uc.obs.ObserveTransition(d.FromStatus, d.ToStatus)
		uc.audit.Record(ctx, actor, audit.Entry{
			CompanyID: r.CompanyID, ActionType: "report_rejected_l2", TargetType: "report", TargetID: r.ID,
			Message: "Reporte rechazado por contabilidad. Motivo: " + comments,
		})
		r.Status, r.ApprovedAmount, r.AdminComments = d.ToStatus, decimal.Zero, comments
		out := ToReportResponse(r, nil)
		return &out, nil
	default:
		return nil, domain.Invalid("acción inválida")
	}
}

func (uc *ReviewUseCase) approveL2(ctx context.Context, actor entity.Actor, r *entity.ExpenseReport, amount decimal.Decimal, comments string) (*dto.ReportResponse, error) {
	if !amount.IsPositive() {
		return nil, domain.Invalid("el monto aprobado debe ser mayor a cero")
	}
	items, err := uc.reports.ListItems(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	pcItems, pcTotal := entity.PettyCashItems(items)

	d := repository.Decision{
		CompanyID:      r.CompanyID,
		ReportID:       r.ID,
		FromStatus:     entity.StatusPendingVerification,
		ToStatus:       entity.StatusApproved,
		ApprovedAmount: amount,
		Comments:       comments,
		ActorID:        actor.UserID,
		SetApprovedAt:  true,
	}
	var pcErr error
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		ok, err := repos.Reports.ApplyDecision(ctx, d)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Conflict("el reporte cambió de estado; recargue e intente de nuevo")
		}
		if len(pcItems) == 0 {
			return nil
		}
		if pcErr = uc.deductPettyCash(ctx, repos.PettyCash, actor, r, pcItems, pcTotal); pcErr != nil {
			return pcErr
		}
		return nil
	})
	if err != nil {
		if pcErr != nil {
			uc.audit.Record(ctx, actor, audit.Entry{
				CompanyID: r.CompanyID, ActionType: "pc_deduction_failed", TargetType: "report", TargetID: r.ID,
				Message: "Falló el descuento de caja menor: " + pcErr.Error(),
			})
			if errors.Is(pcErr, domain.ErrWalletNotFound) {
				return nil, domain.Conflict("se usó caja menor pero el empleado no tiene billetera activa")
			}
		}
		return nil, err
	}

	uc.obs.ObserveTransition(d.FromStatus, d.ToStatus)
	msg := fmt.Sprintf("Reporte verificado y aprobado por contabilidad. Monto final: %s", amount.StringFixed(2))
	if len(pcItems) > 0 {
		msg += fmt.Sprintf(" (descuento de caja menor: %s)", pcTotal.StringFixed(2))
	}
	uc.audit.Record(ctx, actor, audit.Entry{
		CompanyID: r.CompanyID, ActionType: "report_approved_l2", TargetType: "report", TargetID: r.ID, Message: msg,
	})

	now := uc.now()
	r.Status, r.ApprovedAmount, r.AdminComments, r.ApprovedAt, r.AccountantID = d.ToStatus, amount, comments, &now, actor.UserID
	out := ToReportResponse(r, items)
	return &out, nil
}

func (uc *ReviewUseCase) deductPettyCash(ctx context.Context, pc repository.PettyCashRepository, actor entity.Actor,
	r *entity.ExpenseReport, items []entity.ExpenseItem, total decimal.Decimal) error {
	wallet, err := pc.GetWalletByUser(ctx, r.CompanyID, r.UserID)
	if err != nil {
		return err
	}
	if wallet == nil {
		return domain.ErrWalletNotFound
	}
	if err := pc.AdjustBalance(ctx, wallet.ID, total.Neg()); err != nil {
		return err
	}
	now := uc.now()
	for _, it := range items {
		if err := pc.AddTransaction(ctx, &entity.PettyCashTransaction{
			ID:                   uuid.New().String(),
			WalletID:             wallet.ID,
			TransactionType:      entity.PettyCashExpense,
			Amount:               it.Amount,
			Description:          "Ítem de reporte de gastos: " + it.Description,
			RelatedExpenseItemID: it.ID,
			ProcessedByUserID:    actor.UserID,
			TransactionDate:      now,
		}); err != nil {
			return err
		}
	}
	return nil
}
