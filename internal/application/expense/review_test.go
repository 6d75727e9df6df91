package expense_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/expense"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

var (
	approver   = entity.Actor{UserID: "appr-1", CompanyID: "c-1", Roles: []string{"approver"}}
	accountant = entity.Actor{UserID: "acc-1", CompanyID: "c-1", Roles: []string{"accounts"}}
	admin      = entity.Actor{UserID: "adm-1", CompanyID: "c-1", Roles: []string{"admin"}}
)

func (e *env) review() *expense.ReviewUseCase {
	return expense.NewReviewUseCase(e.reports, e.tx, e.rec, e.obs)
}

func pending(status string) *entity.ExpenseReport {
	return &entity.ExpenseReport{
		ID: "r-1", CompanyID: "c-1", UserID: "emp-1", ApproverID: "appr-1",
		Status: status, TotalAmount: dec("150"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Bandeja
// ──────────────────────────────────────────────────────────────────────────────

func TestQueue_PorRol(t *testing.T) {
	e := newEnv()
	e.reports.On("ListReviewQueue", mock.Anything, repository.ReviewQueueFilter{
		CompanyID: "c-1", Statuses: []string{entity.StatusPendingApproval}, ApproverID: "appr-1",
	}).Return([]*entity.ExpenseReport{pending(entity.StatusPendingApproval)}, nil).Once()
	e.reports.On("ListReviewQueue", mock.Anything, repository.ReviewQueueFilter{
		CompanyID: "c-1", Statuses: []string{entity.StatusPendingVerification},
	}).Return([]*entity.ExpenseReport{}, nil).Once()

	out, err := e.review().Queue(context.Background(), approver)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	out, err = e.review().Queue(context.Background(), accountant)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = e.review().Queue(context.Background(), employee)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	e.reports.AssertExpectations(t)
}

func TestQueue_PlataformaSinEmpresa(t *testing.T) {
	e := newEnv()
	e.reports.On("ListReviewQueue", mock.Anything, mock.MatchedBy(func(f repository.ReviewQueueFilter) bool {
		return f.CompanyID == "" && len(f.Statuses) == 5 && f.ApproverID == ""
	})).Return([]*entity.ExpenseReport{}, nil).Once()

	_, err := e.review().Queue(context.Background(), entity.Actor{UserID: "p-1", Roles: []string{"platform_admin"}})
	require.NoError(t, err)
	e.reports.AssertExpectations(t)
}

func TestQueue_ReportesDeLaBandejaSonDecidibles(t *testing.T) {
	// El empleado ahora tiene otro aprobador; el reporte conserva el asignado al enviarlo.
	e := newEnv()
	r := pending(entity.StatusPendingApproval)
	e.reports.On("ListReviewQueue", mock.Anything, mock.MatchedBy(func(f repository.ReviewQueueFilter) bool {
		return f.ApproverID == approver.UserID
	})).Return([]*entity.ExpenseReport{r}, nil).Once()
	e.reports.On("GetReport", mock.Anything, "c-1", "r-1").Return(r, nil)
	e.reports.On("ListItems", mock.Anything, "r-1").Return([]entity.ExpenseItem{}, nil)
	e.reports.On("ApplyDecision", mock.Anything, mock.Anything).Return(true, nil).Once()

	queue, err := e.review().Queue(context.Background(), approver)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	_, err = e.review().GetForReview(context.Background(), approver, queue[0].ID)
	require.NoError(t, err, "lo que aparece en la bandeja se puede abrir")
	_, err = e.review().ApproverDecision(context.Background(), approver, queue[0].ID, dto.ReviewDecisionRequest{Action: dto.ActionApprove})
	require.NoError(t, err, "y decidir")

	// Al nuevo aprobador del empleado no se le permite abrirlo.
	nuevo := entity.Actor{UserID: "appr-2", CompanyID: "c-1", Roles: []string{"approver"}}
	_, err = e.review().GetForReview(context.Background(), nuevo, "r-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	e.reports.AssertExpectations(t)
}

func TestGetForReview_AprobadorAjenoNoVe(t *testing.T) {
	e := newEnv()
	r := pending(entity.StatusPendingApproval)
	r.ApproverID = "otro"
	e.reports.On("GetReport", mock.Anything, "c-1", "r-1").Return(r, nil)

	_, err := e.review().GetForReview(context.Background(), approver, "r-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Nivel 1
// ──────────────────────────────────────────────────────────────────────────────

func TestApproverDecision_Aprobar(t *testing.T) {
	e := newEnv()
	e.reports.On("GetReport", mock.Anything, "c-1", "r-1").Return(pending(entity.StatusPendingApproval), nil)
	e.reports.On("ApplyDecision", mock.Anything, mock.MatchedBy(func(d repository.Decision) bool {
		return d.FromStatus == entity.StatusPendingApproval && d.ToStatus == entity.StatusPendingVerification &&
			d.ApprovedAmount.Equal(dec("150")) && !d.SetApprovedAt
	})).Return(true, nil).Once()

	out, err := e.review().ApproverDecision(context.Background(), approver, "r-1", dto.ReviewDecisionRequest{Action: dto.ActionApprove})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingVerification, out.Status)
	assert.Equal(t, []string{"pending_approval->pending_verification"}, e.obs.transitions)
	assert.Equal(t, []string{"report_approved_l1"}, e.audits.Actions())
}

func TestApproverDecision_RechazoRequiereComentario(t *testing.T) {
	e := newEnv()
	e.reports.On("GetReport", mock.Anything, "c-1", "r-1").Return(pending(entity.StatusPendingApproval), nil)

	_, err := e.review().ApproverDecision(context.Background(), approver, "r-1", dto.ReviewDecisionRequest{Action: dto.ActionReject, Comments: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	e.reports.AssertNotCalled(t, "ApplyDecision", mock.Anything, mock.Anything)
}

func TestApproverDecision_SoloAprobadorAsignado(t *testing.T) {
	e := newEnv()
	r := pending(entity.StatusPendingApproval)
	r.ApproverID = "otro"
	e.reports.On("GetReport", mock.Anything, "c-1", "r-1").Return(r, nil)
	e.reports.On("ApplyDecision", mock.Anything, mock.Anything).Return(true, nil)

	_, err := e.review().ApproverDecision(context.Background(), approver, "r-1", dto.ReviewDecisionRequest{Action: dto.ActionApprove})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Un admin aprueba aunque no sea el asignado.
	_, err = e.review().ApproverDecision(context.Background(), admin, "r-1", dto.ReviewDecisionRequest{Action: dto.ActionApprove})
	assert.NoError(t, err)
}

func TestApproverDecision_NoSeAutoaprueba(t *testing.T) {
	e := newEnv()
	r := pending(entity.StatusPendingApproval)
	r.UserID = "appr-1"
	e.reports.On("GetReport", mock.Anything, "c-1", "r-1").Return(r, nil)

	_, err := e.review().ApproverDecision(context.Background(), approver, "r-1", dto.ReviewDecisionRequest{Action: dto.ActionApprove})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApproverDecision_EstadoEquivocadoYCarrera(t *testing.T) {
	e := newEnv()
	e.reports.On("GetReport", mock.Anything, "c-1", "r-1").Return(pending(entity.StatusPendingVerification), nil)
	_, err := e.review().ApproverDecision(context.Background(), approver, "r-1", dto.ReviewDecisionRequest{Action: dto.ActionApprove})
	assert.ErrorIs(t, err, domain.ErrConflict)

	e2 := newEnv()
	e2.reports.On("GetReport", mock.Anything, "c-1", "r-1").Return(pending(entity.StatusPendingApproval), nil)
	e2.reports.On("ApplyDecision", mock.Anything, mock.Anything).Return(false, nil)
	_, err = e2.review().ApproverDecision(context.Background(), approver, "r-1", dto.ReviewDecisionRequest{Action: dto.ActionApprove})
	assert.ErrorIs(t, err, domain.ErrConflict, "otro revisor ganó la carrera")
	assert.Empty(t, e2.audits.Actions())
}

// ──────────────────────────────────────────────────────────────────────────────
// Nivel 2 y caja menor
// ──────────────────────────────────────────────────────────────────────────────

func TestAccountsDecision_MontoPositivo(t *testing.T) {
	e := newEnv()
	e.reports.On("GetReport", mock.Anything, "c-1", "r-1").Return(pending(entity.StatusPendingVerification), nil)

	_, err := e.review().AccountsDecision(context.Background(), accountant, "r-1", dto.ReviewDecisionRequest{Action: dto.ActionApprove})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAccountsDecision_AprobadorNoPuede(t *testing.T) {
	e := newEnv()
	_, err := e.review().AccountsDecision(context.Background(), approver, "r-1", dto.ReviewDecisionRequest{Action: dto.ActionApprove})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAccountsDecision_DescuentaCajaMenor(t *testing.T) {
	e := newEnv()
	e.reports.On("GetReport", mock.Anything, "c-1", "r-1").Return(pending(entity.StatusPendingVerification), nil)
	e.reports.On("ListItems", mock.Anything, "r-1").Return([]entity.ExpenseItem{
		{ID: "i1", Amount: dec("30"), PaymentMethod: entity.PaymentPettyCash, Description: "taxi"},
		{ID: "i2", Amount: dec("100"), PaymentMethod: entity.PaymentCorpCard},
		{ID: "i3", Amount: dec("20"), PaymentMethod: entity.PaymentPettyCash, Description: "café"},
	}, nil)
	e.reports.On("ApplyDecision", mock.Anything, mock.MatchedBy(func(d repository.Decision) bool {
		return d.ToStatus == entity.StatusApproved && d.SetApprovedAt && d.ActorID == "acc-1" && d.ApprovedAmount.Equal(dec("140"))
	})).Return(true, nil).Once()
	e.pc.On("GetWalletByUser", mock.Anything, "c-1", "emp-1").Return(&entity.PettyCashWallet{ID: "w-1"}, nil)
	e.pc.On("AdjustBalance", mock.Anything, "w-1", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("-50"))
	})).Return(nil).Once()
	e.pc.On("AddTransaction", mock.Anything, mock.MatchedBy(func(tx *entity.PettyCashTransaction) bool {
		return tx.WalletID == "w-1" && tx.TransactionType == entity.PettyCashExpense && tx.ProcessedByUserID == "acc-1"
	})).Return(nil).Twice()

	out, err := e.review().AccountsDecision(context.Background(), accountant, "r-1", dto.ReviewDecisionRequest{
		Action: dto.ActionApprove, ApprovedAmount: dec("140"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, out.Status)
	assert.True(t, e.tx.Committed)
	e.pc.AssertExpectations(t)
	assert.Equal(t, []string{"report_approved_l2"}, e.audits.Actions())
}

func TestAccountsDecision_SinBilleteraAbortaAprobacion(t *testing.T) {
	e := newEnv()
	e.reports.On("GetReport", mock.Anything, "c-1", "r-1").Return(pending(entity.StatusPendingVerification), nil)
	e.reports.On("ListItems", mock.Anything, "r-1").Return([]entity.ExpenseItem{
		{ID: "i1", Amount: dec("30"), PaymentMethod: entity.PaymentPettyCash},
	}, nil)
	e.reports.On("ApplyDecision", mock.Anything, mock.Anything).Return(true, nil)
	e.pc.On("GetWalletByUser", mock.Anything, "c-1", "emp-1").Return(nil, nil)

	_, err := e.review().AccountsDecision(context.Background(), accountant, "r-1", dto.ReviewDecisionRequest{
		Action: dto.ActionApprove, ApprovedAmount: dec("30"),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, e.tx.RolledBack, "la aprobación se revierte")
	assert.Equal(t, []string{"pc_deduction_failed"}, e.audits.Actions())
	assert.Empty(t, e.obs.transitions)
}

func TestAccountsDecision_Rechazo(t *testing.T) {
	e := newEnv()
	e.reports.On("GetReport", mock.Anything, "c-1", "r-1").Return(pending(entity.StatusPendingVerification), nil)
	e.reports.On("ApplyDecision", mock.Anything, mock.MatchedBy(func(d repository.Decision) bool {
		return d.ToStatus == entity.StatusRejected && d.ApprovedAmount.IsZero() && d.Comments == "sin soporte"
	})).Return(true, nil).Once()

	out, err := e.review().AccountsDecision(context.Background(), accountant, "r-1", dto.ReviewDecisionRequest{
		Action: dto.ActionReject, Comments: "sin soporte",
	})
	require.NoError(t, err)
	assert.Equal(t, "bg-danger", out.StatusBadge)
	assert.Equal(t, []string{"report_rejected_l2"}, e.audits.Actions())
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkPaid_NoSePagaDosVeces(t *testing.T) {
	e := newEnv()
	e.reports.On("MarkPaid", mock.Anything, "c-1", "r-1", mock.Anything).Return(true, nil).Once()
	e.reports.On("MarkPaid", mock.Anything, "c-1", "r-1", mock.Anything).Return(false, nil).Once()
	uc := expense.NewPayoutUseCase(e.reports, e.rec, e.obs)

	require.NoError(t, uc.MarkPaid(context.Background(), accountant, "r-1"))
	assert.ErrorIs(t, uc.MarkPaid(context.Background(), accountant, "r-1"), domain.ErrConflict)

	assert.Equal(t, []string{"report_marked_paid", "report_mark_paid_failed"}, e.audits.Actions())
	assert.Equal(t, []string{"approved->paid"}, e.obs.transitions)
}

func TestListPayouts(t *testing.T) {
	e := newEnv()
	e.reports.On("ListPayouts", mock.Anything, "c-1").Return([]repository.PayoutRow{{
		Report:             *pending(entity.StatusApproved),
		ReimbursementTotal: dec("80"),
		CorporateCardTotal: dec("70"),
	}}, nil)

	out, err := expense.NewPayoutUseCase(e.reports, e.rec, nil).ListPayouts(context.Background(), accountant)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].ReimbursementTotal.Equal(dec("80")))
	assert.Equal(t, "Approved", out[0].Report.StatusLabel)
}
