package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

var _ repository.ExpenseReportRepository = (*ExpenseReportRepo)(nil)

// ExpenseReportRepo reportes e ítems de gasto sobre PostgreSQL.
type ExpenseReportRepo struct {
	q Querier
}

// NewExpenseReportRepository construye el adaptador de reportes.
func NewExpenseReportRepository(q Querier) *ExpenseReportRepo {
	return &ExpenseReportRepo{q: q}
}

const reportSelect = `
	SELECT r.id, r.company_id, r.user_id, r.store_id, r.report_type, r.title,
	       r.travel_start_date, r.travel_end_date, r.status, r.total_amount, r.approved_amount,
	       r.admin_comments, r.approver_id, r.accountant_id, r.is_read, r.created_at,
	       r.submitted_at, r.approved_at, r.paid_at,
	       u.full_name, u.department, COALESCE(s.name, '')`

const reportFrom = `
	FROM expense_reports r
	JOIN users u ON u.id = r.user_id
	LEFT JOIN stores s ON s.id = r.store_id`

func scanReport(row pgx.Row, extra ...any) (*entity.ExpenseReport, error) {
	var (
		r                                entity.ExpenseReport
		storeID, approverID, accountant *string
	)
	dest := []any{
		&r.ID, &r.CompanyID, &r.UserID, &storeID, &r.ReportType, &r.Title,
		&r.TravelStart, &r.TravelEnd, &r.Status, &r.TotalAmount, &r.ApprovedAmount,
		&r.AdminComments, &approverID, &accountant, &r.IsRead, &r.CreatedAt,
		&r.SubmittedAt, &r.ApprovedAt, &r.PaidAt,
		&r.EmployeeName, &r.Department, &r.StoreName,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	r.StoreID = derefString(storeID)
	r.ApproverID = derefString(approverID)
	r.AccountantID = derefString(accountant)
	return &r, nil
}

func (r *ExpenseReportRepo) listReports(ctx context.Context, query string, args ...any) ([]*entity.ExpenseReport, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExpenseReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

// CreateReport inserta un reporte en borrador.
func (r *ExpenseReportRepo) CreateReport(ctx context.Context, rep *entity.ExpenseReport) error {
	const query = `
	INSERT INTO expense_reports (id, company_id, user_id, store_id, report_type, title,
	                             travel_start_date, travel_end_date, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		rep.ID, rep.CompanyID, rep.UserID, nullIfEmpty(rep.StoreID), rep.ReportType, rep.Title,
		dateOnly(rep.TravelStart), dateOnly(rep.TravelEnd), rep.Status, rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetReport obtiene un reporte. companyID vacío no filtra por empresa (platform_admin).
func (r *ExpenseReportRepo) GetReport(ctx context.Context, companyID, id string) (*entity.ExpenseReport, error) {
	query := reportSelect + reportFrom + ` WHERE r.id = $1 AND ($2::uuid IS NULL OR r.company_id = $2::uuid)`
	rep, err := scanReport(r.q.QueryRow(ctx, query, id, nullIfEmpty(companyID)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return rep, nil
}

// ListByUser reportes propios: borradores primero, luego rechazos no leídos, luego los más recientes.
func (r *ExpenseReportRepo) ListByUser(ctx context.Context, companyID, userID string) ([]*entity.ExpenseReport, error) {
	query := reportSelect + reportFrom + `
	WHERE r.company_id = $1 AND r.user_id = $2
	ORDER BY (r.status = 'draft') DESC,
	         (r.status = 'rejected' AND NOT r.is_read) DESC,
	         r.submitted_at DESC NULLS FIRST,
	         r.created_at DESC`
	return r.listReports(ctx, query, companyID, userID)
}

// reviewQueueWhere filtra por el aprobador guardado en el reporte al enviarlo, el mismo campo
// que validan la revisión y la decisión de nivel 1.
const reviewQueueWhere = `
	WHERE ($1::uuid IS NULL OR r.company_id = $1::uuid)
	  AND r.status = ANY($2::text[])
	  AND ($3::uuid IS NULL OR r.approver_id = $3::uuid)
	ORDER BY r.submitted_at ASC NULLS LAST`

// ListReviewQueue bandeja de revisión por estados; los más antiguos primero.
func (r *ExpenseReportRepo) ListReviewQueue(ctx context.Context, f repository.ReviewQueueFilter) ([]*entity.ExpenseReport, error) {
	query := reportSelect + reportFrom + reviewQueueWhere
	return r.listReports(ctx, query, nullIfEmpty(f.CompanyID), f.Statuses, nullIfEmpty(f.ApproverID))
}

// ListReports listado filtrado (exportación y resumen); fechas sobre submitted_at, fin inclusivo.
func (r *ExpenseReportRepo) ListReports(ctx context.Context, f repository.ReportFilter) ([]*entity.ExpenseReport, error) {
	query := reportSelect + reportFrom + `
	WHERE r.company_id = $1
	  AND r.status <> 'draft'
	  AND ($2::uuid IS NULL OR r.user_id = $2::uuid)
	  AND ($3::text IS NULL OR r.status = $3::text)
	  AND ($4::timestamptz IS NULL OR r.submitted_at >= $4::timestamptz)
	  AND ($5::timestamptz IS NULL OR r.submitted_at <= $5::timestamptz)
	ORDER BY r.submitted_at DESC`
	return r.listReports(ctx, query, f.CompanyID, nullIfEmpty(f.UserID), nullIfEmpty(f.Status), f.Start, f.End)
}

// ListItems ítems del reporte por fecha.
func (r *ExpenseReportRepo) ListItems(ctx context.Context, reportID string) ([]entity.ExpenseItem, error) {
	const query = `
	SELECT id, report_id, item_date, category, description, amount, payment_method, receipt_url
	FROM expense_items WHERE report_id = $1 ORDER BY item_date, id`
	rows, err := r.q.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var items []entity.ExpenseItem
	for rows.Next() {
		var it entity.ExpenseItem
		if err := rows.Scan(&it.ID, &it.ReportID, &it.ItemDate, &it.Category, &it.Description,
			&it.Amount, &it.PaymentMethod, &it.ReceiptURL); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddItem inserta un ítem.
func (r *ExpenseReportRepo) AddItem(ctx context.Context, it *entity.ExpenseItem) error {
	const query = `
	INSERT INTO expense_items (id, report_id, item_date, category, description, amount, payment_method, receipt_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, it.ID, it.ReportID, dateOnly(it.ItemDate), it.Category,
		it.Description, it.Amount, it.PaymentMethod, it.ReceiptURL)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// DeleteItem elimina el ítem del reporte.
func (r *ExpenseReportRepo) DeleteItem(ctx context.Context, reportID, itemID string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM expense_items WHERE id = $1 AND report_id = $2`, itemID, reportID)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Submit pasa el borrador a pending_approval; solo afecta filas aún en draft.
func (r *ExpenseReportRepo) Submit(ctx context.Context, reportID string, total decimal.Decimal, approverID string, at time.Time) (bool, error) {
	const query = `
	UPDATE expense_reports
	SET status = 'pending_approval', total_amount = $2, approver_id = $3, submitted_at = $4, is_read = FALSE
	WHERE id = $1 AND status = 'draft'`
	tag, err := r.q.Exec(ctx, query, reportID, total, nullIfEmpty(approverID), at)
	if err != nil {
		return false, fmt.Errorf("submit report: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ApplyDecision aplica una decisión de revisión solo si el reporte sigue en FromStatus.
func (r *ExpenseReportRepo) ApplyDecision(ctx context.Context, d repository.Decision) (bool, error) {
	const query = `
	UPDATE expense_reports
	SET status = $3, approved_amount = $4, admin_comments = $5, accountant_id = $6, is_read = FALSE,
	    approved_at = CASE WHEN $7 THEN now() ELSE approved_at END
	WHERE id = $1 AND status = $2 AND ($8::uuid IS NULL OR company_id = $8::uuid)`
	tag, err := r.q.Exec(ctx, query,
		d.ReportID, d.FromStatus, d.ToStatus, d.ApprovedAmount, d.Comments,
		nullIfEmpty(d.ActorID), d.SetApprovedAt, nullIfEmpty(d.CompanyID),
	)
	if err != nil {
		return false, fmt.Errorf("apply decision: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkRead marca como leída la notificación de rechazo del dueño del reporte.
func (r *ExpenseReportRepo) MarkRead(ctx context.Context, companyID, userID, reportID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE expense_reports SET is_read = TRUE WHERE id = $1 AND user_id = $2 AND company_id = $3`,
		reportID, userID, companyID,
	)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// ListPayouts reportes aprobados de la empresa con totales de reembolso y tarjeta corporativa.
func (r *ExpenseReportRepo) ListPayouts(ctx context.Context, companyID string) ([]repository.PayoutRow, error) {
	query := reportSelect + `,
	       COALESCE(SUM(i.amount) FILTER (WHERE i.payment_method IN ('Cash', 'Personal Card')), 0),
	       COALESCE(SUM(i.amount) FILTER (WHERE i.payment_method = 'Corp Card'), 0)` + reportFrom + `
	LEFT JOIN expense_items i ON i.report_id = r.id
	WHERE r.company_id = $1 AND r.status = 'approved'
	GROUP BY r.id, u.full_name, u.department, s.name
	ORDER BY r.approved_at ASC`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()
	var out []repository.PayoutRow
	for rows.Next() {
		var reimb, corp decimal.Decimal
		rep, err := scanReport(rows, &reimb, &corp)
		if err != nil {
			return nil, fmt.Errorf("scan payout: %w", err)
		}
		out = append(out, repository.PayoutRow{Report: *rep, ReimbursementTotal: reimb, CorporateCardTotal: corp})
	}
	return out, rows.Err()
}

// MarkPaid approved -> paid. Un segundo intento no afecta filas.
func (r *ExpenseReportRepo) MarkPaid(ctx context.Context, companyID, reportID string, at time.Time) (bool, error) {
	const query = `
	UPDATE expense_reports SET status = 'paid', paid_at = $3
	WHERE id = $2 AND status = 'approved' AND company_id = $1`
	tag, err := r.q.Exec(ctx, query, companyID, reportID, at)
	if err != nil {
		return false, fmt.Errorf("mark paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
