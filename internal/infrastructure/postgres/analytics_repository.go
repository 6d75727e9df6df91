package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Gastos-api/internal/domain/anomaly"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

var (
	_ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)
	_ repository.AnomalyRepository   = (*AnalyticsRepo)(nil)
)

// AnalyticsRepo consultas de solo lectura para dashboards y anomalías. Todas filtran por company_id.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

func (r *AnalyticsRepo) labeled(ctx context.Context, op, query string, args ...any) ([]repository.LabeledTotal, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.%s: %w", op, err)
	}
	defer rows.Close()

	var results []repository.LabeledTotal
	for rows.Next() {
		var row repository.LabeledTotal
		if err := rows.Scan(&row.Label, &row.Total, &row.Count); err != nil {
			return nil, fmt.Errorf("analytics.%s scan: %w", op, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TotalsByCategory suma de ítems por categoría en reportes approved/paid.
func (r *AnalyticsRepo) TotalsByCategory(ctx context.Context, companyID string, start, end time.Time) ([]repository.LabeledTotal, error) {
	const query = `
	SELECT i.category, SUM(i.amount), COUNT(*)
	FROM expense_items i
	JOIN expense_reports r ON r.id = i.report_id
	WHERE r.company_id = $1
	  AND r.status IN ('approved', 'paid')
	  AND i.item_date BETWEEN $2::date AND $3::date
	GROUP BY i.category
	ORDER BY SUM(i.amount) DESC`
	return r.labeled(ctx, "TotalsByCategory", query, companyID, start, end)
}

// totalsByDepartmentQuery empleados sin departamento quedan fuera del gráfico.
const totalsByDepartmentQuery = `
	SELECT u.department, SUM(r.approved_amount), COUNT(*)
	FROM expense_reports r
	JOIN users u ON u.id = r.user_id
	WHERE r.company_id = $1
	  AND r.status IN ('approved', 'paid')
	  AND r.approved_at BETWEEN $2 AND $3
	  AND COALESCE(u.department, '') <> ''
	GROUP BY u.department
	ORDER BY 2 DESC`

// TotalsByDepartment suma de approved_amount por departamento del empleado.
func (r *AnalyticsRepo) TotalsByDepartment(ctx context.Context, companyID string, start, end time.Time) ([]repository.LabeledTotal, error) {
	return r.labeled(ctx, "TotalsByDepartment", totalsByDepartmentQuery, companyID, start, end)
}

// TotalsByPaymentMethod suma de ítems por medio de pago en reportes approved/paid.
func (r *AnalyticsRepo) TotalsByPaymentMethod(ctx context.Context, companyID string, start, end time.Time) ([]repository.LabeledTotal, error) {
	const query = `
	SELECT i.payment_method, SUM(i.amount), COUNT(*)
	FROM expense_items i
	JOIN expense_reports r ON r.id = i.report_id
	WHERE r.company_id = $1
	  AND r.status IN ('approved', 'paid')
	  AND i.item_date BETWEEN $2::date AND $3::date
	GROUP BY i.payment_method
	ORDER BY 2 DESC`
	return r.labeled(ctx, "TotalsByPaymentMethod", query, companyID, start, end)
}

// MonthlyPaid totales pagados por mes de los últimos months meses, ascendente.
func (r *AnalyticsRepo) MonthlyPaid(ctx context.Context, companyID string, months int) ([]repository.LabeledTotal, error) {
	const query = `
	SELECT to_char(date_trunc('month', r.paid_at), 'YYYY-MM') AS month, SUM(r.approved_amount), COUNT(*)
	FROM expense_reports r
	WHERE r.company_id = $1
	  AND r.status = 'paid'
	  AND r.paid_at >= date_trunc('month', now()) - make_interval(months => $2 - 1)
	GROUP BY 1
	ORDER BY 1`
	return r.labeled(ctx, "MonthlyPaid", query, companyID, months)
}

// StatusCounts número de reportes y monto reclamado por estado.
func (r *AnalyticsRepo) StatusCounts(ctx context.Context, companyID string) ([]repository.LabeledTotal, error) {
	const query = `
	SELECT status, COALESCE(SUM(total_amount), 0), COUNT(*)
	FROM expense_reports
	WHERE company_id = $1
	GROUP BY status
	ORDER BY status`
	return r.labeled(ctx, "StatusCounts", query, companyID)
}

// ListDepartments departamentos distintos y no vacíos de la empresa.
func (r *AnalyticsRepo) ListDepartments(ctx context.Context, companyID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT department FROM users
		WHERE company_id = $1 AND department <> ''
		ORDER BY department`, companyID)
	if err != nil {
		return nil, fmt.Errorf("analytics.ListDepartments: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("analytics.ListDepartments scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ItemSummary suma de ítems de los reportes filtrados agrupada por categoría o medio de pago.
func (r *AnalyticsRepo) ItemSummary(ctx context.Context, f repository.ReportFilter, groupBy string) ([]repository.LabeledTotal, error) {
	if groupBy != repository.GroupByCategory && groupBy != repository.GroupByPaymentMethod {
		return nil, fmt.Errorf("analytics.ItemSummary: agrupación no soportada %q", groupBy)
	}
	query := `
	SELECT i.` + groupBy + `, SUM(i.amount), COUNT(*)
	FROM expense_items i
	JOIN expense_reports r ON r.id = i.report_id
	WHERE r.company_id = $1
	  AND r.status <> 'draft'
	  AND ($2::uuid IS NULL OR r.user_id = $2::uuid)
	  AND ($3::text IS NULL OR r.status = $3::text)
	  AND ($4::timestamptz IS NULL OR r.submitted_at >= $4::timestamptz)
	  AND ($5::timestamptz IS NULL OR r.submitted_at <= $5::timestamptz)
	GROUP BY 1
	ORDER BY 2 DESC`
	return r.labeled(ctx, "ItemSummary", query, f.CompanyID, nullIfEmpty(f.UserID), nullIfEmpty(f.Status), f.Start, f.End)
}

// ── Anomalías ─────────────────────────────────────────────────────────────────

// ListCandidates ítems de reportes approved/paid con fecha de ítem en el período.
func (r *AnalyticsRepo) ListCandidates(ctx context.Context, f repository.AnomalyFilter) ([]anomaly.Candidate, error) {
	const query = `
	SELECT i.id, i.report_id, i.item_date, u.full_name, u.department, i.category,
	       COALESCE(i.description, ''), i.amount
	FROM expense_items i
	JOIN expense_reports r ON r.id = i.report_id
	JOIN users u ON u.id = r.user_id
	WHERE r.company_id = $1
	  AND r.status IN ('approved', 'paid')
	  AND i.item_date BETWEEN $2::date AND $3::date
	  AND ($4::text IS NULL OR u.department = $4::text)`
	rows, err := r.q.Query(ctx, query, f.CompanyID, f.Start, f.End, nullIfEmpty(f.Department))
	if err != nil {
		return nil, fmt.Errorf("analytics.ListCandidates: %w", err)
	}
	defer rows.Close()

	var out []anomaly.Candidate
	for rows.Next() {
		var c anomaly.Candidate
		if err := rows.Scan(&c.ItemID, &c.ReportID, &c.ItemDate, &c.EmployeeName, &c.Department,
			&c.Category, &c.Description, &c.Amount); err != nil {
			return nil, fmt.Errorf("analytics.ListCandidates scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CategoryStats media y σ poblacional por categoría sobre todo el histórico approved/paid de la empresa.
func (r *AnalyticsRepo) CategoryStats(ctx context.Context, companyID string) (map[string]anomaly.CategoryStats, error) {
	const query = `
	SELECT i.category, AVG(i.amount), COALESCE(STDDEV_POP(i.amount), 0), COUNT(*)
	FROM expense_items i
	JOIN expense_reports r ON r.id = i.report_id
	WHERE r.company_id = $1
	  AND r.status IN ('approved', 'paid')
	GROUP BY i.category`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("analytics.CategoryStats: %w", err)
	}
	defer rows.Close()

	out := make(map[string]anomaly.CategoryStats)
	for rows.Next() {
		var (
			category string
			s        anomaly.CategoryStats
		)
		if err := rows.Scan(&category, &s.Mean, &s.StdDev, &s.Count); err != nil {
			return nil, fmt.Errorf("analytics.CategoryStats scan: %w", err)
		}
		out[category] = s
	}
	return out, rows.Err()
}
