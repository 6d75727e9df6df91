package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora de auditoría. Solo INSERT y SELECT; la tabla además rechaza UPDATE/DELETE por trigger.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador de auditoría.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Insert agrega una entrada.
func (r *AuditLogRepo) Insert(ctx context.Context, l *entity.AuditLog) error {
	const query = `
	INSERT INTO audit_logs (id, company_id, user_id, action_type, target_type, target_id, message, ip_address, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, nullIfEmpty(l.CompanyID), nullIfEmpty(l.UserID), l.ActionType, l.TargetType, l.TargetID,
		l.Message, l.IPAddress, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List últimas entradas de la empresa con el nombre del usuario.
func (r *AuditLogRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	const query = `
	SELECT a.id, a.company_id, a.user_id, COALESCE(u.full_name, 'System'), a.action_type, a.target_type,
	       a.target_id, a.message, a.ip_address, a.created_at
	FROM audit_logs a
	LEFT JOIN users u ON u.id = a.user_id
	WHERE a.company_id = $1
	  AND ($2::text IS NULL OR a.action_type = $2::text)
	  AND ($3::uuid IS NULL OR a.user_id = $3::uuid)
	ORDER BY a.created_at DESC
	LIMIT $4`
	rows, err := r.q.Query(ctx, query, f.CompanyID, nullIfEmpty(f.ActionType), nullIfEmpty(f.UserID), f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var (
			l                 entity.AuditLog
			companyID, userID *string
		)
		if err := rows.Scan(&l.ID, &companyID, &userID, &l.UserName, &l.ActionType, &l.TargetType,
			&l.TargetID, &l.Message, &l.IPAddress, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		l.CompanyID = derefString(companyID)
		l.UserID = derefString(userID)
		list = append(list, &l)
	}
	return list, rows.Err()
}
