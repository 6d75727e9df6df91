package repository

import (
	"context"

	"github.com/jhoicas/Gastos-api/internal/domain/entity"
)

// AuditFilter filtros del visor de auditoría.
type AuditFilter struct {
	CompanyID  string
	ActionType string
	UserID     string
	Limit      int
}

// AuditLogRepository bitácora de solo inserción: no expone update ni delete.
type AuditLogRepository interface {
	Insert(ctx context.Context, l *entity.AuditLog) error
	List(ctx context.Context, f AuditFilter) ([]*entity.AuditLog, error)
}
