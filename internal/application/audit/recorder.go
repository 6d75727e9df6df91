// Package audit registra y consulta la bitácora de acciones del portal.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
	"github.com/jhoicas/Gastos-api/pkg/logger"
)

const (
	// DefaultLimit y MaxLimit del visor de auditoría.
	DefaultLimit = 100
	MaxLimit     = 100
)

// Entry acción a registrar. CompanyID vacío toma la empresa del actor salvo que Platform sea true
// (acciones de plataforma, sin empresa).
type Entry struct {
	CompanyID  string
	Platform   bool
	ActionType string
	TargetType string
	TargetID   string
	Message    string
}

// Observer contador de eventos de auditoría (Prometheus en producción).
type Observer interface {
	ObserveAudit(actionType string, ok bool)
}

// Recorder escribe entradas de auditoría sin propagar errores al caso de uso que la invoca.
type Recorder struct {
	repo repository.AuditLogRepository
	obs  Observer
	log  *logger.Logger
	now  func() time.Time
}

// NewRecorder construye el recorder. obs y log pueden ser nil.
func NewRecorder(repo repository.AuditLogRepository, obs Observer, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{repo: repo, obs: obs, log: log.Component("audit"), now: time.Now}
}

// Record inserta la entrada. Un fallo se registra en el log y se descarta.
func (r *Recorder) Record(ctx context.Context, actor entity.Actor, e Entry) {
	if r == nil {
		return
	}
	companyID := e.CompanyID
	if companyID == "" && !e.Platform {
		companyID = actor.CompanyID
	}
	l := &entity.AuditLog{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		UserID:     actor.UserID,
		ActionType: e.ActionType,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Message:    e.Message,
		IPAddress:  actor.IP,
		CreatedAt:  r.now(),
	}
	err := r.repo.Insert(ctx, l)
	if r.obs != nil {
		r.obs.ObserveAudit(e.ActionType, err == nil)
	}
	if err != nil {
		r.log.Error().Err(err).
			Str("action_type", e.ActionType).
			Str("target_id", e.TargetID).
			Str("user_id", actor.UserID).
			Msg("no se pudo registrar auditoría")
	}
}

// ListRecent últimas entradas de la empresa del actor, más recientes primero.
func (r *Recorder) ListRecent(ctx context.Context, actor entity.Actor, q dto.AuditQuery) ([]dto.AuditLogResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	logs, err := r.repo.List(ctx, repository.AuditFilter{
		CompanyID:  actor.CompanyID,
		ActionType: q.ActionType,
		UserID:     q.UserID,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.AuditLogResponse{
			ID:         l.ID,
			UserID:     l.UserID,
			UserName:   l.UserName,
			ActionType: l.ActionType,
			TargetType: l.TargetType,
			TargetID:   l.TargetID,
			Message:    l.Message,
			IPAddress:  l.IPAddress,
			CreatedAt:  l.CreatedAt,
		})
	}
	return out, nil
}
