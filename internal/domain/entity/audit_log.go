package entity

import "time"

// AuditLog registro inmutable de una acción relevante.
type AuditLog struct {
	ID         string
	CompanyID  string // vacío para acciones de plataforma
	UserID     string
	UserName   string // solo lectura
	ActionType string
	TargetType string
	TargetID   string
	Message    string
	IPAddress  string
	CreatedAt  time.Time
}
