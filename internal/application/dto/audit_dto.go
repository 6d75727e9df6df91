package dto

import "time"

// AuditQuery filtros del visor de auditoría.
type AuditQuery struct {
	ActionType string `query:"action_type"`
	UserID     string `query:"user_id"`
	Limit      int    `query:"limit"`
}

// AuditLogResponse entrada de auditoría.
type AuditLogResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	UserName   string    `json:"user_name"`
	ActionType string    `json:"action_type"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Message    string    `json:"message"`
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
}
