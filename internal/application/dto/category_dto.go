package dto

import "time"

// CategoryRequest alta o edición de una categoría.
type CategoryRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

// CategoryResponse categoría de gasto.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CategorySaveResponse categoría guardada más nombres parecidos ya existentes (aviso, no bloquea).
type CategorySaveResponse struct {
	Category CategoryResponse `json:"category"`
	Similar  []string         `json:"similar,omitempty"`
}
