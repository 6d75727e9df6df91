package dto

import "time"

// DateLayout formato de fechas en query params y cuerpos JSON.
const DateLayout = "2006-01-02"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse confirmación simple de una acción.
type MessageResponse struct {
	Message string `json:"message"`
}

// PeriodQuery rango de fechas opcional (YYYY-MM-DD).
type PeriodQuery struct {
	Start string `query:"start_date"`
	End   string `query:"end_date"`
}

// Period rango aplicado en una respuesta.
type Period struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// ParseDate interpreta una fecha YYYY-MM-DD en UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
