package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gastos-api/internal/domain/anomaly"
)

// LabeledTotal fila agregada etiqueta -> monto.
type LabeledTotal struct {
	Label string
	Total decimal.Decimal
	Count int
}

// AnalyticsRepository consultas de solo lectura para dashboards. Todas filtran por empresa.
type AnalyticsRepository interface {
	// TotalsByCategory suma de ítems de reportes approved/paid con fecha de ítem en el rango.
	TotalsByCategory(ctx context.Context, companyID string, start, end time.Time) ([]LabeledTotal, error)
	// TotalsByDepartment suma approved_amount de reportes approved/paid aprobados en el rango.
	TotalsByDepartment(ctx context.Context, companyID string, start, end time.Time) ([]LabeledTotal, error)
	TotalsByPaymentMethod(ctx context.Context, companyID string, start, end time.Time) ([]LabeledTotal, error)
	// MonthlyPaid totales pagados por mes ("2006-01") de los últimos months meses, ascendente.
	MonthlyPaid(ctx context.Context, companyID string, months int) ([]LabeledTotal, error)
	StatusCounts(ctx context.Context, companyID string) ([]LabeledTotal, error)
	ListDepartments(ctx context.Context, companyID string) ([]string, error)
	// ItemSummary suma de ítems de los reportes que cumplen el filtro, agrupada por
	// "category" o "payment_method".
	ItemSummary(ctx context.Context, f ReportFilter, groupBy string) ([]LabeledTotal, error)
}

// Columnas válidas de agrupación para ItemSummary.
const (
	GroupByCategory      = "category"
	GroupByPaymentMethod = "payment_method"
)

// AnomalyFilter período y departamento opcional del reporte de anomalías.
type AnomalyFilter struct {
	CompanyID  string
	Start      time.Time
	End        time.Time
	Department string
}

// AnomalyRepository fuentes de datos de las reglas de anomalías.
type AnomalyRepository interface {
	// ListCandidates ítems de reportes approved/paid de la empresa dentro del período.
	ListCandidates(ctx context.Context, f AnomalyFilter) ([]anomaly.Candidate, error)
	// CategoryStats media y σ poblacional por categoría sobre todos los ítems approved/paid de la empresa.
	CategoryStats(ctx context.Context, companyID string) (map[string]anomaly.CategoryStats, error)
}
