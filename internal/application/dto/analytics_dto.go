package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChartSeries serie para la librería de gráficas del front: etiquetas y valores alineados.
type ChartSeries struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
	Counts []int             `json:"counts"`
}

// DashboardResponse agregados del dashboard de gastos. Errors lista los paneles que quedaron vacíos por un fallo de consulta.
type DashboardResponse struct {
	Period          Period      `json:"period"`
	ByCategory      ChartSeries `json:"by_category"`
	ByDepartment    ChartSeries `json:"by_department"`
	ByPaymentMethod ChartSeries `json:"by_payment_method"`
	MonthlyPaid     ChartSeries `json:"monthly_paid"`
	ByStatus        ChartSeries `json:"by_status"`
	Errors          []string    `json:"errors,omitempty"`
}

// ReportsQuery filtros del listado/exportación de reportes.
type ReportsQuery struct {
	UserID string `query:"user_id"`
	Status string `query:"status"`
	Start  string `query:"start_date"`
	End    string `query:"end_date"`
	Format string `query:"format"`
}

// ReportsSummaryResponse listado filtrado con totales.
type ReportsSummaryResponse struct {
	Reports       []ReportResponse `json:"reports"`
	TotalClaimed  decimal.Decimal  `json:"total_claimed"`
	TotalApproved decimal.Decimal  `json:"total_approved"`
	CountByStatus map[string]int   `json:"count_by_status"`
	ByCategory    ChartSeries      `json:"by_category"`
	ByPayment     ChartSeries      `json:"by_payment_method"`
	Errors        []string         `json:"errors,omitempty"`
}

// AnomalyQuery filtros del reporte de anomalías.
type AnomalyQuery struct {
	Start      string `query:"start_date"`
	End        string `query:"end_date"`
	Department string `query:"department"`
}

// AnomalyItem ítem marcado.
type AnomalyItem struct {
	ItemID       string          `json:"id"`
	ReportID     string          `json:"report_id"`
	ItemDate     time.Time       `json:"item_date"`
	EmployeeName string          `json:"full_name"`
	Department   string          `json:"department,omitempty"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	FlagReason   string          `json:"flag_reason"`
	Reasons      []string        `json:"reasons"`
}

// AnomalyReportResponse resultado del reporte de anomalías. Errors lista las reglas que no pudieron evaluarse.
type AnomalyReportResponse struct {
	Period      Period        `json:"period"`
	Department  string        `json:"department,omitempty"`
	Items       []AnomalyItem `json:"items"`
	Departments []string      `json:"departments"`
	Errors      []string      `json:"errors,omitempty"`
}
