package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReportRequest nuevo reporte en borrador.
type CreateReportRequest struct {
	Title      string `json:"title"`
	ReportType string `json:"report_type"`
	StartDate  string `json:"travel_start_date"`
	EndDate    string `json:"travel_end_date"`
	StoreID    string `json:"store_id"`
}

// AddItemRequest nuevo ítem de un borrador. ReceiptID opcional (comprobante de la billetera).
type AddItemRequest struct {
	ItemDate      string          `json:"item_date"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	ReceiptID     string          `json:"receipt_id"`
}

// ItemResponse ítem de gasto.
type ItemResponse struct {
	ID            string          `json:"id"`
	ItemDate      string          `json:"item_date"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	ReceiptURL    string          `json:"receipt_url,omitempty"`
}

// ReportResponse reporte con su estado legible y, en el detalle, sus ítems.
type ReportResponse struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	ReportType     string          `json:"report_type"`
	StartDate      string          `json:"travel_start_date"`
	EndDate        string          `json:"travel_end_date"`
	Status         string          `json:"status"`
	StatusLabel    string          `json:"status_label"`
	StatusBadge    string          `json:"status_badge"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	AdminComments  string          `json:"admin_comments,omitempty"`
	IsRead         bool            `json:"is_read"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	Department     string          `json:"department,omitempty"`
	StoreName      string          `json:"store_name,omitempty"`
	CompanyID      string          `json:"company_id"`
	CreatedAt      time.Time       `json:"created_at"`
	SubmittedAt    *time.Time      `json:"submitted_at,omitempty"`
	ApprovedAt     *time.Time      `json:"approved_at,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	Items          []ItemResponse  `json:"items,omitempty"`
}

// ReceiptResponse comprobante de la billetera.
type ReceiptResponse struct {
	ID         string    `json:"id"`
	ReceiptURL string    `json:"receipt_url"`
	Notes      string    `json:"notes"`
	UploadedAt time.Time `json:"uploaded_at"`
}
