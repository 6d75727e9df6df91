package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Estados del ciclo de vida de un reporte de gastos.
const (
	StatusDraft               = "draft"
	StatusPendingApproval     = "pending_approval"
	StatusPendingVerification = "pending_verification"
	StatusApproved            = "approved"
	StatusPaid                = "paid"
	StatusRejected            = "rejected"
)

// Medios de pago de un ítem.
const (
	PaymentCash         = "Cash"
	PaymentPersonalCard = "Personal Card"
	PaymentCorpCard     = "Corp Card"
	PaymentPettyCash    = "Petty Cash"
)

// PaymentMethods vocabulario aceptado para ExpenseItem.PaymentMethod.
var PaymentMethods = []string{PaymentCash, PaymentPersonalCard, PaymentCorpCard, PaymentPettyCash}

// transitions estados destino permitidos desde cada estado.
var transitions = map[string][]string{
	StatusDraft:               {StatusPendingApproval},
	StatusPendingApproval:     {StatusPendingVerification, StatusRejected},
	StatusPendingVerification: {StatusApproved, StatusRejected},
	StatusApproved:            {StatusPaid},
}

// CanTransition indica si el ciclo de vida permite pasar de from a to.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidStatus indica si s pertenece al vocabulario de estados.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusPendingVerification, StatusApproved, StatusPaid, StatusRejected:
		return true
	}
	return false
}

// ValidPaymentMethod indica si m pertenece al vocabulario de medios de pago.
func ValidPaymentMethod(m string) bool {
	for _, p := range PaymentMethods {
		if p == m {
			return true
		}
	}
	return false
}

var titleCaser = cases.Title(language.English)

// StatusLabel etiqueta legible: "pending_approval" -> "Pending Approval".
func StatusLabel(status string) string {
	return titleCaser.String(strings.ReplaceAll(status, "_", " "))
}

// StatusBadge clase CSS del badge de estado que consume el front.
func StatusBadge(status string) string {
	switch status {
	case StatusApproved, StatusPaid:
		return "bg-success"
	case StatusRejected:
		return "bg-danger"
	case StatusPendingApproval:
		return "bg-warning text-dark"
	case StatusPendingVerification:
		return "bg-info text-dark"
	default:
		return "bg-secondary"
	}
}

// ExpenseReport reporte de gastos de un empleado.
type ExpenseReport struct {
	ID              string
	CompanyID       string
	UserID          string
	StoreID         string
	ReportType      string
	Title           string
	TravelStart     time.Time
	TravelEnd       time.Time
	Status          string
	TotalAmount     decimal.Decimal
	ApprovedAmount  decimal.Decimal
	AdminComments   string
	ApproverID      string
	AccountantID    string
	IsRead          bool
	CreatedAt       time.Time
	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	PaidAt          *time.Time

	// Datos de lectura unidos desde users/stores.
	EmployeeName string
	Department   string
	StoreName    string
}

// ExpenseItem línea de gasto dentro de un reporte.
type ExpenseItem struct {
	ID            string
	ReportID      string
	ItemDate      time.Time
	Category      string
	Description   string
	Amount        decimal.Decimal
	PaymentMethod string
	ReceiptURL    string
}

// SumItems total de los ítems.
func SumItems(items []ExpenseItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

// PettyCashItems ítems pagados con caja menor y su suma.
func PettyCashItems(items []ExpenseItem) ([]ExpenseItem, decimal.Decimal) {
	var out []ExpenseItem
	total := decimal.Zero
	for _, it := range items {
		if it.PaymentMethod == PaymentPettyCash {
			out = append(out, it)
			total = total.Add(it.Amount)
		}
	}
	return out, total
}

// Receipt comprobante subido a la billetera del empleado, pendiente de asignar a un ítem.
type Receipt struct {
	ID             string
	CompanyID      string
	UserID         string
	ReceiptURL     string
	Notes          string
	AssignedItemID string
	UploadedAt     time.Time
}
