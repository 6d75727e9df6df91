package dto

import "github.com/shopspring/decimal"

// Acciones de revisión.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ReviewDecisionRequest decisión del aprobador o de contabilidad.
// ApprovedAmount solo aplica a la aprobación de contabilidad.
type ReviewDecisionRequest struct {
	Action         string          `json:"action"`
	Comments       string          `json:"comments"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
}

// PayoutResponse reporte aprobado pendiente de pago.
type PayoutResponse struct {
	Report             ReportResponse  `json:"report"`
	ReimbursementTotal decimal.Decimal `json:"reimbursement_total"`
	CorporateCardTotal decimal.Decimal `json:"corporate_card_total"`
}
