package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gastos-api/internal/domain/entity"
)

// ReviewQueueFilter selección de la bandeja de revisión.
// CompanyID vacío solo lo usa platform_admin (todas las empresas).
type ReviewQueueFilter struct {
	CompanyID  string
	Statuses   []string
	ApproverID string // si no está vacío, solo reportes enviados con este aprobador (expense_reports.approver_id)
}

// ReportFilter filtros del listado/exportación de reportes (fechas sobre submitted_at).
type ReportFilter struct {
	CompanyID string
	UserID    string
	Status    string
	Start     *time.Time
	End       *time.Time
}

// Decision transición condicionada de un reporte en revisión.
type Decision struct {
	CompanyID      string // vacío = sin filtro de empresa (platform_admin)
	ReportID       string
	FromStatus     string
	ToStatus       string
	ApprovedAmount decimal.Decimal
	Comments       string
	ActorID        string
	SetApprovedAt  bool
}

// PayoutRow reporte aprobado pendiente de pago con totales por medio de pago.
type PayoutRow struct {
	Report             entity.ExpenseReport
	ReimbursementTotal decimal.Decimal // Cash + Personal Card
	CorporateCardTotal decimal.Decimal // Corp Card
}

// ExpenseReportRepository puerto de persistencia de reportes e ítems.
// Las transiciones de estado se aplican con UPDATE ... WHERE status = <actual>; el bool
// indica si alguna fila cambió.
type ExpenseReportRepository interface {
	CreateReport(ctx context.Context, r *entity.ExpenseReport) error
	GetReport(ctx context.Context, companyID, id string) (*entity.ExpenseReport, error)
	ListByUser(ctx context.Context, companyID, userID string) ([]*entity.ExpenseReport, error)
	ListReviewQueue(ctx context.Context, f ReviewQueueFilter) ([]*entity.ExpenseReport, error)
	ListReports(ctx context.Context, f ReportFilter) ([]*entity.ExpenseReport, error)

	ListItems(ctx context.Context, reportID string) ([]entity.ExpenseItem, error)
	AddItem(ctx context.Context, item *entity.ExpenseItem) error
	DeleteItem(ctx context.Context, reportID, itemID string) (bool, error)

	Submit(ctx context.Context, reportID string, total decimal.Decimal, approverID string, at time.Time) (bool, error)
	ApplyDecision(ctx context.Context, d Decision) (bool, error)
	MarkRead(ctx context.Context, companyID, userID, reportID string) error

	ListPayouts(ctx context.Context, companyID string) ([]PayoutRow, error)
	MarkPaid(ctx context.Context, companyID, reportID string, at time.Time) (bool, error)
}

// ReceiptRepository billetera de comprobantes sin asignar.
type ReceiptRepository interface {
	Create(ctx context.Context, r *entity.Receipt) error
	ListUnassigned(ctx context.Context, companyID, userID string) ([]*entity.Receipt, error)
	// Assign vincula el comprobante si pertenece al usuario y sigue libre; devuelve su URL.
	Assign(ctx context.Context, companyID, userID, receiptID, itemID string) (string, error)
	UnassignItem(ctx context.Context, itemID string) error
}
