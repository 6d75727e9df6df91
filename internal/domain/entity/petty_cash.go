package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja menor.
const (
	PettyCashInitial = "initial"
	PettyCashTopUp   = "top_up"
	PettyCashExpense = "expense"
)

// PettyCashWallet billetera de caja menor; una por usuario y empresa.
type PettyCashWallet struct {
	ID             string
	CompanyID      string
	UserID         string
	CurrentBalance decimal.Decimal
	LastUpdated    time.Time
	UserName       string // solo lectura
}

// PettyCashTransaction movimiento de una billetera. Amount siempre positivo; el tipo define el signo.
type PettyCashTransaction struct {
	ID                   string
	WalletID             string
	TransactionType      string
	Amount               decimal.Decimal
	Description          string
	RelatedExpenseItemID string
	ProcessedByUserID    string
	TransactionDate      time.Time
}

// Signed monto con signo según el tipo de movimiento.
func (t PettyCashTransaction) Signed() decimal.Decimal {
	if t.TransactionType == PettyCashExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
