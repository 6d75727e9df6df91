package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWalletRequest alta de billetera de caja menor.
type CreateWalletRequest struct {
	UserID         string          `json:"user_id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// AddFundsRequest recarga de una billetera.
type AddFundsRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// WalletResponse billetera.
type WalletResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	UserName       string          `json:"user_name"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	LastUpdated    time.Time       `json:"last_updated"`
}

// PettyCashTxResponse movimiento con saldo corrido.
type PettyCashTxResponse struct {
	ID              string          `json:"id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transaction_date"`
	Balance         decimal.Decimal `json:"balance"`
}

// StatementResponse extracto de caja menor del período.
type StatementResponse struct {
	Wallet         WalletResponse        `json:"wallet"`
	Period         Period                `json:"period"`
	OpeningBalance decimal.Decimal       `json:"opening_balance"`
	ClosingBalance decimal.Decimal       `json:"closing_balance"`
	Transactions   []PettyCashTxResponse `json:"transactions"`
}
