package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gastos-api/internal/domain/entity"
)

// PettyCashRepository billeteras de caja menor y sus movimientos.
type PettyCashRepository interface {
	GetWalletByUser(ctx context.Context, companyID, userID string) (*entity.PettyCashWallet, error)
	GetWalletByID(ctx context.Context, companyID, id string) (*entity.PettyCashWallet, error)
	ListWallets(ctx context.Context, companyID string) ([]*entity.PettyCashWallet, error)
	CreateWallet(ctx context.Context, w *entity.PettyCashWallet) error
	AdjustBalance(ctx context.Context, walletID string, delta decimal.Decimal) error
	AddTransaction(ctx context.Context, t *entity.PettyCashTransaction) error
	// BalanceBefore suma con signo de los movimientos anteriores a t.
	BalanceBefore(ctx context.Context, walletID string, t time.Time) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, walletID string, start, end time.Time) ([]*entity.PettyCashTransaction, error)
}
