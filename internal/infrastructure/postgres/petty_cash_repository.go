package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

var _ repository.PettyCashRepository = (*PettyCashRepo)(nil)

// PettyCashRepo billeteras de caja menor sobre PostgreSQL.
type PettyCashRepo struct {
	q Querier
}

// NewPettyCashRepository construye el adaptador de caja menor.
func NewPettyCashRepository(q Querier) *PettyCashRepo {
	return &PettyCashRepo{q: q}
}

const walletSelect = `
	SELECT w.id, w.company_id, w.user_id, w.current_balance, w.last_updated, u.full_name
	FROM petty_cash_wallets w
	JOIN users u ON u.id = w.user_id`

func (r *PettyCashRepo) getWallet(ctx context.Context, where string, args ...any) (*entity.PettyCashWallet, error) {
	var w entity.PettyCashWallet
	err := r.q.QueryRow(ctx, walletSelect+" WHERE "+where, args...).
		Scan(&w.ID, &w.CompanyID, &w.UserID, &w.CurrentBalance, &w.LastUpdated, &w.UserName)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

// GetWalletByUser billetera del usuario en la empresa.
func (r *PettyCashRepo) GetWalletByUser(ctx context.Context, companyID, userID string) (*entity.PettyCashWallet, error) {
	return r.getWallet(ctx, "w.company_id = $1 AND w.user_id = $2", companyID, userID)
}

// GetWalletByID billetera por ID dentro de la empresa.
func (r *PettyCashRepo) GetWalletByID(ctx context.Context, companyID, id string) (*entity.PettyCashWallet, error) {
	return r.getWallet(ctx, "w.company_id = $1 AND w.id = $2", companyID, id)
}

// ListWallets billeteras de la empresa por nombre del titular.
func (r *PettyCashRepo) ListWallets(ctx context.Context, companyID string) ([]*entity.PettyCashWallet, error) {
	rows, err := r.q.Query(ctx, walletSelect+" WHERE w.company_id = $1 ORDER BY u.full_name", companyID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()
	var list []*entity.PettyCashWallet
	for rows.Next() {
		var w entity.PettyCashWallet
		if err := rows.Scan(&w.ID, &w.CompanyID, &w.UserID, &w.CurrentBalance, &w.LastUpdated, &w.UserName); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// CreateWallet inserta la billetera; una por usuario y empresa.
func (r *PettyCashRepo) CreateWallet(ctx context.Context, w *entity.PettyCashWallet) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO petty_cash_wallets (id, company_id, user_id, current_balance, last_updated) VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.CompanyID, w.UserID, w.CurrentBalance, w.LastUpdated,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// AdjustBalance suma delta (negativo para descontar) al saldo.
func (r *PettyCashRepo) AdjustBalance(ctx context.Context, walletID string, delta decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE petty_cash_wallets SET current_balance = current_balance + $2, last_updated = now() WHERE id = $1`,
		walletID, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}

// AddTransaction registra un movimiento.
func (r *PettyCashRepo) AddTransaction(ctx context.Context, t *entity.PettyCashTransaction) error {
	const query = `
	INSERT INTO petty_cash_transactions (id, wallet_id, transaction_type, amount, description,
	                                     related_expense_item_id, processed_by_user_id, transaction_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, t.ID, t.WalletID, t.TransactionType, t.Amount, t.Description,
		nullIfEmpty(t.RelatedExpenseItemID), nullIfEmpty(t.ProcessedByUserID), t.TransactionDate)
	if err != nil {
		return fmt.Errorf("insert petty cash tx: %w", err)
	}
	return nil
}

// BalanceBefore saldo de apertura: suma con signo de movimientos previos a t.
func (r *PettyCashRepo) BalanceBefore(ctx context.Context, walletID string, t time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(CASE WHEN transaction_type = 'expense' THEN -amount ELSE amount END), 0)
	FROM petty_cash_transactions
	WHERE wallet_id = $1 AND transaction_date < $2`
	var bal decimal.Decimal
	if err := r.q.QueryRow(ctx, query, walletID, t).Scan(&bal); err != nil {
		return decimal.Zero, fmt.Errorf("balance before: %w", err)
	}
	return bal, nil
}

// ListTransactions movimientos del período en orden cronológico.
func (r *PettyCashRepo) ListTransactions(ctx context.Context, walletID string, start, end time.Time) ([]*entity.PettyCashTransaction, error) {
	const query = `
	SELECT id, wallet_id, transaction_type, amount, description, related_expense_item_id,
	       processed_by_user_id, transaction_date
	FROM petty_cash_transactions
	WHERE wallet_id = $1 AND transaction_date BETWEEN $2 AND $3
	ORDER BY transaction_date, id`
	rows, err := r.q.Query(ctx, query, walletID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list petty cash tx: %w", err)
	}
	defer rows.Close()
	var list []*entity.PettyCashTransaction
	for rows.Next() {
		var (
			t            entity.PettyCashTransaction
			item, byUser *string
		)
		if err := rows.Scan(&t.ID, &t.WalletID, &t.TransactionType, &t.Amount, &t.Description,
			&item, &byUser, &t.TransactionDate); err != nil {
			return nil, fmt.Errorf("scan petty cash tx: %w", err)
		}
		t.RelatedExpenseItemID = derefString(item)
		t.ProcessedByUserID = derefString(byUser)
		list = append(list, &t)
	}
	return list, rows.Err()
}
