// Package pettycash gestiona las billeteras de caja menor: alta, recargas y extractos.
package pettycash

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gastos-api/internal/application/analytics"
	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

// UseCase casos de uso de caja menor.
type UseCase struct {
	repo  repository.PettyCashRepository
	users repository.UserRepository
	tx    repository.TxRunner
	audit *audit.Recorder
	now   func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.PettyCashRepository, users repository.UserRepository, tx repository.TxRunner, rec *audit.Recorder) *UseCase {
	return &UseCase{repo: repo, users: users, tx: tx, audit: rec, now: time.Now}
}

// ListWallets billeteras de la empresa.
func (uc *UseCase) ListWallets(ctx context.Context, actor entity.Actor) ([]dto.WalletResponse, error) {
	list, err := uc.repo.ListWallets(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WalletResponse, 0, len(list))
	for _, w := range list {
		out = append(out, toWalletResponse(w))
	}
	return out, nil
}

// CreateWallet crea la billetera del usuario. Un saldo inicial positivo queda como movimiento initial.
func (uc *UseCase) CreateWallet(ctx context.Context, actor entity.Actor, in dto.CreateWalletRequest) (*dto.WalletResponse, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, domain.Invalid("user_id es obligatorio")
	}
	if in.InitialBalance.IsNegative() {
		return nil, domain.Invalid("el saldo inicial no puede ser negativo")
	}
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.CompanyID != actor.CompanyID {
		return nil, domain.ErrUserNotFound
	}
	existing, err := uc.repo.GetWalletByUser(ctx, actor.CompanyID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el usuario ya tiene billetera", domain.ErrDuplicate)
	}

	now := uc.now()
	w := &entity.PettyCashWallet{
		ID:             uuid.New().String(),
		CompanyID:      actor.CompanyID,
		UserID:         userID,
		CurrentBalance: in.InitialBalance,
		LastUpdated:    now,
		UserName:       u.FullName,
	}
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.PettyCash.CreateWallet(ctx, w); err != nil {
			return err
		}
		if !in.InitialBalance.IsPositive() {
			return nil
		}
		return repos.PettyCash.AddTransaction(ctx, &entity.PettyCashTransaction{
			ID:                uuid.New().String(),
			WalletID:          w.ID,
			TransactionType:   entity.PettyCashInitial,
			Amount:            in.InitialBalance,
			Description:       "Saldo inicial",
			ProcessedByUserID: actor.UserID,
			TransactionDate:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, audit.Entry{
		ActionType: "petty_cash_wallet_created", TargetType: "wallet", TargetID: w.ID,
		Message: fmt.Sprintf("Billetera creada para %s con saldo %s", u.FullName, in.InitialBalance.StringFixed(2)),
	})
	out := toWalletResponse(w)
	return &out, nil
}

// AddFunds recarga la billetera: saldo y movimiento top_up en la misma transacción.
func (uc *UseCase) AddFunds(ctx context.Context, actor entity.Actor, walletID string, in dto.AddFundsRequest) (*dto.WalletResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.Invalid("el monto debe ser mayor que cero")
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, domain.Invalid("la descripción es obligatoria")
	}
	w, err := uc.repo.GetWalletByID(ctx, actor.CompanyID, walletID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrWalletNotFound
	}

	now := uc.now()
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.PettyCash.AdjustBalance(ctx, w.ID, in.Amount); err != nil {
			return err
		}
		return repos.PettyCash.AddTransaction(ctx, &entity.PettyCashTransaction{
			ID:                uuid.New().String(),
			WalletID:          w.ID,
			TransactionType:   entity.PettyCashTopUp,
			Amount:            in.Amount,
			Description:       desc,
			ProcessedByUserID: actor.UserID,
			TransactionDate:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	w.CurrentBalance = w.CurrentBalance.Add(in.Amount)
	w.LastUpdated = now
	uc.audit.Record(ctx, actor, audit.Entry{
		ActionType: "petty_cash_funds_added", TargetType: "wallet", TargetID: w.ID,
		Message: fmt.Sprintf("Recarga de %s: %s", in.Amount.StringFixed(2), desc),
	})
	out := toWalletResponse(w)
	return &out, nil
}

// Statement extracto del usuario en el período: saldo de apertura, movimientos con saldo corrido y cierre.
func (uc *UseCase) Statement(ctx context.Context, actor entity.Actor, userID string, q dto.PeriodQuery) (*dto.StatementResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.Invalid("user_id es obligatorio")
	}
	period, err := analytics.ResolvePeriod(q.Start, q.End, uc.now())
	if err != nil {
		return nil, err
	}
	w, err := uc.repo.GetWalletByUser(ctx, actor.CompanyID, userID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrWalletNotFound
	}
	end := period.End.Add(24*time.Hour - time.Nanosecond)

	opening, err := uc.repo.BalanceBefore(ctx, w.ID, period.Start)
	if err != nil {
		return nil, err
	}
	txs, err := uc.repo.ListTransactions(ctx, w.ID, period.Start, end)
	if err != nil {
		return nil, err
	}

	out := &dto.StatementResponse{
		Wallet:         toWalletResponse(w),
		Period:         period,
		OpeningBalance: opening,
		Transactions:   make([]dto.PettyCashTxResponse, 0, len(txs)),
	}
	balance := opening
	for _, t := range txs {
		balance = balance.Add(t.Signed())
		out.Transactions = append(out.Transactions, dto.PettyCashTxResponse{
			ID:              t.ID,
			TransactionType: t.TransactionType,
			Amount:          t.Amount,
			Description:     t.Description,
			TransactionDate: t.TransactionDate,
			Balance:         balance,
		})
	}
	out.ClosingBalance = balance
	return out, nil
}

func toWalletResponse(w *entity.PettyCashWallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:             w.ID,
		UserID:         w.UserID,
		UserName:       w.UserName,
		CurrentBalance: w.CurrentBalance,
		LastUpdated:    w.LastUpdated,
	}
}
