package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gastos-api/internal/domain/entity"
)

// ReferralFilter listado del staff. StoreID vacío = todas las tiendas.
type ReferralFilter struct {
	CompanyID string
	StoreID   string
	Status    string
}

// ReferrerStats métricas del panel del referidor.
type ReferrerStats struct {
	TotalReferrals      int
	SuccessfulReferrals int // estado Points Awarded
	PendingPoints       int // puntos de referidos en estado Purchased
	PurchaseTotal       decimal.Decimal
}

// ReferralRepository puerto de persistencia de referidores, referidos y su bitácora.
type ReferralRepository interface {
	CreateReferrer(ctx context.Context, r *entity.Referrer) error
	GetReferrerByID(ctx context.Context, id string) (*entity.Referrer, error)
	GetReferrerByMobile(ctx context.Context, mobile string) (*entity.Referrer, error)
	ListReferrers(ctx context.Context, companyID string) ([]*entity.Referrer, error)
	AddPoints(ctx context.Context, referrerID string, points int) error
	ReferrerStats(ctx context.Context, referrerID string) (*ReferrerStats, error)

	CodeExists(ctx context.Context, code string) (bool, error)
	CreateReferral(ctx context.Context, r *entity.Referral) error
	GetReferral(ctx context.Context, companyID, id string) (*entity.Referral, error)
	ListReferrals(ctx context.Context, f ReferralFilter) ([]*entity.Referral, error)
	ListByReferrer(ctx context.Context, referrerID string) ([]*entity.Referral, error)
	UpdateReferral(ctx context.Context, r *entity.Referral, fromStatus string) (bool, error)

	AddChange(ctx context.Context, c *entity.ReferralChange) error
	ListChanges(ctx context.Context, referralID string) ([]*entity.ReferralChange, error)
}
