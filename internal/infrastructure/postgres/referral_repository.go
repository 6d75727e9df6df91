package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

var _ repository.ReferralRepository = (*ReferralRepo)(nil)

// ReferralRepo referidores, referidos y bitácora de cambios sobre PostgreSQL.
type ReferralRepo struct {
	q Querier
}

// NewReferralRepository construye el adaptador de referidos.
func NewReferralRepository(q Querier) *ReferralRepo {
	return &ReferralRepo{q: q}
}

// ── Referidores ───────────────────────────────────────────────────────────────

const referrerSelect = `
	SELECT rr.id, rr.company_id, rr.full_name, rr.mobile_number, rr.password_hash,
	       rr.total_points_balance, rr.created_at,
	       (SELECT COUNT(*) FROM referrals rf WHERE rf.referrer_id = rr.id) AS total_leads
	FROM referrers rr`

func scanReferrer(row pgx.Row) (*entity.Referrer, error) {
	var r entity.Referrer
	err := row.Scan(&r.ID, &r.CompanyID, &r.FullName, &r.MobileNumber, &r.PasswordHash,
		&r.TotalPointsBalance, &r.CreatedAt, &r.TotalLeads)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReferrer registra un referidor. Celular repetido -> ErrDuplicate.
func (r *ReferralRepo) CreateReferrer(ctx context.Context, rr *entity.Referrer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO referrers (id, company_id, full_name, mobile_number, password_hash, total_points_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rr.ID, rr.CompanyID, rr.FullName, rr.MobileNumber, rr.PasswordHash, rr.TotalPointsBalance, rr.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert referrer: %w", err)
	}
	return nil
}

func (r *ReferralRepo) getReferrer(ctx context.Context, where string, arg string) (*entity.Referrer, error) {
	rr, err := scanReferrer(r.q.QueryRow(ctx, referrerSelect+" WHERE "+where, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get referrer: %w", err)
	}
	return rr, nil
}

// GetReferrerByID referidor por ID.
func (r *ReferralRepo) GetReferrerByID(ctx context.Context, id string) (*entity.Referrer, error) {
	return r.getReferrer(ctx, "rr.id = $1", id)
}

// GetReferrerByMobile referidor por celular (solo dígitos).
func (r *ReferralRepo) GetReferrerByMobile(ctx context.Context, mobile string) (*entity.Referrer, error) {
	return r.getReferrer(ctx, "rr.mobile_number = $1", mobile)
}

// ListReferrers referidores de la empresa con su total de prospectos, más recientes primero.
func (r *ReferralRepo) ListReferrers(ctx context.Context, companyID string) ([]*entity.Referrer, error) {
	rows, err := r.q.Query(ctx, referrerSelect+" WHERE rr.company_id = $1 ORDER BY rr.created_at DESC", companyID)
	if err != nil {
		return nil, fmt.Errorf("list referrers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Referrer
	for rows.Next() {
		rr, err := scanReferrer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan referrer: %w", err)
		}
		list = append(list, rr)
	}
	return list, rows.Err()
}

// AddPoints acredita puntos al saldo del referidor.
func (r *ReferralRepo) AddPoints(ctx context.Context, referrerID string, points int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE referrers SET total_points_balance = total_points_balance + $2 WHERE id = $1`,
		referrerID, points,
	)
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReferrerStats métricas del panel del referidor.
func (r *ReferralRepo) ReferrerStats(ctx context.Context, referrerID string) (*repository.ReferrerStats, error) {
	const query = `
	SELECT COUNT(*),
	       COUNT(*) FILTER (WHERE status = 'Points Awarded'),
	       COALESCE(SUM(points_earned) FILTER (WHERE status = 'Purchased'), 0),
	       COALESCE(SUM(purchase_amount), 0)
	FROM referrals WHERE referrer_id = $1`
	var s repository.ReferrerStats
	if err := r.q.QueryRow(ctx, query, referrerID).
		Scan(&s.TotalReferrals, &s.SuccessfulReferrals, &s.PendingPoints, &s.PurchaseTotal); err != nil {
		return nil, fmt.Errorf("referrer stats: %w", err)
	}
	return &s, nil
}

// ── Referidos ─────────────────────────────────────────────────────────────────

const referralSelect = `
	SELECT rf.id, rf.company_id, rf.referrer_id, rf.store_id, rf.invitee_name, rf.invitee_contact,
	       rf.invitee_address, rf.invitee_age, rf.invitee_gender, rf.interested_items, rf.remarks,
	       rf.referral_code, rf.status, rf.purchase_amount, rf.points_earned, rf.points_awarded_at,
	       rf.last_contact_date, rf.last_visit_date, rf.staff_notes, rf.updated_by_user_id, rf.created_at,
	       rr.full_name, rr.mobile_number, COALESCE(s.name, '')
	FROM referrals rf
	JOIN referrers rr ON rr.id = rf.referrer_id
	LEFT JOIN stores s ON s.id = rf.store_id`

func scanReferral(row pgx.Row) (*entity.Referral, error) {
	var (
		rf               entity.Referral
		storeID, byUser *string
	)
	err := row.Scan(&rf.ID, &rf.CompanyID, &rf.ReferrerID, &storeID, &rf.InviteeName, &rf.InviteeContact,
		&rf.InviteeAddress, &rf.InviteeAge, &rf.InviteeGender, &rf.InterestedItems, &rf.Remarks,
		&rf.ReferralCode, &rf.Status, &rf.PurchaseAmount, &rf.PointsEarned, &rf.PointsAwardedAt,
		&rf.LastContactDate, &rf.LastVisitDate, &rf.StaffNotes, &byUser, &rf.CreatedAt,
		&rf.ReferrerName, &rf.ReferrerMobile, &rf.StoreName)
	if err != nil {
		return nil, err
	}
	rf.StoreID = derefString(storeID)
	rf.UpdatedByUserID = derefString(byUser)
	return &rf, nil
}

func (r *ReferralRepo) listReferrals(ctx context.Context, query string, args ...any) ([]*entity.Referral, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Referral
	for rows.Next() {
		rf, err := scanReferral(rows)
		if err != nil {
			return nil, fmt.Errorf("scan referral: %w", err)
		}
		list = append(list, rf)
	}
	return list, rows.Err()
}

// CodeExists indica si el código de referido ya está tomado.
func (r *ReferralRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM referrals WHERE referral_code = $1)`, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("referral code exists: %w", err)
	}
	return exists, nil
}

// CreateReferral inserta un referido.
func (r *ReferralRepo) CreateReferral(ctx context.Context, rf *entity.Referral) error {
	const query = `
	INSERT INTO referrals (id, company_id, referrer_id, store_id, invitee_name, invitee_contact,
	                       invitee_address, invitee_age, invitee_gender, interested_items, remarks,
	                       referral_code, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query, rf.ID, rf.CompanyID, rf.ReferrerID, nullIfEmpty(rf.StoreID),
		rf.InviteeName, rf.InviteeContact, rf.InviteeAddress, rf.InviteeAge, rf.InviteeGender,
		rf.InterestedItems, rf.Remarks, rf.ReferralCode, rf.Status, rf.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert referral: %w", err)
	}
	return nil
}

// GetReferral referido de la empresa.
func (r *ReferralRepo) GetReferral(ctx context.Context, companyID, id string) (*entity.Referral, error) {
	rf, err := scanReferral(r.q.QueryRow(ctx, referralSelect+" WHERE rf.id = $1 AND rf.company_id = $2", id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get referral: %w", err)
	}
	return rf, nil
}

// ListReferrals listado del staff, opcionalmente restringido a una tienda o estado.
func (r *ReferralRepo) ListReferrals(ctx context.Context, f repository.ReferralFilter) ([]*entity.Referral, error) {
	query := referralSelect + `
	WHERE rf.company_id = $1
	  AND ($2::uuid IS NULL OR rf.store_id = $2::uuid)
	  AND ($3::text IS NULL OR rf.status = $3::text)
	ORDER BY rf.created_at DESC`
	return r.listReferrals(ctx, query, f.CompanyID, nullIfEmpty(f.StoreID), nullIfEmpty(f.Status))
}

// ListByReferrer prospectos de un referidor, más recientes primero.
func (r *ReferralRepo) ListByReferrer(ctx context.Context, referrerID string) ([]*entity.Referral, error) {
	return r.listReferrals(ctx, referralSelect+" WHERE rf.referrer_id = $1 ORDER BY rf.created_at DESC", referrerID)
}

// UpdateReferral guarda los campos editables por el staff solo si el referido sigue en fromStatus.
// false = otra sesión lo modificó (o ya no existe).
func (r *ReferralRepo) UpdateReferral(ctx context.Context, rf *entity.Referral, fromStatus string) (bool, error) {
	const query = `
	UPDATE referrals
	SET status = $3, purchase_amount = $4, points_earned = $5, points_awarded_at = $6,
	    last_contact_date = $7, last_visit_date = $8, staff_notes = $9, updated_by_user_id = $10
	WHERE id = $1 AND company_id = $2 AND status = $11`
	tag, err := r.q.Exec(ctx, query, rf.ID, rf.CompanyID, rf.Status, rf.PurchaseAmount, rf.PointsEarned,
		rf.PointsAwardedAt, rf.LastContactDate, rf.LastVisitDate, rf.StaffNotes, nullIfEmpty(rf.UpdatedByUserID), fromStatus)
	if err != nil {
		return false, fmt.Errorf("update referral: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ── Bitácora ──────────────────────────────────────────────────────────────────

// AddChange registra un cambio del referido.
func (r *ReferralRepo) AddChange(ctx context.Context, c *entity.ReferralChange) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO referral_audit_log (id, referral_id, user_id, referrer_id, action, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.ReferralID, nullIfEmpty(c.UserID), nullIfEmpty(c.ReferrerID), c.Action, c.OldValue, c.NewValue, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert referral change: %w", err)
	}
	return nil
}

// ListChanges bitácora del referido, más reciente primero, con el nombre de quien actuó.
func (r *ReferralRepo) ListChanges(ctx context.Context, referralID string) ([]*entity.ReferralChange, error) {
	const query = `
	SELECT l.id, l.referral_id, l.user_id, l.referrer_id, l.action, l.old_value, l.new_value, l.created_at,
	       COALESCE(u.full_name, rr.full_name, 'System')
	FROM referral_audit_log l
	LEFT JOIN users u ON u.id = l.user_id
	LEFT JOIN referrers rr ON rr.id = l.referrer_id
	WHERE l.referral_id = $1
	ORDER BY l.created_at DESC`
	rows, err := r.q.Query(ctx, query, referralID)
	if err != nil {
		return nil, fmt.Errorf("list referral changes: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReferralChange
	for rows.Next() {
		var (
			c                  entity.ReferralChange
			userID, referrerID *string
		)
		if err := rows.Scan(&c.ID, &c.ReferralID, &userID, &referrerID, &c.Action, &c.OldValue,
			&c.NewValue, &c.CreatedAt, &c.ActorName); err != nil {
			return nil, fmt.Errorf("scan referral change: %w", err)
		}
		c.UserID = derefString(userID)
		c.ReferrerID = derefString(referrerID)
		list = append(list, &c)
	}
	return list, rows.Err()
}
