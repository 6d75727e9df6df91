package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo billetera de comprobantes sobre PostgreSQL.
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador de comprobantes.
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

// Create registra un comprobante subido.
func (r *ReceiptRepo) Create(ctx context.Context, rc *entity.Receipt) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO receipts (id, company_id, user_id, receipt_url, notes, uploaded_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		rc.ID, rc.CompanyID, rc.UserID, rc.ReceiptURL, rc.Notes, rc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// ListUnassigned comprobantes libres del usuario, más recientes primero.
func (r *ReceiptRepo) ListUnassigned(ctx context.Context, companyID, userID string) ([]*entity.Receipt, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, user_id, receipt_url, notes, uploaded_at
		FROM receipts
		WHERE company_id = $1 AND user_id = $2 AND assigned_item_id IS NULL
		ORDER BY uploaded_at DESC`, companyID, userID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Receipt
	for rows.Next() {
		var rc entity.Receipt
		if err := rows.Scan(&rc.ID, &rc.CompanyID, &rc.UserID, &rc.ReceiptURL, &rc.Notes, &rc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, &rc)
	}
	return list, rows.Err()
}

// Assign vincula el comprobante al ítem si sigue libre y es del usuario, y copia su URL al ítem.
func (r *ReceiptRepo) Assign(ctx context.Context, companyID, userID, receiptID, itemID string) (string, error) {
	const query = `
	WITH rc AS (
	    UPDATE receipts SET assigned_item_id = $4
	    WHERE id = $3 AND company_id = $1 AND user_id = $2 AND assigned_item_id IS NULL
	    RETURNING receipt_url
	)
	UPDATE expense_items SET receipt_url = rc.receipt_url
	FROM rc
	WHERE expense_items.id = $4
	RETURNING rc.receipt_url`
	var url string
	err := r.q.QueryRow(ctx, query, companyID, userID, receiptID, itemID).Scan(&url)
	if err != nil {
		if isNoRows(err) {
			return "", domain.Invalid("el comprobante no existe o ya fue asignado")
		}
		return "", fmt.Errorf("assign receipt: %w", err)
	}
	return url, nil
}

// UnassignItem libera el comprobante de un ítem eliminado.
func (r *ReceiptRepo) UnassignItem(ctx context.Context, itemID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE receipts SET assigned_item_id = NULL WHERE assigned_item_id = $1`, itemID); err != nil {
		return fmt.Errorf("unassign receipt: %w", err)
	}
	return nil
}
