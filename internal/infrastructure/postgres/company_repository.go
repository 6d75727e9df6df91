package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.StoreRepository   = (*StoreRepo)(nil)
)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, code, created_at`

// Create persiste una nueva empresa. Código repetido -> ErrDuplicate.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO companies (id, name, code, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Code, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

// GetByCode obtiene una empresa por su código de acceso.
func (r *CompanyRepo) GetByCode(ctx context.Context, code string) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE code = $1`, code)
}

func (r *CompanyRepo) getOne(ctx context.Context, query string, arg string) (*entity.Company, error) {
	var c entity.Company
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// List lista todas las empresas por nombre.
func (r *CompanyRepo) List(ctx context.Context) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update cambia nombre y código.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	tag, err := r.q.Exec(ctx, `UPDATE companies SET name = $2, code = $3 WHERE id = $1`, c.ID, c.Name, c.Code)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la empresa (cascada sobre sus datos).
func (r *CompanyRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete company: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// StoreRepo lectura de tiendas.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de tiendas.
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// GetByID obtiene una tienda de la empresa.
func (r *StoreRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Store, error) {
	var s entity.Store
	err := r.q.QueryRow(ctx,
		`SELECT id, company_id, name, is_active FROM stores WHERE id = $1 AND company_id = $2`,
		id, companyID,
	).Scan(&s.ID, &s.CompanyID, &s.Name, &s.IsActive)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return &s, nil
}

// ListActive tiendas activas de la empresa por nombre.
func (r *StoreRepo) ListActive(ctx context.Context, companyID string) ([]*entity.Store, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, company_id, name, is_active FROM stores WHERE company_id = $1 AND is_active ORDER BY name`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Name, &s.IsActive); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
