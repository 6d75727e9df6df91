package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo catálogo de categorías de gasto sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categorySelect = `SELECT id, company_id, name, is_active, created_at FROM expense_categories`

func (r *CategoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ExpenseCategory, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExpenseCategory
	for rows.Next() {
		var c entity.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// List todas las categorías de la empresa por nombre.
func (r *CategoryRepo) List(ctx context.Context, companyID string) ([]*entity.ExpenseCategory, error) {
	return r.list(ctx, categorySelect+` WHERE company_id = $1 ORDER BY name`, companyID)
}

// ListActive categorías activas (formulario de ítems).
func (r *CategoryRepo) ListActive(ctx context.Context, companyID string) ([]*entity.ExpenseCategory, error) {
	return r.list(ctx, categorySelect+` WHERE company_id = $1 AND is_active ORDER BY name`, companyID)
}

func (r *CategoryRepo) getOne(ctx context.Context, where string, args ...any) (*entity.ExpenseCategory, error) {
	var c entity.ExpenseCategory
	err := r.q.QueryRow(ctx, categorySelect+" WHERE "+where, args...).
		Scan(&c.ID, &c.CompanyID, &c.Name, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// GetByID categoría de la empresa por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, companyID, id string) (*entity.ExpenseCategory, error) {
	return r.getOne(ctx, "company_id = $1 AND id = $2", companyID, id)
}

// GetByName categoría de la empresa por nombre exacto.
func (r *CategoryRepo) GetByName(ctx context.Context, companyID, name string) (*entity.ExpenseCategory, error) {
	return r.getOne(ctx, "company_id = $1 AND name = $2", companyID, name)
}

// Create inserta la categoría. El índice único (company_id, name) es la última barrera ante duplicados.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.ExpenseCategory) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO expense_categories (id, company_id, name, is_active, created_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.CompanyID, c.Name, c.IsActive, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// Update cambia nombre y estado dentro de la empresa.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.ExpenseCategory) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE expense_categories SET name = $3, is_active = $4 WHERE id = $1 AND company_id = $2`,
		c.ID, c.CompanyID, c.Name, c.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la categoría de la empresa.
func (r *CategoryRepo) Delete(ctx context.Context, companyID, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM expense_categories WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
