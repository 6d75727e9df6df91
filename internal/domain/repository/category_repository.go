package repository

import (
	"context"

	"github.com/jhoicas/Gastos-api/internal/domain/entity"
)

// CategoryRepository catálogo de categorías de gasto por empresa.
type CategoryRepository interface {
	List(ctx context.Context, companyID string) ([]*entity.ExpenseCategory, error)
	ListActive(ctx context.Context, companyID string) ([]*entity.ExpenseCategory, error)
	GetByID(ctx context.Context, companyID, id string) (*entity.ExpenseCategory, error)
	GetByName(ctx context.Context, companyID, name string) (*entity.ExpenseCategory, error)
	Create(ctx context.Context, c *entity.ExpenseCategory) error
	Update(ctx context.Context, c *entity.ExpenseCategory) error
	Delete(ctx context.Context, companyID, id string) (bool, error)
}
