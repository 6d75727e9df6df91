package repository

import (
	"context"

	"github.com/jhoicas/Gastos-api/internal/domain/entity"
)

// CompanyRepository puerto de persistencia de tenants.
type CompanyRepository interface {
	Create(ctx context.Context, c *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByCode(ctx context.Context, code string) (*entity.Company, error)
	List(ctx context.Context) ([]*entity.Company, error)
	Update(ctx context.Context, c *entity.Company) error
	Delete(ctx context.Context, id string) (bool, error)
}

// StoreRepository lectura de tiendas (centros de costo).
type StoreRepository interface {
	GetByID(ctx context.Context, companyID, id string) (*entity.Store, error)
	ListActive(ctx context.Context, companyID string) ([]*entity.Store, error)
}
