package repository

import (
	"context"

	"github.com/jhoicas/Gastos-api/internal/domain/entity"
)

// UserRepository puerto de persistencia de usuarios y sus roles.
// Los métodos Get devuelven (nil, nil) si no hay fila.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail busca dentro de la empresa; companyID vacío busca usuarios de plataforma.
	GetByEmail(ctx context.Context, companyID, email string) (*entity.User, error)
	GetByEmployeeCode(ctx context.Context, companyID, code string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error)
	Delete(ctx context.Context, companyID, id string) (bool, error)
}
