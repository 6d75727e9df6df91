package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
)

// minUserPassword largo mínimo al crear usuarios desde la administración.
const minUserPassword = 8

// UserUseCase administración de usuarios de una empresa.
type UserUseCase struct {
	repo   repository.UserRepository
	stores repository.StoreRepository
	audit  *audit.Recorder
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, stores repository.StoreRepository, rec *audit.Recorder) *UserUseCase {
	return &UserUseCase{repo: repo, stores: stores, audit: rec}
}

// List usuarios de la empresa del actor.
func (uc *UserUseCase) List(ctx context.Context, actor entity.Actor) ([]dto.UserResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// Create crea un usuario en la empresa del actor.
func (uc *UserUseCase) Create(ctx context.Context, actor entity.Actor, in dto.UserRequest) (*dto.UserResponse, error) {
	if len(in.Password) < minUserPassword {
		return nil, domain.Invalid(fmt.Sprintf("la contraseña debe tener al menos %d caracteres", minUserPassword))
	}
	u := &entity.User{ID: uuid.New().String(), CompanyID: actor.CompanyID, CreatedAt: time.Now()}
	if err := uc.apply(ctx, actor, u, in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = string(hash)
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, audit.Entry{ActionType: "user_created", TargetType: "user", TargetID: u.ID,
		Message: fmt.Sprintf("Usuario %s creado con roles %s", u.Email, strings.Join(u.Roles, ", "))})
	return toUserResponse(u), nil
}

// Update edita un usuario de la empresa del actor. La contraseña no se toca.
func (uc *UserUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UserRequest) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	if err := uc.apply(ctx, actor, u, in); err != nil {
		return nil, err
	}
	if in.ApproverID != "" && in.ApproverID == u.ID {
		return nil, domain.Invalid("un usuario no puede ser su propio aprobador")
	}
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, audit.Entry{ActionType: "user_edited", TargetType: "user", TargetID: u.ID,
		Message: fmt.Sprintf("Usuario %s editado", u.Email)})
	return toUserResponse(u), nil
}

// Delete elimina un usuario. Nadie puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if id == actor.UserID {
		return domain.Invalid("no puede eliminar su propia cuenta")
	}
	ok, err := uc.repo.Delete(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	uc.audit.Record(ctx, actor, audit.Entry{ActionType: "user_deleted", TargetType: "user", TargetID: id,
		Message: "Usuario eliminado"})
	return nil
}

// apply valida la entrada y la copia sobre u.
func (uc *UserUseCase) apply(ctx context.Context, actor entity.Actor, u *entity.User, in dto.UserRequest) error {
	name := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" {
		return domain.Invalid("nombre y email son obligatorios")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Invalid("email inválido")
	}
	if len(in.Roles) == 0 {
		return domain.Invalid("asigne al menos un rol")
	}
	roles := make([]string, 0, len(in.Roles))
	for _, r := range in.Roles {
		r = strings.ToLower(strings.TrimSpace(r))
		if !entity.IsAssignableRole(r) {
			return domain.Invalid("rol no permitido: " + r)
		}
		if !entity.HasRole(roles, r) {
			roles = append(roles, r)
		}
	}
	if entity.HasRole(roles, entity.RoleEmployee) && in.ApproverID == "" {
		return domain.Invalid("un empleado necesita un aprobador asignado")
	}

	if existing, err := uc.repo.GetByEmail(ctx, actor.CompanyID, email); err != nil {
		return err
	} else if existing != nil && existing.ID != u.ID {
		return domain.ErrDuplicate
	}
	code := strings.TrimSpace(in.EmployeeCode)
	if code != "" {
		if existing, err := uc.repo.GetByEmployeeCode(ctx, actor.CompanyID, code); err != nil {
			return err
		} else if existing != nil && existing.ID != u.ID {
			return domain.ErrDuplicate
		}
	}
	if in.ApproverID != "" {
		appr, err := uc.repo.GetByID(ctx, in.ApproverID)
		if err != nil {
			return err
		}
		if appr == nil || appr.CompanyID != actor.CompanyID {
			return domain.Invalid("aprobador inválido")
		}
	}
	if in.StoreID != "" {
		store, err := uc.stores.GetByID(ctx, actor.CompanyID, in.StoreID)
		if err != nil {
			return err
		}
		if store == nil {
			return domain.Invalid("tienda inválida")
		}
	}

	u.FullName = name
	u.Email = email
	u.Department = strings.TrimSpace(in.Department)
	u.ApproverID = in.ApproverID
	u.StoreID = in.StoreID
	u.EmployeeCode = code
	u.Roles = roles
	return nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		Department:   u.Department,
		ApproverID:   u.ApproverID,
		StoreID:      u.StoreID,
		EmployeeCode: u.EmployeeCode,
		Roles:        u.Roles,
		CreatedAt:    u.CreatedAt,
	}
}
