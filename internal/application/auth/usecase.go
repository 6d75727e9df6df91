package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
	"github.com/jhoicas/Gastos-api/pkg/jwt"
)

// MinPasswordLength largo mínimo de una contraseña de usuario.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de sesión: login, validación de sesión y cambio de contraseña.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	audit       *audit.Recorder
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, rec *audit.Recorder, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, audit: rec, jwtCfg: jwtCfg}
}

// Login resuelve la empresa por código (vacío = usuario de plataforma), verifica la contraseña
// y emite el token de sesión.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.Invalid("email y contraseña son obligatorios")
	}

	companyID := ""
	if code := entity.NormalizeCompanyCode(in.CompanyCode); code != "" {
		company, err := uc.companyRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("auth: empresa: %w", err)
		}
		if company == nil {
			return nil, domain.ErrUnauthorized
		}
		companyID = company.ID
	}

	user, err := uc.userRepo.GetByEmail(ctx, companyID, email)
	if err != nil {
		return nil, fmt.Errorf("auth: usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if len(user.Roles) == 0 {
		return nil, domain.ErrNoRoles
	}
	// Sin empresa solo entra platform_admin.
	if user.CompanyID == "" && !entity.HasRole(user.Roles, entity.RolePlatformAdmin) {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		Kind:      jwt.KindUser,
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Roles:     user.Roles,
		StoreID:   user.StoreID,
		Name:      user.FullName,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      toSessionUser(user),
	}, nil
}

// CheckSession confirma que el usuario del token sigue existiendo y que un usuario de empresa
// conserva su contexto de empresa. Cualquier fallo es domain.ErrSession.
func (uc *AuthUseCase) CheckSession(ctx context.Context, id *jwt.Identity) error {
	if id == nil || id.UserID == "" {
		return domain.ErrSession
	}
	if id.Kind == jwt.KindReferrer {
		return nil
	}
	if id.CompanyID == "" && !entity.HasRole(id.Roles, entity.RolePlatformAdmin) {
		return domain.ErrSession
	}
	user, err := uc.userRepo.GetByID(ctx, id.UserID)
	if err != nil {
		return fmt.Errorf("auth: sesión: %w", err)
	}
	if user == nil || user.CompanyID != id.CompanyID {
		return domain.ErrSession
	}
	return nil
}

// Me devuelve los datos del usuario en sesión.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.SessionUser, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrSession
	}
	out := toSessionUser(user)
	return &out, nil
}

// ChangePassword valida la contraseña actual y guarda la nueva. Registra el resultado en auditoría.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, actor entity.Actor, in dto.ChangePasswordRequest) error {
	err := uc.changePassword(ctx, actor, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrUnauthorized) {
			uc.audit.Record(ctx, actor, audit.Entry{
				ActionType: "password_change_failed",
				TargetType: "user",
				TargetID:   actor.UserID,
				Message:    "Intento fallido de cambio de contraseña: " + err.Error(),
			})
		}
		return err
	}
	uc.audit.Record(ctx, actor, audit.Entry{
		ActionType: "password_changed",
		TargetType: "user",
		TargetID:   actor.UserID,
		Message:    "El usuario cambió su contraseña",
	})
	return nil
}

func (uc *AuthUseCase) changePassword(ctx context.Context, actor entity.Actor, in dto.ChangePasswordRequest) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return domain.Invalid("todos los campos son obligatorios")
	}
	if len(in.NewPassword) < MinPasswordLength {
		return domain.Invalid(fmt.Sprintf("la nueva contraseña debe tener al menos %d caracteres", MinPasswordLength))
	}
	if in.NewPassword != in.ConfirmPassword {
		return domain.Invalid("la confirmación no coincide con la nueva contraseña")
	}
	user, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrSession
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.Invalid("la contraseña actual es incorrecta")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, user.ID, string(hash))
}

func toSessionUser(u *entity.User) dto.SessionUser {
	return dto.SessionUser{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		CompanyID: u.CompanyID,
		Roles:     u.Roles,
		StoreID:   u.StoreID,
	}
}
