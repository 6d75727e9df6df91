package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/auth"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/mocks"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/pkg/jwt"
)

const secret = "test-secret-32-bytes-long-enough!"

type fixture struct {
	users     *mocks.UserRepository
	companies *mocks.CompanyRepository
	audits    *mocks.AuditLogRepository
	uc        *auth.AuthUseCase
}

func newFixture() *fixture {
	f := &fixture{
		users:     new(mocks.UserRepository),
		companies: new(mocks.CompanyRepository),
		audits:    new(mocks.AuditLogRepository),
	}
	f.audits.On("Insert", mock.Anything, mock.Anything).Return(nil)
	rec := audit.NewRecorder(f.audits, nil, nil)
	f.uc = auth.NewAuthUseCase(f.users, f.companies, rec, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"})
	return f
}

func hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_UsuarioDeEmpresa(t *testing.T) {
	f := newFixture()
	f.companies.On("GetByCode", mock.Anything, "ACME").Return(&entity.Company{ID: "c-1", Code: "ACME"}, nil)
	f.users.On("GetByEmail", mock.Anything, "c-1", "ana@acme.com").Return(&entity.User{
		ID: "u-1", CompanyID: "c-1", FullName: "Ana", Email: "ana@acme.com",
		PasswordHash: hash(t, "secreto123"), Roles: []string{"employee"},
	}, nil)

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{CompanyCode: " acme ", Email: "ana@acme.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, 3600, out.ExpiresIn)

	id, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "c-1", id.CompanyID)
	assert.Equal(t, []string{"employee"}, id.Roles)
	assert.Equal(t, "Ana", id.Name)
}

func TestLogin_PlataformaSinCodigo(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "", "root@portal.io").Return(&entity.User{
		ID: "p-1", FullName: "Root", PasswordHash: hash(t, "secreto123"), Roles: []string{"platform_admin"},
	}, nil)

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "root@portal.io", Password: "secreto123"})
	require.NoError(t, err)
	assert.Empty(t, out.User.CompanyID)
	f.companies.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
}

func TestLogin_Errores(t *testing.T) {
	f := newFixture()
	f.companies.On("GetByCode", mock.Anything, "NOPE").Return(nil, nil)
	f.companies.On("GetByCode", mock.Anything, "ACME").Return(&entity.Company{ID: "c-1"}, nil)
	f.users.On("GetByEmail", mock.Anything, "c-1", "sinroles@acme.com").Return(&entity.User{
		ID: "u-2", CompanyID: "c-1", PasswordHash: hash(t, "secreto123"),
	}, nil)
	f.users.On("GetByEmail", mock.Anything, "c-1", "ana@acme.com").Return(&entity.User{
		ID: "u-1", CompanyID: "c-1", PasswordHash: hash(t, "secreto123"), Roles: []string{"employee"},
	}, nil)

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{CompanyCode: "NOPE", Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "empresa inexistente")

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{CompanyCode: "ACME", Email: "ana@acme.com", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "contraseña incorrecta")

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{CompanyCode: "ACME", Email: "sinroles@acme.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrNoRoles)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{CompanyCode: "ACME"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckSession(t *testing.T) {
	f := newFixture()
	f.users.On("GetByID", mock.Anything, "u-1").Return(&entity.User{ID: "u-1", CompanyID: "c-1"}, nil)
	f.users.On("GetByID", mock.Anything, "u-x").Return(nil, nil)

	ctx := context.Background()
	assert.NoError(t, f.uc.CheckSession(ctx, &jwt.Identity{UserID: "u-1", CompanyID: "c-1", Roles: []string{"employee"}}))
	assert.ErrorIs(t, f.uc.CheckSession(ctx, &jwt.Identity{UserID: "u-1", Roles: []string{"employee"}}), domain.ErrSession,
		"usuario de empresa sin empresa en sesión")
	assert.ErrorIs(t, f.uc.CheckSession(ctx, &jwt.Identity{UserID: "u-x", CompanyID: "c-1", Roles: []string{"admin"}}), domain.ErrSession,
		"usuario eliminado")
	assert.NoError(t, f.uc.CheckSession(ctx, &jwt.Identity{Kind: jwt.KindReferrer, UserID: "r-1", CompanyID: "c-1"}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cambio de contraseña
// ──────────────────────────────────────────────────────────────────────────────

func TestChangePassword(t *testing.T) {
	actor := entity.Actor{UserID: "u-1", CompanyID: "c-1"}

	t.Run("exitoso", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, "u-1").Return(&entity.User{ID: "u-1", PasswordHash: hash(t, "actual123")}, nil)
		f.users.On("UpdatePassword", mock.Anything, "u-1", mock.AnythingOfType("string")).Return(nil).Once()

		err := f.uc.ChangePassword(context.Background(), actor, dto.ChangePasswordRequest{
			CurrentPassword: "actual123", NewPassword: "nueva1234", ConfirmPassword: "nueva1234",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"password_changed"}, f.audits.Actions())
	})

	t.Run("confirmación distinta", func(t *testing.T) {
		f := newFixture()
		err := f.uc.ChangePassword(context.Background(), actor, dto.ChangePasswordRequest{
			CurrentPassword: "actual123", NewPassword: "nueva1234", ConfirmPassword: "otra12345",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, []string{"password_change_failed"}, f.audits.Actions())
	})

	t.Run("muy corta", func(t *testing.T) {
		f := newFixture()
		err := f.uc.ChangePassword(context.Background(), actor, dto.ChangePasswordRequest{
			CurrentPassword: "actual123", NewPassword: "corta", ConfirmPassword: "corta",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("actual incorrecta", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, "u-1").Return(&entity.User{ID: "u-1", PasswordHash: hash(t, "actual123")}, nil)
		err := f.uc.ChangePassword(context.Background(), actor, dto.ChangePasswordRequest{
			CurrentPassword: "equivocada", NewPassword: "nueva1234", ConfirmPassword: "nueva1234",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		f.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}
