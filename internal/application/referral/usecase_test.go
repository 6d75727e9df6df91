package referral

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
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
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
	"github.com/jhoicas/Gastos-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas"

var (
	adminActor = entity.Actor{UserID: "adm-1", CompanyID: "c-1", Roles: []string{entity.RoleAdmin}}
	salesActor = entity.Actor{UserID: "s-1", CompanyID: "c-1", Roles: []string{entity.RoleSalesTeam}, StoreID: "st-1"}
)

type env struct {
	repo      *mocks.ReferralRepository
	companies *mocks.CompanyRepository
	stores    *mocks.StoreRepository
	tx        *mocks.TxRunner
	audits    *mocks.AuditLogRepository
	uc        *UseCase
}

func newEnv() *env {
	e := &env{
		repo:      new(mocks.ReferralRepository),
		companies: new(mocks.CompanyRepository),
		stores:    new(mocks.StoreRepository),
		audits:    new(mocks.AuditLogRepository),
	}
	e.tx = &mocks.TxRunner{Repos: repository.TxRepos{Referrals: e.repo}}
	e.audits.On("Insert", mock.Anything, mock.Anything).Return(nil)
	e.uc = NewUseCase(e.repo, e.companies, e.stores, e.tx, audit.NewRecorder(e.audits, nil, nil),
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "gastos-test"})
	e.uc.now = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro y login
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeMobile(t *testing.T) {
	assert.Equal(t, "3001234567", NormalizeMobile("(300) 123-4567"))
	assert.Equal(t, "", NormalizeMobile("sin número"))
}

func TestRegister_Validaciones(t *testing.T) {
	e := newEnv()
	base := dto.ReferrerRegisterRequest{CompanyCode: "acme", FullName: "Ana", MobileNumber: "300 123 4567", Password: "secreto", ConfirmPassword: "secreto"}

	cases := map[string]func(r *dto.ReferrerRegisterRequest){
		"sin nombre":          func(r *dto.ReferrerRegisterRequest) { r.FullName = " " },
		"celular corto":       func(r *dto.ReferrerRegisterRequest) { r.MobileNumber = "300-123" },
		"contraseña corta":    func(r *dto.ReferrerRegisterRequest) { r.Password, r.ConfirmPassword = "abc", "abc" },
		"confirmación errada": func(r *dto.ReferrerRegisterRequest) { r.ConfirmPassword = "otra-cosa" },
		"sin empresa":         func(r *dto.ReferrerRegisterRequest) { r.CompanyCode = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := e.uc.Register(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRegister_CelularDuplicado(t *testing.T) {
	e := newEnv()
	e.companies.On("GetByCode", mock.Anything, "ACME").Return(&entity.Company{ID: "c-1", Code: "ACME"}, nil)
	e.repo.On("GetReferrerByMobile", mock.Anything, "3001234567").Return(&entity.Referrer{ID: "ref-0"}, nil)

	_, err := e.uc.Register(context.Background(), dto.ReferrerRegisterRequest{
		CompanyCode: "acme", FullName: "Ana", MobileNumber: "300-123-4567", Password: "secreto", ConfirmPassword: "secreto",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegister_Exitoso(t *testing.T) {
	e := newEnv()
	e.companies.On("GetByCode", mock.Anything, "ACME").Return(&entity.Company{ID: "c-1", Code: "ACME"}, nil)
	e.repo.On("GetReferrerByMobile", mock.Anything, "3001234567").Return(nil, nil)
	e.repo.On("CreateReferrer", mock.Anything, mock.MatchedBy(func(r *entity.Referrer) bool {
		return r.CompanyID == "c-1" && r.MobileNumber == "3001234567" &&
			bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte("secreto")) == nil
	})).Return(nil).Once()

	out, err := e.uc.Register(context.Background(), dto.ReferrerRegisterRequest{
		CompanyCode: "acme", FullName: " Ana ", MobileNumber: "300-123-4567", Password: "secreto", ConfirmPassword: "secreto",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", out.FullName)
	e.repo.AssertExpectations(t)
}

func TestLogin_TokenDeReferidor(t *testing.T) {
	e := newEnv()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	e.repo.On("GetReferrerByMobile", mock.Anything, "3001234567").
		Return(&entity.Referrer{ID: "ref-1", CompanyID: "c-1", FullName: "Ana", PasswordHash: string(hash)}, nil)

	_, err := e.uc.Login(context.Background(), dto.ReferrerLoginRequest{MobileNumber: "3001234567", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	out, err := e.uc.Login(context.Background(), dto.ReferrerLoginRequest{MobileNumber: "(300) 1234567", Password: "secreto"})
	require.NoError(t, err)
	id, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, jwt.KindReferrer, id.Kind)
	assert.Equal(t, "ref-1", id.UserID)
	assert.Equal(t, "c-1", id.CompanyID)
	assert.Empty(t, id.Roles)
}

// ──────────────────────────────────────────────────────────────────────────────
// Portal
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard(t *testing.T) {
	e := newEnv()
	e.repo.On("GetReferrerByID", mock.Anything, "ref-1").Return(&entity.Referrer{ID: "ref-1", TotalPointsBalance: 150}, nil)
	e.repo.On("ReferrerStats", mock.Anything, "ref-1").
		Return(&repository.ReferrerStats{TotalReferrals: 4, SuccessfulReferrals: 1, PendingPoints: 30}, nil)
	e.repo.On("ListByReferrer", mock.Anything, "ref-1").Return([]*entity.Referral{{ID: "rf-1", Status: entity.ReferralPending}}, nil)

	out, err := e.uc.Dashboard(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, 150, out.PointsBalance)
	assert.Equal(t, 4, out.TotalReferrals)
	assert.Equal(t, 1, out.SuccessfulReferrals)
	assert.Equal(t, 30, out.PendingPoints)
	assert.Len(t, out.Referrals, 1)
}

func TestAddReferral_ReintentaCodigoOcupado(t *testing.T) {
	e := newEnv()
	codes := []string{"FFD-R-AAAAA", "FFD-R-BBBBB"}
	e.uc.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}
	e.repo.On("GetReferrerByID", mock.Anything, "ref-1").Return(&entity.Referrer{ID: "ref-1", CompanyID: "c-1", FullName: "Ana"}, nil)
	e.repo.On("CodeExists", mock.Anything, "FFD-R-AAAAA").Return(true, nil)
	e.repo.On("CodeExists", mock.Anything, "FFD-R-BBBBB").Return(false, nil)
	e.repo.On("CreateReferral", mock.Anything, mock.MatchedBy(func(r *entity.Referral) bool {
		return r.ReferralCode == "FFD-R-BBBBB" && r.Status == entity.ReferralPending && r.CompanyID == "c-1"
	})).Return(nil).Once()
	e.repo.On("AddChange", mock.Anything, mock.MatchedBy(func(c *entity.ReferralChange) bool {
		return c.Action == ActionCreated && c.ReferrerID == "ref-1" && c.UserID == ""
	})).Return(nil).Once()

	out, err := e.uc.AddReferral(context.Background(), "ref-1", dto.AddReferralRequest{InviteeName: "Luis", InviteeContact: "3109876543"})
	require.NoError(t, err)
	assert.Equal(t, "FFD-R-BBBBB", out.ReferralCode)
	assert.True(t, e.tx.Committed)
	e.repo.AssertExpectations(t)
}

func TestAddReferral_CamposObligatorios(t *testing.T) {
	e := newEnv()
	_, err := e.uc.AddReferral(context.Background(), "ref-1", dto.AddReferralRequest{InviteeName: "Luis"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRandomCode_Formato(t *testing.T) {
	code, err := randomCode()
	require.NoError(t, err)
	assert.Regexp(t, `^FFD-R-[0-9A-F]{5}$`, code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Staff
// ──────────────────────────────────────────────────────────────────────────────

func TestListReferrals_AlcancePorTienda(t *testing.T) {
	e := newEnv()
	e.repo.On("ListReferrals", mock.Anything, repository.ReferralFilter{CompanyID: "c-1", StoreID: "st-1"}).Return([]*entity.Referral{{ID: "rf-1"}}, nil).Once()
	e.repo.On("ListReferrals", mock.Anything, repository.ReferralFilter{CompanyID: "c-1"}).Return([]*entity.Referral{{ID: "rf-1"}, {ID: "rf-2"}}, nil).Once()

	out, err := e.uc.ListReferrals(context.Background(), salesActor, "")
	require.NoError(t, err)
	assert.Len(t, out, 1)

	out, err = e.uc.ListReferrals(context.Background(), adminActor, "")
	require.NoError(t, err)
	assert.Len(t, out, 2)

	sinTienda := entity.Actor{UserID: "a-2", CompanyID: "c-1", Roles: []string{entity.RoleApprover}}
	out, err = e.uc.ListReferrals(context.Background(), sinTienda, "")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = e.uc.ListReferrals(context.Background(), adminActor, "Ganado")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetReferral_OtraTiendaProhibido(t *testing.T) {
	e := newEnv()
	e.repo.On("GetReferral", mock.Anything, "c-1", "rf-1").Return(&entity.Referral{ID: "rf-1", StoreID: "st-9"}, nil)
	_, err := e.uc.GetReferral(context.Background(), salesActor, "rf-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func stored() *entity.Referral {
	return &entity.Referral{
		ID: "rf-1", CompanyID: "c-1", ReferrerID: "ref-1", StoreID: "st-1", ReferralCode: "FFD-R-12345",
		Status: entity.ReferralPurchased, PurchaseAmount: decimal.RequireFromString("250"), PointsEarned: 40,
	}
}

func TestUpdateReferral_SinCambios(t *testing.T) {
	e := newEnv()
	e.repo.On("GetReferral", mock.Anything, "c-1", "rf-1").Return(stored(), nil)

	_, err := e.uc.UpdateReferral(context.Background(), adminActor, "rf-1", dto.UpdateReferralRequest{
		Status: entity.ReferralPurchased, PurchaseAmount: decimal.RequireFromString("250.00"), PointsEarned: 40,
	})
	assert.ErrorIs(t, err, domain.ErrNoChanges)
	e.repo.AssertNotCalled(t, "UpdateReferral", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateReferral_OtorgaPuntosUnaVez(t *testing.T) {
	e := newEnv()
	e.repo.On("GetReferral", mock.Anything, "c-1", "rf-1").Return(stored(), nil)
	e.repo.On("UpdateReferral", mock.Anything, mock.MatchedBy(func(r *entity.Referral) bool {
		return r.Status == entity.ReferralPointsAwarded && r.PointsAwardedAt != nil && r.UpdatedByUserID == "adm-1" &&
			r.LastContactDate != nil && r.LastContactDate.Day() == 2
	}), entity.ReferralPurchased).Return(true, nil).Once()
	e.repo.On("AddPoints", mock.Anything, "ref-1", 40).Return(nil).Once()
	var actions []string
	e.repo.On("AddChange", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		actions = append(actions, args.Get(1).(*entity.ReferralChange).Action)
	}).Return(nil)
	e.repo.On("ListChanges", mock.Anything, "rf-1").Return(nil, nil)

	_, err := e.uc.UpdateReferral(context.Background(), adminActor, "rf-1", dto.UpdateReferralRequest{
		Status: entity.ReferralPointsAwarded, PurchaseAmount: decimal.RequireFromString("250"), PointsEarned: 40,
		LastContactDate: "2026-05-02",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{ActionStatusChange, ActionLastContact, ActionPointsTransferred}, actions)
	assert.True(t, e.tx.Committed)
	e.repo.AssertExpectations(t)
}

func TestUpdateReferral_YaOtorgadoNoAcreditaDeNuevo(t *testing.T) {
	e := newEnv()
	r := stored()
	r.Status = entity.ReferralPointsAwarded
	e.repo.On("GetReferral", mock.Anything, "c-1", "rf-1").Return(r, nil)
	e.repo.On("UpdateReferral", mock.Anything, mock.Anything, entity.ReferralPointsAwarded).Return(true, nil)
	e.repo.On("AddChange", mock.Anything, mock.Anything).Return(nil)
	e.repo.On("ListChanges", mock.Anything, "rf-1").Return(nil, nil)

	_, err := e.uc.UpdateReferral(context.Background(), adminActor, "rf-1", dto.UpdateReferralRequest{
		Status: entity.ReferralPointsAwarded, PurchaseAmount: decimal.RequireFromString("250"), PointsEarned: 60,
	})
	require.NoError(t, err)
	e.repo.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateReferral_OtorgamientoConcurrenteNoAcreditaDosVeces(t *testing.T) {
	// Dos sesiones leyeron el referido en Purchased; la otra ya lo pasó a Points Awarded.
	e := newEnv()
	e.repo.On("GetReferral", mock.Anything, "c-1", "rf-1").Return(stored(), nil)
	e.repo.On("UpdateReferral", mock.Anything, mock.Anything, entity.ReferralPurchased).Return(false, nil).Once()

	_, err := e.uc.UpdateReferral(context.Background(), adminActor, "rf-1", dto.UpdateReferralRequest{
		Status: entity.ReferralPointsAwarded, PurchaseAmount: decimal.RequireFromString("250"), PointsEarned: 40,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, e.tx.RolledBack)
	e.repo.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
	e.repo.AssertNotCalled(t, "AddChange", mock.Anything, mock.Anything)
	e.audits.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestUpdateReferral_EstadoFueraDeVocabulario(t *testing.T) {
	e := newEnv()
	_, err := e.uc.UpdateReferral(context.Background(), adminActor, "rf-1", dto.UpdateReferralRequest{Status: "Won"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
