package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gastos-api/internal/application/analytics"
	"github.com/jhoicas/Gastos-api/internal/application/auth"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/expense"
	"github.com/jhoicas/Gastos-api/internal/application/export"
	"github.com/jhoicas/Gastos-api/internal/application/mocks"
	"github.com/jhoicas/Gastos-api/internal/application/pettycash"
	"github.com/jhoicas/Gastos-api/internal/application/referral"
	"github.com/jhoicas/Gastos-api/internal/application/usecase"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/domain/repository"
	"github.com/jhoicas/Gastos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Gastos-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Gastos-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/Gastos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Gastos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno: router completo sobre repositorios mock
// ──────────────────────────────────────────────────────────────────────────────

type routerEnv struct {
	users      *mocks.UserRepository
	companies  *mocks.CompanyRepository
	stores     *mocks.StoreRepository
	categories *mocks.CategoryRepository
	reports    *mocks.ExpenseReportRepository
	receipts   *mocks.ReceiptRepository
	petty      *mocks.PettyCashRepository
	referrals  *mocks.ReferralRepository
	analytics  *mocks.AnalyticsRepository
	anomalies  *mocks.AnomalyRepository
	app        *fiber.App
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	e := &routerEnv{
		users:      new(mocks.UserRepository),
		companies:  new(mocks.CompanyRepository),
		stores:     new(mocks.StoreRepository),
		categories: new(mocks.CategoryRepository),
		reports:    new(mocks.ExpenseReportRepository),
		receipts:   new(mocks.ReceiptRepository),
		petty:      new(mocks.PettyCashRepository),
		referrals:  new(mocks.ReferralRepository),
		analytics:  new(mocks.AnalyticsRepository),
		anomalies:  new(mocks.AnomalyRepository),
	}
	tx := &mocks.TxRunner{Repos: repository.TxRepos{Reports: e.reports, Receipts: e.receipts, PettyCash: e.petty, Referrals: e.referrals}}
	jwtCfg := auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}

	authUC := auth.NewAuthUseCase(e.users, e.companies, nil, jwtCfg)
	anomalyUC := analytics.NewAnomalyUseCase(e.anomalies, e.analytics, nil, nil)

	e.app = fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(e.app, apphttp.RouterDeps{
		AuthUC:     authUC,
		CompanyUC:  usecase.NewCompanyUseCase(e.companies, e.stores, nil),
		UserUC:     usecase.NewUserUseCase(e.users, e.stores, nil),
		CategoryUC: usecase.NewCategoryUseCase(e.categories, nil),
		Employee: expense.NewEmployeeUseCase(expense.EmployeeDeps{
			Reports: e.reports, Receipts: e.receipts, Categories: e.categories, Stores: e.stores,
			Users: e.users, Tx: tx, Storage: storage.NewLocalReceipts(t.TempDir(), "/uploads/receipts"),
		}),
		Review:      expense.NewReviewUseCase(e.reports, tx, nil, nil),
		Payouts:     expense.NewPayoutUseCase(e.reports, nil, nil),
		DashboardUC: analytics.NewDashboardUseCase(e.analytics, nil),
		ReportsUC:   analytics.NewReportsUseCase(e.reports, e.analytics, nil),
		AnomalyUC:   anomalyUC,
		ExportUC: export.NewUseCase(export.Deps{
			Reports: e.reports, Companies: e.companies, Anomalies: anomalyUC,
			Encoders: spreadsheet.Encoders(), PDF: pdf.NewMarotoPDFGenerator(), CurrencySymbol: "Rs.",
		}),
		ReferralUC:  referral.NewUseCase(e.referrals, e.companies, e.stores, tx, nil, jwtCfg),
		PettyCashUC: pettycash.NewUseCase(e.petty, e.users, tx, nil),
		Auth:        apphttp.AuthConfig{Secret: testJWTSecret, CookieName: testCookie, Sessions: authUC},
		Cookie:      apphttp.CookieConfig{Name: testCookie, MaxAge: 24 * time.Hour},
	})
	return e
}

// sessionFor registra al usuario en el mock (validación de sesión) y devuelve su Bearer.
func (e *routerEnv) sessionFor(t *testing.T, u *entity.User) string {
	t.Helper()
	e.users.On("GetByID", mock.Anything, u.ID).Return(u, nil)
	return "Bearer " + tokenFor(t, pkgjwt.Identity{UserID: u.ID, CompanyID: u.CompanyID, Roles: u.Roles, Name: u.FullName})
}

func (e *routerEnv) do(t *testing.T, method, path, bearer string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

var (
	employee = &entity.User{ID: "u-1", CompanyID: "c-1", FullName: "Ana", Email: "ana@acme.com", Roles: []string{entity.RoleEmployee}}
	admin    = &entity.User{ID: "adm-1", CompanyID: "c-1", FullName: "Admin", Roles: []string{entity.RoleAdmin}}
	accounts = &entity.User{ID: "acc-1", CompanyID: "c-1", FullName: "Carla", Roles: []string{entity.RoleAccounts}}
	platform = &entity.User{ID: "pa-1", FullName: "Root", Roles: []string{entity.RolePlatformAdmin}}
)

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EntregaTokenYCookieHttpOnly(t *testing.T) {
	e := newRouterEnv(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	e.companies.On("GetByCode", mock.Anything, "ACME").Return(&entity.Company{ID: "c-1", Code: "ACME"}, nil)
	u := *employee
	u.PasswordHash = string(hash)
	e.users.On("GetByEmail", mock.Anything, "c-1", "ana@acme.com").Return(&u, nil)

	resp := e.do(t, http.MethodPost, "/api/auth/login", "",
		strings.NewReader(`{"company_code":"acme","email":"ana@acme.com","password":"secreto123"}`), nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "u-1", out.User.ID)

	ck := sessionCookie(resp)
	require.NotNil(t, ck, "el login debe entregar la cookie de sesión")
	assert.Equal(t, out.Token, ck.Value)
	assert.True(t, ck.HttpOnly)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	e := newRouterEnv(t)
	e.companies.On("GetByCode", mock.Anything, "ACME").Return(&entity.Company{ID: "c-1"}, nil)
	e.users.On("GetByEmail", mock.Anything, "c-1", "nadie@acme.com").Return(nil, nil)

	resp := e.do(t, http.MethodPost, "/api/auth/login", "",
		strings.NewReader(`{"company_code":"ACME","email":"nadie@acme.com","password":"x"}`), nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Code)
}

func TestMe_ConCookie(t *testing.T) {
	e := newRouterEnv(t)
	e.users.On("GetByID", mock.Anything, employee.ID).Return(employee, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: tokenFor(t, pkgjwt.Identity{
		UserID: employee.ID, CompanyID: employee.CompanyID, Roles: employee.Roles,
	})})
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.SessionUser
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ana@acme.com", out.Email)
}

func TestSesion_UsuarioEliminado_SessionError(t *testing.T) {
	e := newRouterEnv(t)
	e.users.On("GetByID", mock.Anything, "u-borrado").Return(nil, nil)
	bearer := "Bearer " + tokenFor(t, pkgjwt.Identity{UserID: "u-borrado", CompanyID: "c-1", Roles: []string{"employee"}})

	resp := e.do(t, http.MethodGet, "/api/reports", bearer, nil, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "SESSION_ERROR", decodeError(t, resp).Code)
}

func TestLogout_BorraCookie(t *testing.T) {
	e := newRouterEnv(t)
	resp := e.do(t, http.MethodPost, "/api/auth/logout", "", nil, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	ck := sessionCookie(resp)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización y empresa efectiva
// ──────────────────────────────────────────────────────────────────────────────

func TestCompanies_SoloPlatformAdmin(t *testing.T) {
	e := newRouterEnv(t)
	resp := e.do(t, http.MethodGet, "/api/companies", e.sessionFor(t, admin), nil, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPayouts_PlatformAdminSinEmpresa(t *testing.T) {
	e := newRouterEnv(t)
	resp := e.do(t, http.MethodGet, "/api/payouts", e.sessionFor(t, platform), nil, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "COMPANY_REQUIRED", decodeError(t, resp).Code)
}

func TestPayouts_PlatformAdminConEmpresaSeleccionada(t *testing.T) {
	e := newRouterEnv(t)
	e.reports.On("ListPayouts", mock.Anything, "c-9").Return([]repository.PayoutRow{}, nil)

	resp := e.do(t, http.MethodGet, "/api/payouts", e.sessionFor(t, platform), nil,
		map[string]string{apphttp.HeaderCompanyID: "c-9"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	e.reports.AssertExpectations(t)
}

func TestReviewQueue_PlatformAdminVeTodasLasEmpresas(t *testing.T) {
	e := newRouterEnv(t)
	e.reports.On("ListReviewQueue", mock.Anything, mock.MatchedBy(func(f repository.ReviewQueueFilter) bool {
		return f.CompanyID == ""
	})).Return([]*entity.ExpenseReport{
		{ID: "r-1", CompanyID: "c-1", Status: entity.StatusPendingApproval},
		{ID: "r-2", CompanyID: "c-2", Status: entity.StatusPendingVerification},
	}, nil)

	resp := e.do(t, http.MethodGet, "/api/review", e.sessionFor(t, platform), nil, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []dto.ReportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out, 2)
}

func TestReviewQueue_EmpleadoNoAccede(t *testing.T) {
	e := newRouterEnv(t)
	resp := e.do(t, http.MethodGet, "/api/review", e.sessionFor(t, employee), nil, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestReferidor_NoAccedeAlPortalDeUsuarios(t *testing.T) {
	e := newRouterEnv(t)
	bearer := "Bearer " + tokenFor(t, pkgjwt.Identity{Kind: pkgjwt.KindReferrer, UserID: "ref-1", CompanyID: "c-1"})

	resp := e.do(t, http.MethodGet, "/api/auth/me", bearer, nil, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPortalReferidor_RechazaSesionDeUsuario(t *testing.T) {
	e := newRouterEnv(t)
	resp := e.do(t, http.MethodGet, "/api/referrer/dashboard", e.sessionFor(t, employee), nil, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Handlers
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkPaid_DosVecesEsConflicto(t *testing.T) {
	e := newRouterEnv(t)
	e.reports.On("MarkPaid", mock.Anything, "c-1", "r-1", mock.Anything).Return(false, nil)

	resp := e.do(t, http.MethodPost, "/api/payouts/r-1/paid", e.sessionFor(t, accounts), nil, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decodeError(t, resp).Code)
}

func TestCategoryCreate_DuplicadoYParecidas(t *testing.T) {
	e := newRouterEnv(t)
	e.categories.On("List", mock.Anything, "c-1").Return([]*entity.ExpenseCategory{{ID: "cat-1", Name: "Travel"}}, nil)
	e.categories.On("Create", mock.Anything, mock.AnythingOfType("*entity.ExpenseCategory")).Return(nil)
	bearer := e.sessionFor(t, admin)

	dup := e.do(t, http.MethodPost, "/api/categories", bearer, strings.NewReader(`{"name":"Travel"}`), nil)
	defer dup.Body.Close()
	assert.Equal(t, http.StatusConflict, dup.StatusCode)
	assert.Equal(t, "DUPLICATE", decodeError(t, dup).Code)

	ok := e.do(t, http.MethodPost, "/api/categories", bearer, strings.NewReader(`{"name":"Travels"}`), nil)
	defer ok.Body.Close()
	require.Equal(t, http.StatusCreated, ok.StatusCode)
	var out dto.CategorySaveResponse
	require.NoError(t, json.NewDecoder(ok.Body).Decode(&out))
	assert.Equal(t, "Travels", out.Category.Name)
	assert.Equal(t, []string{"Travel"}, out.Similar)
}

func TestCategoriasActivas_EmpleadoPuedeLeer(t *testing.T) {
	e := newRouterEnv(t)
	e.categories.On("ListActive", mock.Anything, "c-1").Return([]*entity.ExpenseCategory{{ID: "cat-1", Name: "Meals", IsActive: true}}, nil)

	resp := e.do(t, http.MethodGet, "/api/categories/active", e.sessionFor(t, employee), nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	admins := e.do(t, http.MethodGet, "/api/categories", e.sessionFor(t, employee), nil, nil)
	defer admins.Body.Close()
	assert.Equal(t, http.StatusForbidden, admins.StatusCode, "el listado completo es solo para admin")
}

func TestUploadReceipt_Multipart(t *testing.T) {
	e := newRouterEnv(t)
	e.receipts.On("Create", mock.Anything, mock.AnythingOfType("*entity.Receipt")).Return(nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "taxi.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4 comprobante"))
	require.NoError(t, w.WriteField("notes", "taxi aeropuerto"))
	require.NoError(t, w.Close())

	resp := e.do(t, http.MethodPost, "/api/receipts", e.sessionFor(t, employee), &buf,
		map[string]string{"Content-Type": w.FormDataContentType()})
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.ReceiptResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, strings.HasPrefix(out.ReceiptURL, "/uploads/receipts/c-1/u-1/"))
	assert.Equal(t, "taxi aeropuerto", out.Notes)
}

func TestUploadReceipt_SinArchivo(t *testing.T) {
	e := newRouterEnv(t)
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("notes", "sin archivo"))
	require.NoError(t, w.Close())

	resp := e.do(t, http.MethodPost, "/api/receipts", e.sessionFor(t, employee), &buf,
		map[string]string{"Content-Type": w.FormDataContentType()})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportReports_CSVDescargable(t *testing.T) {
	e := newRouterEnv(t)
	e.reports.On("ListReports", mock.Anything, repository.ReportFilter{CompanyID: "c-1"}).
		Return([]*entity.ExpenseReport{{Title: "Viaje", EmployeeName: "Ana", Status: entity.StatusPaid}}, nil)

	resp := e.do(t, http.MethodGet, "/api/exports/reports", e.sessionFor(t, accounts), nil, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `attachment; filename="expense_report_`)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Employee Name")
	assert.Contains(t, string(body), "Viaje")
}

func TestExportReports_EmpleadoNoPuede(t *testing.T) {
	e := newRouterEnv(t)
	resp := e.do(t, http.MethodGet, "/api/exports/reports?format=xlsx", e.sessionFor(t, employee), nil, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDashboard_FechaInvalida(t *testing.T) {
	e := newRouterEnv(t)
	resp := e.do(t, http.MethodGet, "/api/dashboard?start_date=2026-13-01", e.sessionFor(t, admin), nil, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}
