package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/Gastos-api/internal/application/analytics"
	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/auth"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/expense"
	"github.com/jhoicas/Gastos-api/internal/application/export"
	"github.com/jhoicas/Gastos-api/internal/application/pettycash"
	"github.com/jhoicas/Gastos-api/internal/application/referral"
	"github.com/jhoicas/Gastos-api/internal/application/usecase"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *usecase.CompanyUseCase
	UserUC      *usecase.UserUseCase
	CategoryUC  *usecase.CategoryUseCase
	Employee    *expense.EmployeeUseCase
	Review      *expense.ReviewUseCase
	Payouts     *expense.PayoutUseCase
	Audit       *audit.Recorder
	DashboardUC *analytics.DashboardUseCase
	ReportsUC   *analytics.ReportsUseCase
	AnomalyUC   *analytics.AnomalyUseCase
	ExportUC    *export.UseCase
	ReferralUC  *referral.UseCase
	PettyCashUC *pettycash.UseCase

	Auth           AuthConfig
	Cookie         CookieConfig
	LoginRateLimit int // peticiones por minuto y por IP; 0 = sin límite
}

// Atajos de roles usados en las rutas.
var (
	rolesReviewers  = []string{entity.RoleApprover, entity.RoleAccounts, entity.RoleAdmin, entity.RolePlatformAdmin}
	rolesL1         = []string{entity.RoleApprover, entity.RoleAdmin, entity.RolePlatformAdmin}
	rolesL2         = []string{entity.RoleAccounts, entity.RoleAdmin, entity.RolePlatformAdmin}
	rolesFinance    = []string{entity.RoleAccounts, entity.RoleAdmin, entity.RolePlatformAdmin}
	rolesAdmin      = []string{entity.RoleAdmin, entity.RolePlatformAdmin}
	rolesSubmitters = []string{entity.RoleEmployee, entity.RoleApprover, entity.RoleAccounts, entity.RoleAdmin, entity.RoleSalesTeam}
	rolesReferrals  = []string{entity.RoleAdmin, entity.RoleAccounts, entity.RoleApprover, entity.RoleSalesTeam, entity.RolePlatformAdmin}
)

func loginLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code: "RATE_LIMITED", Message: "demasiados intentos, espere un minuto",
			})
		},
	})
}

// Router registra las rutas de la API.
//
// El orden importa: los grupos sin prefijo propio agregan middleware sobre /api para todo lo que
// se registra después. Primero van las rutas públicas y el portal de referidores, luego las de
// sesión sin empresa y al final las acotadas a una empresa.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.Auth)
	limited := loginLimiter(deps.LoginRateLimit)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)
	api.Post("/auth/login", limited, authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)

	// Portal de referidores
	referralHandler := NewReferralHandler(deps.ReferralUC, deps.Cookie)
	api.Post("/referrer/register", limited, referralHandler.Register)
	api.Post("/referrer/login", limited, referralHandler.Login)
	api.Get("/referrer/dashboard", authMW, RequireReferrer(), referralHandler.Dashboard)
	api.Post("/referrer/referrals", authMW, RequireReferrer(), referralHandler.AddReferral)

	// Rutas protegidas (sesión de usuario)
	session := api.Group("", authMW, RequireUser())
	session.Get("/auth/me", authHandler.Me)
	session.Put("/auth/password", authHandler.ChangePassword)

	// Companies (platform_admin, sin empresa seleccionada)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies := session.Group("/companies", RequireAnyRole(entity.RolePlatformAdmin))
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)

	// Bandeja de revisión: platform_admin sin X-Company-ID ve todas las empresas
	reviewHandler := NewReviewHandler(deps.Review, deps.Payouts)
	session.Get("/review", OptionalCompany(), RequireAnyRole(rolesReviewers...), reviewHandler.Queue)
	session.Get("/review/:id", OptionalCompany(), RequireAnyRole(rolesReviewers...), reviewHandler.GetByID)

	// Desde aquí todo está acotado a la empresa efectiva
	tenant := session.Group("", RequireCompany())
	tenant.Get("/stores", companyHandler.ListStores)

	tenant.Post("/review/:id/approver-decision", RequireAnyRole(rolesL1...), reviewHandler.ApproverDecision)
	tenant.Post("/review/:id/accounts-decision", RequireAnyRole(rolesL2...), reviewHandler.AccountsDecision)
	tenant.Get("/payouts", RequireAnyRole(rolesFinance...), reviewHandler.ListPayouts)
	tenant.Post("/payouts/:id/paid", RequireAnyRole(rolesFinance...), reviewHandler.MarkPaid)

	// Reportes del empleado y billetera de comprobantes
	reportHandler := NewReportHandler(deps.Employee)
	reports := tenant.Group("/reports", RequireAnyRole(rolesSubmitters...))
	reports.Get("/", reportHandler.List)
	reports.Post("/", reportHandler.Create)
	reports.Get("/:id", reportHandler.GetByID)
	reports.Post("/:id/items", reportHandler.AddItem)
	reports.Delete("/:id/items/:item_id", reportHandler.DeleteItem)
	reports.Post("/:id/submit", reportHandler.Submit)
	reports.Post("/:id/read", reportHandler.MarkRead)
	receipts := tenant.Group("/receipts", RequireAnyRole(rolesSubmitters...))
	receipts.Get("/", reportHandler.ListReceipts)
	receipts.Post("/", reportHandler.UploadReceipt)

	// Categories: lectura de activas para todos, administración solo admin
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	tenant.Get("/categories/active", categoryHandler.ListActive)
	categories := tenant.Group("/categories", RequireAnyRole(rolesAdmin...))
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Users (admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := tenant.Group("/users", RequireAnyRole(rolesAdmin...))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Audit (admin)
	auditHandler := NewAuditHandler(deps.Audit)
	tenant.Get("/audit-logs", RequireAnyRole(rolesAdmin...), auditHandler.List)

	// Dashboard y analítica
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	analyticsHandler := NewAnalyticsHandler(deps.ReportsUC, deps.AnomalyUC)
	tenant.Get("/dashboard", RequireAnyRole(rolesFinance...), dashboardHandler.GetDashboard)
	tenant.Get("/departments", RequireAnyRole(rolesFinance...), dashboardHandler.GetDepartments)
	tenant.Get("/analytics/reports", RequireAnyRole(rolesFinance...), analyticsHandler.GetReportsSummary)
	tenant.Get("/analytics/anomalies", RequireAnyRole(rolesFinance...), analyticsHandler.GetAnomalies)

	// Exportaciones
	exportHandler := NewExportHandler(deps.ExportUC)
	tenant.Get("/exports/reports", RequireAnyRole(rolesFinance...), exportHandler.ExportReports)
	tenant.Get("/exports/reports/:id/pdf", exportHandler.ReportPDF)
	tenant.Get("/exports/anomalies/pdf", RequireAnyRole(rolesFinance...), exportHandler.AnomalyPDF)

	// Referidos (personal)
	tenant.Get("/referrals", RequireAnyRole(rolesReferrals...), referralHandler.List)
	tenant.Get("/referrals/:id", RequireAnyRole(rolesReferrals...), referralHandler.GetByID)
	tenant.Put("/referrals/:id", RequireAnyRole(rolesReferrals...), referralHandler.Update)
	tenant.Get("/referrers", RequireAnyRole(rolesAdmin...), referralHandler.ListReferrers)

	// Caja menor
	pettyHandler := NewPettyCashHandler(deps.PettyCashUC)
	petty := tenant.Group("/petty-cash")
	petty.Get("/wallets", RequireAnyRole(rolesFinance...), pettyHandler.ListWallets)
	petty.Post("/wallets", RequireAnyRole(rolesFinance...), pettyHandler.CreateWallet)
	petty.Post("/wallets/:id/funds", RequireAnyRole(rolesFinance...), pettyHandler.AddFunds)
	petty.Get("/statements/:user_id", RequireAnyRole(rolesReviewers...), pettyHandler.Statement)
}
