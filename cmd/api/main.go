package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Gastos-api/internal/application/analytics"
	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/auth"
	"github.com/jhoicas/Gastos-api/internal/application/expense"
	"github.com/jhoicas/Gastos-api/internal/application/export"
	"github.com/jhoicas/Gastos-api/internal/application/pettycash"
	"github.com/jhoicas/Gastos-api/internal/application/referral"
	"github.com/jhoicas/Gastos-api/internal/application/usecase"
	"github.com/jhoicas/Gastos-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Gastos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Gastos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gastos-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Gastos-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Gastos-api/internal/interfaces/http"
	"github.com/jhoicas/Gastos-api/pkg/config"
	"github.com/jhoicas/Gastos-api/pkg/logger"
)

const receiptsURLPrefix = "/uploads/receipts"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	m := metrics.New("gastos")

	companyRepo := postgres.NewCompanyRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	reportRepo := postgres.NewExpenseReportRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	pettyRepo := postgres.NewPettyCashRepository(pool)
	referralRepo := postgres.NewReferralRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// La auditoría se escribe fuera de la transacción del caso de uso.
	recorder := audit.NewRecorder(postgres.NewAuditLogRepository(pool), m, log)

	jwtCfg := auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, recorder, jwtCfg)
	companyUC := usecase.NewCompanyUseCase(companyRepo, storeRepo, recorder)
	userUC := usecase.NewUserUseCase(userRepo, storeRepo, recorder)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, recorder)

	employeeUC := expense.NewEmployeeUseCase(expense.EmployeeDeps{
		Reports:        reportRepo,
		Receipts:       receiptRepo,
		Categories:     categoryRepo,
		Stores:         storeRepo,
		Users:          userRepo,
		Tx:             txRunner,
		Storage:        storage.NewLocalReceipts(cfg.Storage.ReceiptsDir, receiptsURLPrefix),
		Audit:          recorder,
		Observer:       m,
		MaxUploadBytes: int64(cfg.Storage.MaxUploadMB) << 20,
	})
	reviewUC := expense.NewReviewUseCase(reportRepo, txRunner, recorder, m)
	payoutUC := expense.NewPayoutUseCase(reportRepo, recorder, m)

	dashboardUC := analytics.NewDashboardUseCase(analyticsRepo, log)
	reportsUC := analytics.NewReportsUseCase(reportRepo, analyticsRepo, log)
	anomalyUC := analytics.NewAnomalyUseCase(analyticsRepo, analyticsRepo, m, log)

	// PDF (maroto) y planillas CSV/XLSX para las descargas.
	exportUC := export.NewUseCase(export.Deps{
		Reports:        reportRepo,
		Companies:      companyRepo,
		Anomalies:      anomalyUC,
		Encoders:       spreadsheet.Encoders(),
		PDF:            infrapdf.NewMarotoPDFGenerator(),
		CurrencySymbol: cfg.App.CurrencySymbol,
	})
	referralUC := referral.NewUseCase(referralRepo, companyRepo, storeRepo, txRunner, recorder, jwtCfg)
	pettyCashUC := pettycash.NewUseCase(pettyRepo, userRepo, txRunner, recorder)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    (cfg.Storage.MaxUploadMB + 1) << 20,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + httpRouter.HeaderCompanyID,
		AllowCredentials: cfg.HTTP.AllowedOrigins != "*",
	}))
	app.Use(httpRouter.RequestLogger(log, m))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.DocsPath,
			Path:     "docs",
			Title:    "Gastos API",
		}))
	} else {
		log.Warn().Str("path", cfg.App.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}
	app.Static(receiptsURLPrefix, cfg.Storage.ReceiptsDir)

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   companyUC,
		UserUC:      userUC,
		CategoryUC:  categoryUC,
		Employee:    employeeUC,
		Review:      reviewUC,
		Payouts:     payoutUC,
		Audit:       recorder,
		DashboardUC: dashboardUC,
		ReportsUC:   reportsUC,
		AnomalyUC:   anomalyUC,
		ExportUC:    exportUC,
		ReferralUC:  referralUC,
		PettyCashUC: pettyCashUC,
		Auth: httpRouter.AuthConfig{
			Secret:       cfg.JWT.Secret,
			CookieName:   cfg.Session.CookieName,
			CookieSecure: cfg.Session.CookieSecure,
			Sessions:     authUC,
		},
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			MaxAge: time.Duration(cfg.JWT.Expiration) * time.Minute,
		},
		LoginRateLimit: cfg.HTTP.RateLimit,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
