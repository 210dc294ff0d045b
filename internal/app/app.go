package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/steffin35/student-report-app/internal/account"
	"github.com/steffin35/student-report-app/internal/auth"
	"github.com/steffin35/student-report-app/internal/config"
	"github.com/steffin35/student-report-app/internal/db"
	"github.com/steffin35/student-report-app/internal/health"
	"github.com/steffin35/student-report-app/internal/logger"
	"github.com/steffin35/student-report-app/internal/meeting"
	"github.com/steffin35/student-report-app/internal/metrics"
	"github.com/steffin35/student-report-app/internal/middleware"
	"github.com/steffin35/student-report-app/internal/notify"
	"github.com/steffin35/student-report-app/internal/report"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

type App struct {
	config   *config.Config
	router   chi.Router
	server   *http.Server
	logger   *slog.Logger
	accounts *bun.DB
	reports  *bun.DB
	producer *notify.Producer
}

func New() *App {
	slogLogger := logger.NewWithServiceContext("student-report-app", Version)

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	m, err := metrics.New("student-report-app", slogLogger)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}

	hasher, err := auth.NewHasher(cfg.Auth.PasswordScheme)
	if err != nil {
		log.Fatalf("failed to initialize password hasher: %v", err)
	}

	// Two independent stores; never transactionally coordinated.
	accountsDB, err := db.Open(cfg.Accounts)
	if err != nil {
		log.Fatal("failed to open accounts store:", err)
	}
	reportsDB, err := db.Open(cfg.Reports)
	if err != nil {
		log.Fatal("failed to open reports store:", err)
	}
	app.accounts = accountsDB
	app.reports = reportsDB

	ctx := context.Background()
	if err := db.EnsureSchema(ctx, accountsDB,
		(*account.Teacher)(nil),
		(*account.Student)(nil),
		(*account.ParentLink)(nil),
		(*meeting.Request)(nil),
	); err != nil {
		log.Fatal("failed to ensure accounts schema:", err)
	}
	if err := db.EnsureSchema(ctx, reportsDB, (*report.Report)(nil)); err != nil {
		log.Fatal("failed to ensure reports schema:", err)
	}
	if err := account.Migrate(ctx, accountsDB, cfg.Admin.Username); err != nil {
		log.Fatal("failed to migrate accounts store:", err)
	}
	if err := account.SeedAdmin(ctx, accountsDB, hasher, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.FullName); err != nil {
		log.Fatal("failed to seed admin account:", err)
	}

	// Apply CORS middleware globally
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	tokenTTL := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	otpIssuer := auth.NewOTPIssuer(cfg.Auth.OTPSecret)

	// NATS producer setup (optional; decisions are published for the mail gateway)
	if cfg.NATS.URL != "" {
		producer, err := notify.NewProducer(cfg.NATS.URL, cfg.NATS.Subject, slogLogger)
		if err != nil {
			slogLogger.Warn("failed to initialize NATS producer", "error", err)
		} else {
			app.producer = producer
			slogLogger.Info("NATS producer initialized successfully")
		}
	}

	// Account setup
	accountRepo := account.NewRepository(accountsDB, m)
	accountService := account.NewService(accountRepo, hasher)
	accountHandler := account.NewHandler(accountService, otpIssuer, slogLogger, m, cfg.Auth.JWTSecret, tokenTTL)
	accountHandler.RegisterAuthRoutes(app.router)

	// Report setup
	reportRepo := report.NewRepository(reportsDB, m)
	reportService := report.NewService(reportRepo, accountService, m)
	reportHandler := report.NewHandler(reportService, slogLogger)

	// Meeting setup
	meetingRepo := meeting.NewRepository(accountsDB, m)
	meetingService := meeting.NewService(meetingRepo, accountService, app.producer, m, slogLogger)
	meetingHandler := meeting.NewHandler(meetingService, slogLogger)

	// Create protected routes group for /api endpoints
	app.router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.JWTSecret, slogLogger))

		accountHandler.RegisterRoutes(r)
		reportHandler.RegisterRoutes(r)
		meetingHandler.RegisterRoutes(r)

		r.Group(func(tr chi.Router) {
			tr.Use(auth.RequireRole(auth.RoleTeacher))
			accountHandler.RegisterTeacherRoutes(tr)
			reportHandler.RegisterTeacherRoutes(tr)
			meetingHandler.RegisterTeacherRoutes(tr)
		})
	})

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}

	a.producer.Close()
	db.Close(a.accounts)
	db.Close(a.reports)
	return nil
}
