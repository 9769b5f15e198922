package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/crewledger/crewledger/internal/app"
	"github.com/crewledger/crewledger/internal/employees"
	"github.com/crewledger/crewledger/internal/invoices"
	"github.com/crewledger/crewledger/internal/notify"
	"github.com/crewledger/crewledger/internal/observability"
	"github.com/crewledger/crewledger/internal/payroll"
	"github.com/crewledger/crewledger/internal/platform/cache"
	"github.com/crewledger/crewledger/internal/platform/db"
	"github.com/crewledger/crewledger/internal/rates"
	"github.com/crewledger/crewledger/internal/reconcile"
	"github.com/crewledger/crewledger/internal/shared"
	"github.com/crewledger/crewledger/internal/timesheets"
	"github.com/crewledger/crewledger/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, sweep locking disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	invoiceRepo := invoices.NewRepository(pool)
	payrollRepo := payroll.NewRepository(pool)
	timesheetRepo := timesheets.NewRepository(pool)
	employeeRepo := employees.NewRepository(pool)
	rateRepo := rates.NewRepository(pool)

	invoiceService := invoices.NewService(invoiceRepo)
	payrollService := payroll.NewService(payrollRepo)
	invoiceService.SetStatusMirror(payrollService)

	mailer := notify.New(notify.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		From: cfg.SMTPFrom,
	})

	reconciler := reconcile.NewService(reconcile.Config{
		Invoices:   invoiceRepo,
		Payrolls:   payrollRepo,
		Timesheets: timesheetRepo,
		Employees:  employeeRepo,
		Rates:      rateRepo,
		Lock:       shared.NewRunLock(redisClient, cfg.RunLockTTL),
		Mailer:     mailer,
		ReportTo:   cfg.ReportRecipient,
		Logger:     logger,
	})

	metrics := observability.NewMetrics()

	invoiceHandler := invoices.NewHandler(logger, invoiceService)
	payrollHandler := payroll.NewHandler(logger, payrollService)
	reconcileHandler := reconcile.NewHandler(logger, reconciler)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		InvoiceHandler:   invoiceHandler,
		PayrollHandler:   payrollHandler,
		ReconcileHandler: reconcileHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
