package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/crewledger/crewledger/internal/app"
	"github.com/crewledger/crewledger/internal/employees"
	"github.com/crewledger/crewledger/internal/invoices"
	jobmetrics "github.com/crewledger/crewledger/internal/jobs"
	"github.com/crewledger/crewledger/internal/notify"
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
		slog.Default().Info("test mode detected, skipping worker startup")
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
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	mailer := notify.New(notify.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		From: cfg.SMTPFrom,
	})

	reconciler := reconcile.NewService(reconcile.Config{
		Invoices:   invoices.NewRepository(pool),
		Payrolls:   payroll.NewRepository(pool),
		Timesheets: timesheets.NewRepository(pool),
		Employees:  employees.NewRepository(pool),
		Rates:      rates.NewRepository(pool),
		Lock:       shared.NewRunLock(redisClient, cfg.RunLockTTL),
		Mailer:     mailer,
		ReportTo:   cfg.ReportRecipient,
		Logger:     logger,
	})

	metrics := jobmetrics.NewMetrics(nil)
	invoiceSweep := jobs.NewInvoiceSweepJob(reconciler, logger, metrics)
	timesheetSweep := jobs.NewTimesheetSweepJob(reconciler, logger, metrics)
	emailHandler := &jobs.SendEmailHandler{Mailer: mailer, Logger: logger}

	invoiceSweepTask, err := jobs.NewInvoiceSweepTask()
	if err != nil {
		logger.Error("build invoice sweep task", slog.Any("error", err))
		os.Exit(1)
	}
	timesheetSweepTask, err := jobs.NewTimesheetSweepTask(jobs.TimesheetSweepPayload{})
	if err != nil {
		logger.Error("build timesheet sweep task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskInvoiceSweep, Handler: invoiceSweep.Handle},
			{Type: jobs.TaskTimesheetSweep, Handler: timesheetSweep.Handle},
			{Type: jobs.TaskTypeSendEmail, Handler: emailHandler.Handle},
		},
		Cron: []jobs.CronRegistration{
			// Statuses advance with the calendar, so invoices sweep daily.
			{Spec: "30 1 * * *", Task: invoiceSweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			// The previous month's timesheets close out on the 1st.
			{Spec: "0 3 1 * *", Task: timesheetSweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
