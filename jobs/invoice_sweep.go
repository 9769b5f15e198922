package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/crewledger/crewledger/internal/jobs"
	"github.com/crewledger/crewledger/internal/reconcile"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// InvoiceSweepJob walks every invoice, advances calendar-driven payment
// statuses and backfills missing payroll entries.
type InvoiceSweepJob struct {
	Reconciler *reconcile.Service
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
}

// NewInvoiceSweepJob initialises the invoice sweep handler.
func NewInvoiceSweepJob(reconciler *reconcile.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *InvoiceSweepJob {
	return &InvoiceSweepJob{Reconciler: reconciler, Logger: logger, Metrics: metrics}
}

// Handle executes a full invoice sweep.
func (j *InvoiceSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reconciler == nil {
		return errors.New("invoice sweep: handler not configured")
	}
	var payload InvoiceSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := time.Now()
	tracker := j.metrics().Track(TaskInvoiceSweep)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting invoice sweep")

	report := j.Reconciler.ProcessAllInvoices(ctx)
	j.metrics().AddDocuments(TaskInvoiceSweep, "payroll", report.PayrollsCreated)
	if len(report.Errors) > 0 {
		resultErr = errors.New("invoice sweep: completed with errors")
	}

	logger.Info("completed invoice sweep",
		slog.String("run_id", report.RunID),
		slog.Int("processed", report.Processed),
		slog.Int("statuses_updated", report.StatusesUpdated),
		slog.Int("payrolls_created", report.PayrollsCreated),
		slog.Int("errors", len(report.Errors)),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *InvoiceSweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskInvoiceSweep))
	}
	return slog.Default().With(slog.String("job", TaskInvoiceSweep))
}

func (j *InvoiceSweepJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
