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

// TimesheetSweepJob turns a month of pending approved timesheets into
// invoices and their payroll entries. On the cron schedule the payload
// is empty and the sweep covers the previous calendar month.
type TimesheetSweepJob struct {
	Reconciler *reconcile.Service
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
	clock      func() time.Time
}

// NewTimesheetSweepJob initialises the timesheet sweep handler.
func NewTimesheetSweepJob(reconciler *reconcile.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *TimesheetSweepJob {
	return &TimesheetSweepJob{
		Reconciler: reconciler,
		Logger:     logger,
		Metrics:    metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the timesheet sweep for the resolved period.
func (j *TimesheetSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reconciler == nil {
		return errors.New("timesheet sweep: handler not configured")
	}
	var payload TimesheetSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	year, month, err := payload.Resolve(j.now())
	if err != nil {
		return asynq.SkipRetry
	}

	start := time.Now()
	tracker := j.metrics().Track(TaskTimesheetSweep)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(
		slog.Int("year", year),
		slog.Int("month", int(month)),
	)
	logger.Info("starting timesheet sweep")

	report := j.Reconciler.ProcessAllPendingTimesheets(ctx, year, month)
	j.metrics().AddDocuments(TaskTimesheetSweep, "invoice", report.InvoicesCreated)
	j.metrics().AddDocuments(TaskTimesheetSweep, "payroll", report.PayrollsCreated)
	if len(report.Errors) > 0 {
		resultErr = errors.New("timesheet sweep: completed with errors")
	}

	logger.Info("completed timesheet sweep",
		slog.String("run_id", report.RunID),
		slog.Int("processed", report.Processed),
		slog.Int("invoices_created", report.InvoicesCreated),
		slog.Int("payrolls_created", report.PayrollsCreated),
		slog.Int("errors", len(report.Errors)),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *TimesheetSweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTimesheetSweep))
	}
	return slog.Default().With(slog.String("job", TaskTimesheetSweep))
}

func (j *TimesheetSweepJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *TimesheetSweepJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
