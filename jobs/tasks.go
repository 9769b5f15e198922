package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/crewledger/crewledger/internal/notify"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskInvoiceSweep advances invoice statuses and fills in missing
	// payroll entries.
	TaskInvoiceSweep = "reconcile:invoices"
	// TaskTimesheetSweep turns a month of pending timesheets into
	// invoices and payroll entries.
	TaskTimesheetSweep = "reconcile:timesheets"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// SendEmailHandler processes TaskTypeSendEmail tasks through a Mailer.
type SendEmailHandler struct {
	Mailer notify.Mailer
	Logger *slog.Logger
}

// Handle implements the asynq handler contract.
func (h *SendEmailHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if h == nil || h.Mailer == nil {
		return nil
	}
	if err := h.Mailer.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("send email", slog.String("to", payload.To), slog.Any("error", err))
		}
		return err
	}
	return nil
}

// InvoiceSweepPayload configures an invoice sweep run. Empty payloads
// are valid; the sweep always covers every invoice.
type InvoiceSweepPayload struct{}

// NewInvoiceSweepTask constructs an invoice sweep task.
func NewInvoiceSweepTask() (*asynq.Task, error) {
	data, err := json.Marshal(InvoiceSweepPayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceSweep, data), nil
}

// TimesheetSweepPayload configures a timesheet sweep run. A zero year
// and month means "the previous calendar month at execution time",
// which is what the monthly cron schedule wants.
type TimesheetSweepPayload struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Resolve fills in the previous month relative to now when the payload
// does not pin a period.
func (p TimesheetSweepPayload) Resolve(now time.Time) (int, time.Month, error) {
	if p.Year == 0 && p.Month == 0 {
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return prev.Year(), prev.Month(), nil
	}
	if p.Month < 1 || p.Month > 12 {
		return 0, 0, fmt.Errorf("jobs: month %d out of range", p.Month)
	}
	return p.Year, time.Month(p.Month), nil
}

// NewTimesheetSweepTask constructs a timesheet sweep task.
func NewTimesheetSweepTask(payload TimesheetSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTimesheetSweep, data), nil
}
