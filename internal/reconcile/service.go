// Package reconcile orchestrates the document lifecycle: timesheet
// months become invoices, invoices become payroll entries, and payment
// statuses advance with the calendar. Every operation is idempotent;
// re-running a batch after a timeout or crash is always safe because the
// matcher re-checks existing state on each pass.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crewledger/crewledger/internal/earnings"
	"github.com/crewledger/crewledger/internal/employees"
	"github.com/crewledger/crewledger/internal/invoices"
	"github.com/crewledger/crewledger/internal/payroll"
	"github.com/crewledger/crewledger/internal/rates"
	"github.com/crewledger/crewledger/internal/shared"
	"github.com/crewledger/crewledger/internal/timesheets"
)

// InvoiceStore is the invoice persistence surface the reconciler needs.
type InvoiceStore interface {
	Create(ctx context.Context, input invoices.CreateInvoiceInput) (int64, error)
	GetByID(ctx context.Context, id int64) (*invoices.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*invoices.Invoice, error)
	List(ctx context.Context, req invoices.ListRequest) ([]invoices.Invoice, error)
	UpdateStatus(ctx context.Context, id int64, status invoices.Status) error
}

// PayrollStore is the payroll persistence surface the reconciler needs.
type PayrollStore interface {
	Create(ctx context.Context, input payroll.CreateEntryInput) (int64, error)
	List(ctx context.Context, req payroll.ListRequest) ([]payroll.Entry, error)
}

// TimesheetStore reads clock records.
type TimesheetStore interface {
	ListForEmployeeMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]timesheets.Record, error)
	ListPendingForMonth(ctx context.Context, year int, month time.Month) ([]timesheets.Record, error)
}

// EmployeeStore reads employee and site master data.
type EmployeeStore interface {
	GetEmployee(ctx context.Context, id string) (*employees.Employee, error)
	GetSite(ctx context.Context, id string) (*employees.Site, error)
}

// RateStore reads pay-rate master data.
type RateStore interface {
	ListByEmployee(ctx context.Context, employeeID string) ([]rates.RateEntry, error)
}

// Mailer delivers run reports. Best effort: a send failure is logged and
// never fails a run.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service is the reconciliation orchestrator. All state lives in the
// stores; a Service instance carries no run state and is safe to share.
type Service struct {
	invoices   InvoiceStore
	payrolls   PayrollStore
	timesheets TimesheetStore
	employees  EmployeeStore
	rates      RateStore

	lock     *shared.RunLock
	mailer   Mailer
	reportTo string
	logger   *slog.Logger
	clock    func() time.Time
}

// Config collects the orchestrator's collaborators.
type Config struct {
	Invoices   InvoiceStore
	Payrolls   PayrollStore
	Timesheets TimesheetStore
	Employees  EmployeeStore
	Rates      RateStore
	Lock       *shared.RunLock
	Mailer     Mailer
	ReportTo   string
	Logger     *slog.Logger
}

// NewService builds the orchestrator.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		invoices:   cfg.Invoices,
		payrolls:   cfg.Payrolls,
		timesheets: cfg.Timesheets,
		employees:  cfg.Employees,
		rates:      cfg.Rates,
		lock:       cfg.Lock,
		mailer:     cfg.Mailer,
		reportTo:   cfg.ReportTo,
		logger:     logger,
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source, for tests.
func (s *Service) SetClock(clock func() time.Time) {
	if clock != nil {
		s.clock = clock
	}
}

// ProcessSingleInvoice advances one invoice's status and ensures its
// payroll counterpart exists. Unlike the batch sweep, a missing invoice
// id is surfaced as an error.
func (s *Service) ProcessSingleInvoice(ctx context.Context, id int64) (InvoiceOutcome, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return InvoiceOutcome{}, err
	}
	existing, err := s.payrolls.List(ctx, payroll.ListRequest{IncludeArchived: true})
	if err != nil {
		return InvoiceOutcome{}, err
	}
	return s.reconcileInvoice(ctx, *inv, &existing)
}

// reconcileInvoice is the per-invoice step shared by the single and
// batch paths. The caller owns the existing-payrolls slice; newly
// created entries are appended to it so later invoices in the same batch
// see earlier creations.
func (s *Service) reconcileInvoice(ctx context.Context, inv invoices.Invoice, existing *[]payroll.Entry) (InvoiceOutcome, error) {
	outcome := InvoiceOutcome{InvoiceID: inv.ID, InvoiceNumber: inv.Number, Status: string(inv.Status)}

	target := invoices.ComputeStatus(inv.IssueDate, s.clock(), inv.Status)
	if target != inv.Status {
		if err := s.invoices.UpdateStatus(ctx, inv.ID, target); err != nil {
			return outcome, fmt.Errorf("update status of %s: %w", inv.Number, err)
		}
		inv.Status = target
		outcome.Status = string(target)
		outcome.StatusUpdated = true
	}

	if inv.Status.Terminal() {
		return outcome, nil
	}

	candidate := payroll.FromInvoice(inv, inv.Status)
	if match := payroll.FindMatch(candidate, *existing); match != nil {
		outcome.PayrollID = match.ID
		return outcome, nil
	}

	id, err := s.payrolls.Create(ctx, candidate)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			// A concurrent run created the entry between our match check
			// and the insert. The unique index did its job; nothing to do.
			s.logger.Info("payroll entry created by concurrent run", slog.String("invoice", inv.Number))
			return outcome, nil
		}
		return outcome, fmt.Errorf("create payroll for %s: %w", inv.Number, err)
	}

	created := payroll.Entry{
		ID:            id,
		MonthLabel:    candidate.MonthLabel,
		Date:          candidate.Date,
		CashFlowMode:  candidate.CashFlowMode,
		CashFlowType:  candidate.CashFlowType,
		Name:          candidate.Name,
		SiteOfWork:    candidate.SiteOfWork,
		InvoiceNumber: candidate.InvoiceNumber,
		AmountExclTax: candidate.AmountExclTax,
		TaxAmount:     candidate.TaxAmount,
		TotalAmount:   candidate.TotalAmount,
		Currency:      candidate.Currency,
		PaymentMethod: candidate.PaymentMethod,
		Status:        candidate.Status,
		Notes:         candidate.Notes,
	}
	*existing = append(*existing, created)
	outcome.PayrollCreated = true
	outcome.PayrollID = id
	return outcome, nil
}

// ProcessAllInvoices sweeps every invoice: statuses advance per the
// calendar and missing payroll entries are generated. Fetches invoices
// and payrolls once and maintains the payroll list in memory so that
// invoices later in the batch see entries created earlier in it.
func (s *Service) ProcessAllInvoices(ctx context.Context) InvoiceRunReport {
	report := InvoiceRunReport{RunID: uuid.NewString(), Errors: []string{}}

	all, err := s.invoices.List(ctx, invoices.ListRequest{})
	if err != nil {
		report.addError("list invoices: %v", err)
		return report
	}
	existing, err := s.payrolls.List(ctx, payroll.ListRequest{IncludeArchived: true})
	if err != nil {
		report.addError("list payroll entries: %v", err)
		return report
	}

	for _, inv := range all {
		outcome, err := s.reconcileInvoice(ctx, inv, &existing)
		report.Processed++
		if err != nil {
			report.addError("invoice %s: %v", inv.Number, err)
			continue
		}
		if outcome.StatusUpdated {
			report.StatusesUpdated++
		}
		if outcome.PayrollCreated {
			report.PayrollsCreated++
		}
	}

	s.logger.Info("invoice sweep finished",
		slog.String("run_id", report.RunID),
		slog.Int("processed", report.Processed),
		slog.Int("statuses_updated", report.StatusesUpdated),
		slog.Int("payrolls_created", report.PayrollsCreated),
		slog.Int("errors", len(report.Errors)))
	s.emailInvoiceReport(ctx, report)
	return report
}

// ProcessEmployeeTimesheet turns one employee's month of pending
// timesheet records into an invoice and its payroll counterpart. If the
// invoice already exists the call short-circuits and reports the
// existing linkage. The payroll step runs synchronously in-process right
// after the invoice insert; there is no wait-and-poll.
func (s *Service) ProcessEmployeeTimesheet(ctx context.Context, employeeID, employeeName string, year int, month time.Month) (TimesheetResult, error) {
	result := TimesheetResult{EmployeeID: employeeID, EmployeeName: employeeName}

	number := invoices.Number(employeeName, year, month)
	result.InvoiceNumber = number

	if existing, err := s.invoices.GetByNumber(ctx, number); err != nil {
		return result, fmt.Errorf("look up invoice %s: %w", number, err)
	} else if existing != nil {
		result.InvoiceID = existing.ID
		result.Reason = "invoice already exists"
		return result, nil
	}

	lockKey := shared.EmployeeMonthLockKey(employeeID, year, month)
	if err := s.lock.Acquire(ctx, lockKey); err != nil {
		return result, fmt.Errorf("employee %s: %w", employeeID, err)
	}
	defer func() {
		if err := s.lock.Release(ctx, lockKey); err != nil {
			s.logger.Warn("release reconcile lock", slog.String("key", lockKey), slog.Any("error", err))
		}
	}()

	emp, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return result, err
	}
	// The passed display name drives the invoice number and must keep
	// driving the generated document, even if HR has since renamed the
	// employee; dedup hangs off this string.
	if employeeName != "" {
		emp.DisplayName = employeeName
	}

	records, err := s.timesheets.ListForEmployeeMonth(ctx, employeeID, year, month)
	if err != nil {
		return result, fmt.Errorf("list timesheets for %s: %w", employeeID, err)
	}
	eligible := records[:0:0]
	for _, rec := range records {
		if rec.ApprovalStatus == timesheets.ApprovalPending && rec.Complete() {
			eligible = append(eligible, rec)
		}
	}
	if len(eligible) == 0 {
		result.Reason = "no pending timesheet records this month"
		return result, nil
	}

	table, err := s.rates.ListByEmployee(ctx, employeeID)
	if err != nil {
		return result, fmt.Errorf("list rates for %s: %w", employeeID, err)
	}
	summary := earnings.Calculate(eligible, table)
	if !summary.Billable() {
		result.Reason = "no billable earnings this month"
		return result, nil
	}
	if summary.SiteOfWork == "" {
		summary.SiteOfWork = s.resolveSiteName(ctx, eligible)
	}

	input := invoices.FromTimesheetMonth(*emp, year, month, summary)
	invoiceID, err := s.invoices.Create(ctx, input)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			if existing, lookupErr := s.invoices.GetByNumber(ctx, number); lookupErr == nil && existing != nil {
				result.InvoiceID = existing.ID
				result.Reason = "invoice already exists"
				return result, nil
			}
		}
		return result, fmt.Errorf("create invoice %s: %w", number, err)
	}
	result.InvoiceCreated = true
	result.InvoiceID = invoiceID

	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return result, fmt.Errorf("read back invoice %s: %w", number, err)
	}
	existing, err := s.payrolls.List(ctx, payroll.ListRequest{IncludeArchived: true})
	if err != nil {
		return result, fmt.Errorf("list payroll entries: %w", err)
	}
	outcome, err := s.reconcileInvoice(ctx, *inv, &existing)
	if err != nil {
		return result, err
	}
	result.PayrollCreated = outcome.PayrollCreated
	return result, nil
}

// resolveSiteName falls back to the site directory when clock records
// carry a site reference but no denormalised site name. Cosmetic only:
// a lookup miss leaves the invoice's site blank.
func (s *Service) resolveSiteName(ctx context.Context, records []timesheets.Record) string {
	for _, rec := range records {
		if rec.SiteID == "" {
			continue
		}
		site, err := s.employees.GetSite(ctx, rec.SiteID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("resolve site name", slog.String("site_id", rec.SiteID), slog.Any("error", err))
			}
			continue
		}
		return site.Name
	}
	return ""
}

// ProcessAllPendingTimesheets sweeps a month: pending, clocked-out
// records are grouped per employee and each group goes through
// ProcessEmployeeTimesheet. One employee failing is recorded and the
// batch moves on.
func (s *Service) ProcessAllPendingTimesheets(ctx context.Context, year int, month time.Month) TimesheetRunReport {
	report := TimesheetRunReport{RunID: uuid.NewString(), Year: year, Month: int(month), Errors: []string{}}

	records, err := s.timesheets.ListPendingForMonth(ctx, year, month)
	if err != nil {
		report.addError("list pending timesheets: %v", err)
		return report
	}

	type group struct {
		id   string
		name string
	}
	var order []group
	seen := map[string]bool{}
	for _, rec := range records {
		if seen[rec.EmployeeID] {
			continue
		}
		seen[rec.EmployeeID] = true
		order = append(order, group{id: rec.EmployeeID, name: rec.EmployeeName})
	}

	for _, g := range order {
		result, err := s.ProcessEmployeeTimesheet(ctx, g.id, g.name, year, month)
		report.Processed++
		if err != nil {
			report.addError("employee %s (%s): %v", g.name, g.id, err)
			continue
		}
		report.Results = append(report.Results, result)
		if result.InvoiceCreated {
			report.InvoicesCreated++
		}
		if result.PayrollCreated {
			report.PayrollsCreated++
		}
	}

	s.logger.Info("timesheet sweep finished",
		slog.String("run_id", report.RunID),
		slog.Int("year", year),
		slog.Int("month", int(month)),
		slog.Int("processed", report.Processed),
		slog.Int("invoices_created", report.InvoicesCreated),
		slog.Int("payrolls_created", report.PayrollsCreated),
		slog.Int("errors", len(report.Errors)))
	s.emailTimesheetReport(ctx, report)
	return report
}

func (s *Service) emailInvoiceReport(ctx context.Context, report InvoiceRunReport) {
	if s.mailer == nil || s.reportTo == "" {
		return
	}
	subject := fmt.Sprintf("Invoice sweep %s: %d processed, %d payrolls created", report.RunID, report.Processed, report.PayrollsCreated)
	body := fmt.Sprintf("Processed: %d\nStatuses updated: %d\nPayrolls created: %d\nErrors: %d\n",
		report.Processed, report.StatusesUpdated, report.PayrollsCreated, len(report.Errors))
	for _, e := range report.Errors {
		body += "  - " + e + "\n"
	}
	if err := s.mailer.Send(ctx, s.reportTo, subject, body); err != nil {
		s.logger.Warn("send invoice run report", slog.Any("error", err))
	}
}

func (s *Service) emailTimesheetReport(ctx context.Context, report TimesheetRunReport) {
	if s.mailer == nil || s.reportTo == "" {
		return
	}
	subject := fmt.Sprintf("Timesheet sweep %d-%02d: %d invoices created", report.Year, report.Month, report.InvoicesCreated)
	body := fmt.Sprintf("Processed: %d\nInvoices created: %d\nPayrolls created: %d\nErrors: %d\n",
		report.Processed, report.InvoicesCreated, report.PayrollsCreated, len(report.Errors))
	for _, e := range report.Errors {
		body += "  - " + e + "\n"
	}
	if err := s.mailer.Send(ctx, s.reportTo, subject, body); err != nil {
		s.logger.Warn("send timesheet run report", slog.Any("error", err))
	}
}
