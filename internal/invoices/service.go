package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RepositoryPort defines data access methods for invoices.
type RepositoryPort interface {
	Create(ctx context.Context, input CreateInvoiceInput) (int64, error)
	GetByID(ctx context.Context, id int64) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	List(ctx context.Context, req ListRequest) ([]Invoice, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	MarkPaid(ctx context.Context, id int64, status Status, paidAt time.Time) error
}

// StatusMirror propagates an explicit payment action onto the payroll
// entry correlated by invoice number. Injected after construction to
// keep the invoice and payroll packages decoupled.
type StatusMirror interface {
	MirrorStatus(ctx context.Context, invoiceNumber, status string) error
}

// Service handles invoice business logic.
type Service struct {
	repo   RepositoryPort
	mirror StatusMirror
	clock  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, clock: func() time.Time { return time.Now().UTC() }}
}

// SetStatusMirror injects the payroll-side status propagation hook.
func (s *Service) SetStatusMirror(m StatusMirror) {
	s.mirror = m
}

// SetClock overrides the time source, for tests.
func (s *Service) SetClock(clock func() time.Time) {
	if clock != nil {
		s.clock = clock
	}
}

// CreateManual records a manually entered invoice. The tax split is
// recomputed from amount and tax so that amount + tax always equals the
// stored total to two decimals, whatever the caller sent.
func (s *Service) CreateManual(ctx context.Context, input CreateInvoiceInput) (*Invoice, error) {
	if input.EmployeeName == "" {
		return nil, errors.New("invoices: employee name required")
	}
	if input.Amount <= 0 {
		return nil, errors.New("invoices: amount must be positive")
	}
	if input.Number == "" {
		return nil, errors.New("invoices: number required")
	}
	if input.Status == "" {
		input.Status = StatusPending
	}
	if !input.Status.Valid() {
		return nil, fmt.Errorf("invoices: unknown status %q", input.Status)
	}

	amount := decimal.NewFromFloat(input.Amount).Round(2)
	tax := decimal.NewFromFloat(input.TaxAmount).Round(2)
	input.Amount, _ = amount.Float64()
	input.TaxAmount, _ = tax.Float64()
	input.TotalAmount, _ = amount.Add(tax).Float64()

	id, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Get returns one invoice by id.
func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns invoices, optionally filtered by status and employee.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Invoice, error) {
	return s.repo.List(ctx, req)
}

// MarkPaid records an explicit payment action. status must be terminal
// (paid or received). The correlated payroll entry, if any, is updated
// through the mirror hook after the invoice is persisted; a mirror
// failure is returned even though the invoice already carries the
// terminal status, so callers retry the whole call to converge.
func (s *Service) MarkPaid(ctx context.Context, id int64, status Status) (*Invoice, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("invoices: %q is not a terminal status", status)
	}
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkPaid(ctx, id, status, s.clock()); err != nil {
		return nil, err
	}
	if s.mirror != nil {
		if err := s.mirror.MirrorStatus(ctx, inv.Number, string(status)); err != nil {
			return nil, fmt.Errorf("invoices: mirror status to payroll: %w", err)
		}
	}
	return s.repo.GetByID(ctx, id)
}
