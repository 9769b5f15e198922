package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/crewledger/crewledger/internal/invoices"
)

// RepositoryPort defines data access methods for payroll entries.
type RepositoryPort interface {
	Create(ctx context.Context, input CreateEntryInput) (int64, error)
	GetByID(ctx context.Context, id int64) (*Entry, error)
	List(ctx context.Context, req ListRequest) ([]Entry, error)
	UpdateStatusByInvoiceNumber(ctx context.Context, invoiceNumber string, status invoices.Status) error
	Archive(ctx context.Context, id int64, at time.Time) error
}

// Service handles payroll business logic.
type Service struct {
	repo  RepositoryPort
	clock func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, clock: func() time.Time { return time.Now().UTC() }}
}

// SetClock overrides the time source, for tests.
func (s *Service) SetClock(clock func() time.Time) {
	if clock != nil {
		s.clock = clock
	}
}

// Get returns one entry by id.
func (s *Service) Get(ctx context.Context, id int64) (*Entry, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns payroll entries, optionally filtered.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Entry, error) {
	return s.repo.List(ctx, req)
}

// Archive moves an entry to history. Archived entries drop out of
// listings but remain visible to the duplicate matcher.
func (s *Service) Archive(ctx context.Context, id int64) (*Entry, error) {
	if err := s.repo.Archive(ctx, id, s.clock()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// MirrorStatus propagates an invoice status change onto the correlated
// entry. Implements the hook the invoice service calls on explicit
// payment actions.
func (s *Service) MirrorStatus(ctx context.Context, invoiceNumber, status string) error {
	st := invoices.Status(status)
	if !st.Valid() {
		return fmt.Errorf("payroll: unknown status %q", status)
	}
	return s.repo.UpdateStatusByInvoiceNumber(ctx, invoiceNumber, st)
}
