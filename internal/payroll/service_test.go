package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crewledger/crewledger/internal/invoices"
)

type memRepo struct {
	nextID  int64
	entries map[int64]Entry
}

func newMemRepo() *memRepo {
	return &memRepo{entries: map[int64]Entry{}}
}

func (r *memRepo) Create(ctx context.Context, input CreateEntryInput) (int64, error) {
	r.nextID++
	r.entries[r.nextID] = Entry{
		ID:            r.nextID,
		Name:          input.Name,
		InvoiceNumber: input.InvoiceNumber,
		Status:        input.Status,
	}
	return r.nextID, nil
}

func (r *memRepo) GetByID(ctx context.Context, id int64) (*Entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, errors.New("payroll: not found")
	}
	return &e, nil
}

func (r *memRepo) List(ctx context.Context, req ListRequest) ([]Entry, error) {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if !req.IncludeArchived && e.Archived() {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memRepo) UpdateStatusByInvoiceNumber(ctx context.Context, invoiceNumber string, status invoices.Status) error {
	for id, e := range r.entries {
		if e.InvoiceNumber == invoiceNumber {
			e.Status = status
			r.entries[id] = e
		}
	}
	return nil
}

func (r *memRepo) Archive(ctx context.Context, id int64, at time.Time) error {
	e, ok := r.entries[id]
	if !ok {
		return errors.New("payroll: not found")
	}
	e.MovedToHistory = &at
	r.entries[id] = e
	return nil
}

func TestMirrorStatusUpdatesCorrelatedEntry(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	id, err := repo.Create(context.Background(), CreateEntryInput{
		Name:          "Jane Doe",
		InvoiceNumber: "EMP-JANE-DOE-2025-03",
		Status:        invoices.StatusOverdue,
	})
	require.NoError(t, err)

	require.NoError(t, svc.MirrorStatus(context.Background(), "EMP-JANE-DOE-2025-03", "paid"))
	require.Equal(t, invoices.StatusPaid, repo.entries[id].Status)
}

func TestMirrorStatusRejectsUnknownStatus(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	id, err := repo.Create(context.Background(), CreateEntryInput{
		Name:          "Jane Doe",
		InvoiceNumber: "EMP-JANE-DOE-2025-03",
		Status:        invoices.StatusOverdue,
	})
	require.NoError(t, err)

	for _, status := range []string{"refunded", "PAID", ""} {
		err := svc.MirrorStatus(context.Background(), "EMP-JANE-DOE-2025-03", status)
		require.Error(t, err)
		require.ErrorContains(t, err, "unknown status")
	}
	require.Equal(t, invoices.StatusOverdue, repo.entries[id].Status)
}

func TestArchiveStampsClockAndHidesFromListings(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	movedAt := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return movedAt })
	id, err := repo.Create(context.Background(), CreateEntryInput{
		Name:          "Jane Doe",
		InvoiceNumber: "EMP-JANE-DOE-2025-03",
		Status:        invoices.StatusPaid,
	})
	require.NoError(t, err)

	entry, err := svc.Archive(context.Background(), id)
	require.NoError(t, err)
	require.True(t, entry.Archived())
	require.Equal(t, movedAt, *entry.MovedToHistory)

	visible, err := svc.List(context.Background(), ListRequest{})
	require.NoError(t, err)
	require.Empty(t, visible)

	all, err := svc.List(context.Background(), ListRequest{IncludeArchived: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
}
