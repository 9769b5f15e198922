package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewledger/crewledger/internal/dates"
	"github.com/crewledger/crewledger/internal/invoices"
	"github.com/crewledger/crewledger/internal/shared"
)

// Repository provides PostgreSQL backed persistence for payroll entries.
//
// The entry date is persisted in the canonical DD.MM.YYYY text form
// carried over from the ledger this system replaced; reads normalise it
// back through dates.Parse.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const uniqueViolation = "23505"

// Create inserts a new payroll entry. The unique index on invoice_number
// backstops the matcher; a collision surfaces as shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, input CreateEntryInput) (int64, error) {
	const query = `
		INSERT INTO payroll_entries (
			month_label, entry_date, cash_flow_mode, cash_flow_type, name, site_of_work,
			invoice_number, amount_excl_tax, tax_amount, total_amount, currency,
			payment_method, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		input.MonthLabel,
		dates.Format(input.Date),
		input.CashFlowMode,
		input.CashFlowType,
		input.Name,
		input.SiteOfWork,
		input.InvoiceNumber,
		input.AmountExclTax,
		input.TaxAmount,
		input.TotalAmount,
		input.Currency,
		input.PaymentMethod,
		input.Status,
		input.Notes,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("payroll: invoice %s: %w", input.InvoiceNumber, shared.ErrDuplicate)
		}
		return 0, err
	}
	return id, nil
}

const selectColumns = `
	SELECT id, month_label, entry_date, cash_flow_mode, cash_flow_type, name,
	       COALESCE(site_of_work, ''), COALESCE(invoice_number, ''), amount_excl_tax,
	       tax_amount, total_amount, currency, COALESCE(payment_method, ''), status,
	       COALESCE(notes, ''), moved_to_history_at, created_at, updated_at
	FROM payroll_entries`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	var rawDate string
	err := row.Scan(&e.ID, &e.MonthLabel, &rawDate, &e.CashFlowMode, &e.CashFlowType, &e.Name,
		&e.SiteOfWork, &e.InvoiceNumber, &e.AmountExclTax, &e.TaxAmount, &e.TotalAmount,
		&e.Currency, &e.PaymentMethod, &e.Status, &e.Notes, &e.MovedToHistory, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	// Legacy rows carry either date form; an unparseable date leaves the
	// zero value and the entry falls out of fuzzy matching.
	if d, ok := dates.Parse(rawDate); ok {
		e.Date = d
	}
	return &e, nil
}

// GetByID fetches one entry.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Entry, error) {
	e, err := scanEntry(r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payroll: id %d: %w", id, shared.ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

// ListRequest filters payroll listings.
type ListRequest struct {
	Status          invoices.Status
	IncludeArchived bool
}

// List returns payroll entries in insertion order.
func (r *Repository) List(ctx context.Context, req ListRequest) ([]Entry, error) {
	query := selectColumns + ` WHERE 1=1`
	args := []any{}
	if req.Status != "" {
		args = append(args, req.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !req.IncludeArchived {
		query += ` AND moved_to_history_at IS NULL`
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// UpdateStatusByInvoiceNumber mirrors a status change from the
// correlated invoice. Terminal entries are left untouched.
func (r *Repository) UpdateStatusByInvoiceNumber(ctx context.Context, invoiceNumber string, status invoices.Status) error {
	const query = `
		UPDATE payroll_entries SET status = $2, updated_at = NOW()
		WHERE invoice_number = $1 AND (status NOT IN ('paid', 'received') OR $2 IN ('paid', 'received'))`
	_, err := r.pool.Exec(ctx, query, invoiceNumber, status)
	return err
}

// Archive stamps the entry as moved to history.
func (r *Repository) Archive(ctx context.Context, id int64, at time.Time) error {
	const query = `
		UPDATE payroll_entries SET moved_to_history_at = $2, updated_at = NOW()
		WHERE id = $1 AND moved_to_history_at IS NULL`
	tag, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payroll: id %d: %w", id, shared.ErrNotFound)
	}
	return nil
}
