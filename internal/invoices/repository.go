package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewledger/crewledger/internal/shared"
)

// Repository provides PostgreSQL backed persistence for invoices.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Create inserts a new invoice and returns its id. A unique index on the
// invoice number backstops the duplicate check in the reconciler; a hit
// surfaces as shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, input CreateInvoiceInput) (int64, error) {
	const query = `
		INSERT INTO invoices (
			number, employee_name, site_of_work, amount, tax_amount, total_amount,
			currency, issue_date, due_date, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		input.Number,
		input.EmployeeName,
		input.SiteOfWork,
		input.Amount,
		input.TaxAmount,
		input.TotalAmount,
		input.Currency,
		input.IssueDate,
		input.DueDate,
		input.Status,
		input.Notes,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("invoices: number %s: %w", input.Number, shared.ErrDuplicate)
		}
		return 0, err
	}
	return id, nil
}

const selectColumns = `
	SELECT id, number, employee_name, COALESCE(site_of_work, ''), amount, tax_amount,
	       total_amount, currency, issue_date, due_date, status, COALESCE(notes, ''),
	       created_at, updated_at
	FROM invoices`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.EmployeeName, &inv.SiteOfWork, &inv.Amount,
		&inv.TaxAmount, &inv.TotalAmount, &inv.Currency, &inv.IssueDate, &inv.DueDate,
		&inv.Status, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByID fetches one invoice.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoices: id %d: %w", id, shared.ErrNotFound)
		}
		return nil, err
	}
	return inv, nil
}

// GetByNumber fetches one invoice by its deterministic number. A nil
// result without error means no such invoice exists.
func (r *Repository) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx, selectColumns+` WHERE number = $1`, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}

// ListRequest filters invoice listings.
type ListRequest struct {
	Status       Status
	EmployeeName string
}

// List returns invoices in insertion order, optionally filtered.
func (r *Repository) List(ctx context.Context, req ListRequest) ([]Invoice, error) {
	query := selectColumns + ` WHERE 1=1`
	args := []any{}
	if req.Status != "" {
		args = append(args, req.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if req.EmployeeName != "" {
		args = append(args, req.EmployeeName)
		query += fmt.Sprintf(" AND employee_name = $%d", len(args))
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

// UpdateStatus sets the payment status. The guard clause keeps calendar
// sweeps from reverting a terminal status even if the caller raced an
// explicit payment action.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	const query = `
		UPDATE invoices SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('paid', 'received')`

	_, err := r.pool.Exec(ctx, query, id, status)
	return err
}

// MarkPaid records an explicit payment action, overriding any
// calendar-derived state.
func (r *Repository) MarkPaid(ctx context.Context, id int64, status Status, paidAt time.Time) error {
	const query = `UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, status, paidAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoices: id %d: %w", id, shared.ErrNotFound)
	}
	return nil
}
