package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewledger/crewledger/internal/shared"
)

// Repository provides PostgreSQL backed lookups for employee master data.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetEmployee fetches a single employee by external id.
func (r *Repository) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	const query = `
		SELECT id, display_name, COALESCE(email, ''), tax_registered
		FROM employees WHERE id = $1`

	var e Employee
	err := r.pool.QueryRow(ctx, query, id).Scan(&e.ID, &e.DisplayName, &e.Email, &e.TaxRegistered)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("employees: %s: %w", id, shared.ErrNotFound)
		}
		return nil, err
	}
	return &e, nil
}

// GetSite fetches a single work site by id.
func (r *Repository) GetSite(ctx context.Context, id string) (*Site, error) {
	const query = `SELECT id, name FROM sites WHERE id = $1`

	var s Site
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("employees: site %s: %w", id, shared.ErrNotFound)
		}
		return nil, err
	}
	return &s, nil
}
