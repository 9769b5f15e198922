package rates

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed lookups for rate entries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByEmployee returns all rate entries for an employee in insertion
// order. The first entry doubles as the fallback rate when a timesheet
// record carries a site without an entry of its own.
func (r *Repository) ListByEmployee(ctx context.Context, employeeID string) ([]RateEntry, error) {
	const query = `
		SELECT r.id, r.employee_id, r.site_id, COALESCE(s.name, ''), r.hourly_rate,
		       r.currency, COALESCE(r.travel_allowance, 0)
		FROM rate_entries r
		LEFT JOIN sites s ON s.id = r.site_id
		WHERE r.employee_id = $1
		ORDER BY r.id`

	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RateEntry
	for rows.Next() {
		var e RateEntry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.SiteID, &e.SiteName, &e.HourlyRate, &e.Currency, &e.TravelAllowance); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
