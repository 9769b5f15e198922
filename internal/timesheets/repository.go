package timesheets

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewledger/crewledger/internal/dates"
)

// Repository provides PostgreSQL backed access to timesheet records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `
	SELECT id, employee_id, employee_name, COALESCE(site_id, ''), COALESCE(site_name, ''),
	       work_date, clock_in, clock_out, COALESCE(hours_worked, 0), approval_status, is_leave
	FROM timesheet_records`

func (r *Repository) scanRows(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.SiteID, &rec.SiteName,
			&rec.WorkDate, &rec.ClockIn, &rec.ClockOut, &rec.HoursWorked, &rec.ApprovalStatus, &rec.IsLeave); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListForEmployeeMonth returns one employee's records dated within the
// given month. Work dates are stored as text in two historical formats,
// so the month filter happens here after normalisation; unparseable
// dates are skipped.
func (r *Repository) ListForEmployeeMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]Record, error) {
	recs, err := r.scanRows(ctx, selectColumns+` WHERE employee_id = $1 ORDER BY id`, employeeID)
	if err != nil {
		return nil, err
	}
	return filterMonth(recs, year, month), nil
}

// ListPendingForMonth returns all clocked-out, approval-pending records
// for the month across employees.
func (r *Repository) ListPendingForMonth(ctx context.Context, year int, month time.Month) ([]Record, error) {
	recs, err := r.scanRows(ctx, selectColumns+` WHERE approval_status = $1 AND clock_out IS NOT NULL ORDER BY id`, ApprovalPending)
	if err != nil {
		return nil, err
	}
	return filterMonth(recs, year, month), nil
}

func filterMonth(recs []Record, year int, month time.Month) []Record {
	var out []Record
	for _, rec := range recs {
		day, ok := dates.Parse(rec.WorkDate)
		if !ok {
			continue
		}
		if day.Year() == year && day.Month() == month {
			out = append(out, rec)
		}
	}
	return out
}
