package invoices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crewledger/crewledger/internal/earnings"
	"github.com/crewledger/crewledger/internal/employees"
)

func TestNumber(t *testing.T) {
	require.Equal(t, "EMP-JANE-DOE-2025-03", Number("Jane Doe", 2025, time.March))
	require.Equal(t, "EMP-JANE-DOE-2025-03", Number("  jane   doe ", 2025, time.March))
	require.Equal(t, "EMP-ANNA-MARIA-VAN-DER-BERG-2025-11", Number("Anna Maria van der Berg", 2025, time.November))
}

func TestFromTimesheetMonthTaxRegistered(t *testing.T) {
	emp := employees.Employee{ID: "jane-id", DisplayName: "Jane Doe", TaxRegistered: true}
	sum := earnings.Summary{TotalHours: 16, TotalEarnings: 400, Currency: "AUD", SiteOfWork: "Site A"}

	got := FromTimesheetMonth(emp, 2025, time.March, sum)

	require.Equal(t, "EMP-JANE-DOE-2025-03", got.Number)
	require.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), got.IssueDate)
	require.Equal(t, got.IssueDate.AddDate(0, 0, 45), got.DueDate)
	require.Equal(t, 400.0, got.Amount)
	require.Equal(t, 40.0, got.TaxAmount)
	require.Equal(t, 440.0, got.TotalAmount)
	require.Equal(t, "AUD", got.Currency)
	require.Equal(t, "Site A", got.SiteOfWork)
	require.Equal(t, StatusPending, got.Status)
}

func TestFromTimesheetMonthNotTaxRegistered(t *testing.T) {
	emp := employees.Employee{ID: "jane-id", DisplayName: "Jane Doe"}
	sum := earnings.Summary{TotalHours: 16, TotalEarnings: 400, Currency: "AUD"}

	got := FromTimesheetMonth(emp, 2025, time.March, sum)

	require.Equal(t, 400.0, got.Amount)
	require.Equal(t, 0.0, got.TaxAmount)
	require.Equal(t, 400.0, got.TotalAmount)
}

func TestFromTimesheetMonthAmountTaxTotalInvariant(t *testing.T) {
	emp := employees.Employee{DisplayName: "Jane Doe", TaxRegistered: true}
	// 10% of 333.33 is 33.333, which must land as 33.33 with total 366.66.
	sum := earnings.Summary{TotalEarnings: 333.33, Currency: "AUD"}

	got := FromTimesheetMonth(emp, 2025, time.April, sum)

	require.Equal(t, 333.33, got.Amount)
	require.Equal(t, 33.33, got.TaxAmount)
	require.InDelta(t, got.Amount+got.TaxAmount, got.TotalAmount, 1e-9)
}
