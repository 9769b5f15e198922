package earnings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crewledger/crewledger/internal/rates"
	"github.com/crewledger/crewledger/internal/timesheets"
)

func clockedOut(h float64, siteID, siteName string) timesheets.Record {
	out := time.Date(2025, time.March, 3, 17, 0, 0, 0, time.UTC)
	return timesheets.Record{
		EmployeeID:   "jane-id",
		EmployeeName: "Jane Doe",
		SiteID:       siteID,
		SiteName:     siteName,
		WorkDate:     "2025-03-03",
		ClockIn:      out.Add(-time.Duration(h * float64(time.Hour))),
		ClockOut:     &out,
		HoursWorked:  h,
	}
}

func TestCalculateBasic(t *testing.T) {
	table := []rates.RateEntry{{EmployeeID: "jane-id", SiteID: "siteA", SiteName: "Site A", HourlyRate: 25, Currency: "AUD"}}
	recs := []timesheets.Record{
		clockedOut(8, "siteA", "Site A"),
		clockedOut(8, "siteA", "Site A"),
	}

	got := Calculate(recs, table)
	require.Equal(t, 16.0, got.TotalHours)
	require.Equal(t, 400.0, got.TotalEarnings)
	require.Equal(t, "AUD", got.Currency)
	require.Equal(t, "Site A", got.SiteOfWork)
	require.True(t, got.Billable())
}

func TestCalculateRoundsOnceAtTheEnd(t *testing.T) {
	table := []rates.RateEntry{{SiteID: "siteA", HourlyRate: 25, Currency: "USD"}}
	recs := []timesheets.Record{
		clockedOut(2.333, "siteA", "Site A"),
		clockedOut(2.333, "siteA", "Site A"),
		clockedOut(2.333, "siteA", "Site A"),
	}

	got := Calculate(recs, table)
	require.Equal(t, 7.0, got.TotalHours) // 6.999 rounds half-up
	require.Equal(t, 174.98, got.TotalEarnings)
}

func TestCalculateSiteFallback(t *testing.T) {
	table := []rates.RateEntry{
		{SiteID: "siteA", HourlyRate: 25, Currency: "AUD"},
		{SiteID: "siteB", HourlyRate: 30, Currency: "AUD"},
	}

	// siteB has its own entry.
	got := Calculate([]timesheets.Record{clockedOut(2, "siteB", "Site B")}, table)
	require.Equal(t, 60.0, got.TotalEarnings)

	// Unlisted site falls back to the first entry.
	got = Calculate([]timesheets.Record{clockedOut(2, "siteC", "Site C")}, table)
	require.Equal(t, 50.0, got.TotalEarnings)

	// No entries at all: hours still count, earnings stay zero.
	got = Calculate([]timesheets.Record{clockedOut(2, "siteC", "Site C")}, nil)
	require.Equal(t, 2.0, got.TotalHours)
	require.Equal(t, 0.0, got.TotalEarnings)
	require.False(t, got.Billable())
}

func TestCalculateSkipsLeaveAndIncomplete(t *testing.T) {
	table := []rates.RateEntry{{SiteID: "siteA", HourlyRate: 25, Currency: "AUD"}}

	leave := clockedOut(8, "siteA", "Site A")
	leave.IsLeave = true

	open := clockedOut(8, "siteA", "Site A")
	open.ClockOut = nil

	got := Calculate([]timesheets.Record{leave, open}, table)
	require.Equal(t, 0.0, got.TotalHours)
	require.Equal(t, 0.0, got.TotalEarnings)
}

func TestCalculateFirstSiteNameWins(t *testing.T) {
	table := []rates.RateEntry{{SiteID: "siteA", HourlyRate: 25, Currency: "AUD"}}
	recs := []timesheets.Record{
		clockedOut(4, "siteA", "Site A"),
		clockedOut(4, "siteB", "Site B"),
	}
	got := Calculate(recs, table)
	require.Equal(t, "Site A", got.SiteOfWork)
}
