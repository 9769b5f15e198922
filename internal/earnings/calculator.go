// Package earnings computes billable hours and pay for one employee
// over one month from timesheet records and the employee's rate table.
package earnings

import (
	"github.com/shopspring/decimal"

	"github.com/crewledger/crewledger/internal/rates"
	"github.com/crewledger/crewledger/internal/timesheets"
)

// Summary is the aggregate for one employee-month.
//
// SiteOfWork is the first site name encountered in record order. When an
// employee worked several sites the choice between them is ambiguous and
// record order is what the engine has always used; callers must not read
// more meaning into it.
type Summary struct {
	TotalHours    float64 `json:"totalHours"`
	TotalEarnings float64 `json:"totalEarnings"`
	Currency      string  `json:"currency"`
	SiteOfWork    string  `json:"siteOfWork,omitempty"`
}

// Billable reports whether there is anything to invoice. A zero result
// is a normal outcome, not an error.
func (s Summary) Billable() bool {
	return s.TotalEarnings > 0
}

// rateFor selects the hourly rate for a record: an entry matching the
// record's site if one exists, else the employee's first entry, else
// zero. The fallback is deliberate so that a shift at an unlisted site
// still pays rather than silently failing.
func rateFor(rec timesheets.Record, table []rates.RateEntry) (rates.RateEntry, bool) {
	for _, e := range table {
		if e.SiteID != "" && e.SiteID == rec.SiteID {
			return e, true
		}
	}
	if len(table) > 0 {
		return table[0], true
	}
	return rates.RateEntry{}, false
}

// Calculate aggregates hours and earnings across the given records.
// Leave records and shifts without a clock-out contribute nothing.
// Totals are rounded half-up to two decimals once, at the end, so three
// shifts of 2.333h at $25 come out as round(3*2.333*25) and not as an
// accumulation of per-shift rounding.
func Calculate(records []timesheets.Record, table []rates.RateEntry) Summary {
	hours := decimal.Zero
	total := decimal.Zero
	var summary Summary

	for _, rec := range records {
		if rec.IsLeave || !rec.Complete() {
			continue
		}
		entry, ok := rateFor(rec, table)
		rate := decimal.Zero
		if ok {
			rate = decimal.NewFromFloat(entry.HourlyRate)
			if summary.Currency == "" {
				summary.Currency = entry.Currency
			}
		}
		if summary.SiteOfWork == "" && rec.SiteName != "" {
			summary.SiteOfWork = rec.SiteName
		}
		h := decimal.NewFromFloat(rec.HoursWorked)
		hours = hours.Add(h)
		total = total.Add(h.Mul(rate))
	}

	summary.TotalHours, _ = hours.Round(2).Float64()
	summary.TotalEarnings, _ = total.Round(2).Float64()
	return summary
}
