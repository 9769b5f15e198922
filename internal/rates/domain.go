// Package rates exposes read-only pay-rate master data owned by the
// pay-rate administration subsystem.
package rates

// RateEntry assigns an hourly rate to an employee at a site.
type RateEntry struct {
	ID              int64
	EmployeeID      string
	SiteID          string
	SiteName        string
	HourlyRate      float64
	Currency        string
	TravelAllowance float64
}
