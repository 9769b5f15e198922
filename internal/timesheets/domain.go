// Package timesheets exposes clock-in records produced by the time
// tracking subsystem. Records are immutable once clocked out, except the
// approval status; this engine consumes them read-only.
package timesheets

import "time"

// ApprovalStatus enumerates timesheet approval states.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Record is one employee shift.
//
// WorkDate is carried as raw text because the tracking subsystem has
// written both DD.MM.YYYY and ISO forms over its lifetime; callers go
// through dates.Parse and skip records that fail to parse.
type Record struct {
	ID             int64
	EmployeeID     string
	EmployeeName   string
	SiteID         string
	SiteName       string
	WorkDate       string
	ClockIn        time.Time
	ClockOut       *time.Time
	HoursWorked    float64
	ApprovalStatus ApprovalStatus
	IsLeave        bool
}

// Complete reports whether the shift has been clocked out. Incomplete
// shifts contribute zero to earnings.
func (r Record) Complete() bool {
	return r.ClockOut != nil
}
