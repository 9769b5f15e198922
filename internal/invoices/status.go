package invoices

import (
	"time"

	"github.com/crewledger/crewledger/internal/dates"
)

// overdueDay is the day of the payment month from which an unpaid
// document counts as overdue.
const overdueDay = 15

// ComputeStatus derives the payment status of a document issued on
// issueDate as seen on the given day. A document issued in month M is
// payable from the 1st of M+1 and overdue from the 15th of M+1.
// A terminal existing status is returned unchanged.
//
// Pure by construction: the caller supplies today, so fixed calendar
// inputs give fixed answers.
func ComputeStatus(issueDate, today time.Time, existing Status) Status {
	if existing.Terminal() {
		return existing
	}
	paymentMonthStart := dates.NextMonthStart(issueDate)
	if today.Before(paymentMonthStart) {
		return StatusPending
	}
	overdueFrom := time.Date(paymentMonthStart.Year(), paymentMonthStart.Month(), overdueDay, 0, 0, 0, 0, time.UTC)
	if !today.Before(overdueFrom) {
		return StatusOverdue
	}
	return StatusPending
}
