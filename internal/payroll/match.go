package payroll

import "github.com/crewledger/crewledger/internal/dates"

// FindMatch decides whether an equivalent payroll entry already exists
// for the candidate. Two strategies, first hit wins:
//
//  1. exact invoice-number match, the primary dedup key;
//  2. identical (name, site) with dates within one calendar day, which
//     tolerates clock and timezone skew between a timesheet close and
//     the dating of the derived invoice.
//
// Archived entries still match: an entry moved to history represents a
// transaction that happened, so regenerating it would still duplicate.
// Pure and repeat-safe; the reconciler leans on that for idempotence.
func FindMatch(candidate CreateEntryInput, existing []Entry) *Entry {
	for i := range existing {
		if candidate.InvoiceNumber != "" && existing[i].InvoiceNumber == candidate.InvoiceNumber {
			return &existing[i]
		}
	}
	for i := range existing {
		e := &existing[i]
		if e.Name != candidate.Name || e.SiteOfWork != candidate.SiteOfWork {
			continue
		}
		if e.Date.IsZero() || candidate.Date.IsZero() {
			continue
		}
		if dates.WithinOneDay(e.Date, candidate.Date) {
			return e
		}
	}
	return nil
}
