// Package payroll holds the payroll ledger entry model, the duplicate
// matcher that guards cross-document generation, and the generator that
// derives a payroll entry from an invoice.
package payroll

import (
	"time"

	"github.com/crewledger/crewledger/internal/invoices"
)

// CashFlowMode marks the direction of money movement.
type CashFlowMode string

const (
	FlowInflow  CashFlowMode = "inflow"
	FlowOutflow CashFlowMode = "outflow"
)

// CashFlowType classifies the origin of a ledger entry.
type CashFlowType string

const (
	TypeInvoice        CashFlowType = "invoice"
	TypeInternal       CashFlowType = "internal_payroll"
	TypeCleanerPayroll CashFlowType = "cleaner_payroll"
)

// Entry is one payroll ledger line. InvoiceNumber correlates it to the
// invoice it was generated from; at most one entry exists per invoice
// number. Status shares the invoice enum and follows the same terminal
// rules.
type Entry struct {
	ID              int64
	MonthLabel      string
	Date            time.Time
	CashFlowMode    CashFlowMode
	CashFlowType    CashFlowType
	Name            string
	SiteOfWork      string
	InvoiceNumber   string
	AmountExclTax   float64
	TaxAmount       float64
	TotalAmount     float64
	Currency        string
	PaymentMethod   string
	Status          invoices.Status
	Notes           string
	MovedToHistory  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Archived reports whether the entry was moved to history. Archived
// entries drop out of default listings but still count for duplicate
// matching, so re-running a month never resurrects an archived entry.
func (e Entry) Archived() bool {
	return e.MovedToHistory != nil
}

// CreateEntryInput for persisting a new payroll entry.
type CreateEntryInput struct {
	MonthLabel    string
	Date          time.Time
	CashFlowMode  CashFlowMode
	CashFlowType  CashFlowType
	Name          string
	SiteOfWork    string
	InvoiceNumber string
	AmountExclTax float64
	TaxAmount     float64
	TotalAmount   float64
	Currency      string
	PaymentMethod string
	Status        invoices.Status
	Notes         string
}
