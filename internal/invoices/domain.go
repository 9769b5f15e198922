// Package invoices holds the invoice document model, the calendar-driven
// payment status rules and the generator that turns an employee's
// timesheet month into an invoice.
package invoices

import "time"

// Status enumerates invoice payment statuses.
type Status string

const (
	StatusPending  Status = "pending"
	StatusOverdue  Status = "overdue"
	StatusPaid     Status = "paid"
	StatusReceived Status = "received"
)

// Terminal reports whether calendar-driven logic must leave the status
// alone. Paid and received are only ever set by explicit payment
// actions and are never reverted.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusReceived
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusOverdue, StatusPaid, StatusReceived:
		return true
	}
	return false
}

// Invoice document. Amount is pre-tax; Amount + TaxAmount == TotalAmount
// to two decimals. Invoices are never deleted by this engine.
type Invoice struct {
	ID           int64
	Number       string
	EmployeeName string
	SiteOfWork   string
	Amount       float64
	TaxAmount    float64
	TotalAmount  float64
	Currency     string
	IssueDate    time.Time
	DueDate      time.Time
	Status       Status
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateInvoiceInput for persisting a new invoice.
type CreateInvoiceInput struct {
	Number       string
	EmployeeName string
	SiteOfWork   string
	Amount       float64
	TaxAmount    float64
	TotalAmount  float64
	Currency     string
	IssueDate    time.Time
	DueDate      time.Time
	Status       Status
	Notes        string
}
