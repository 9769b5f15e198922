package reconcile

import "fmt"

// InvoiceOutcome summarises what a single-invoice pass did.
type InvoiceOutcome struct {
	InvoiceID      int64  `json:"invoiceId"`
	InvoiceNumber  string `json:"invoiceNumber"`
	Status         string `json:"status"`
	StatusUpdated  bool   `json:"statusUpdated"`
	PayrollCreated bool   `json:"payrollCreated"`
	PayrollID      int64  `json:"payrollId,omitempty"`
}

// InvoiceRunReport aggregates one invoice sweep. Batch operations report
// partial failure through Errors instead of aborting; one malformed
// record never stops the run.
type InvoiceRunReport struct {
	RunID           string   `json:"runId"`
	Processed       int      `json:"processed"`
	StatusesUpdated int      `json:"statusesUpdated"`
	PayrollsCreated int      `json:"payrollsCreated"`
	Errors          []string `json:"errors"`
}

// TimesheetResult is the per-employee outcome of timesheet processing.
// A false InvoiceCreated with a Reason is a normal reported outcome, not
// an error: "invoice already exists" and "nothing to invoice" both land
// here.
type TimesheetResult struct {
	EmployeeID     string `json:"employeeId"`
	EmployeeName   string `json:"employeeName"`
	InvoiceCreated bool   `json:"invoiceCreated"`
	InvoiceID      int64  `json:"invoiceId,omitempty"`
	InvoiceNumber  string `json:"invoiceNumber,omitempty"`
	PayrollCreated bool   `json:"payrollCreated"`
	Reason         string `json:"reason,omitempty"`
}

// TimesheetRunReport aggregates one timesheet sweep.
type TimesheetRunReport struct {
	RunID           string            `json:"runId"`
	Year            int               `json:"year"`
	Month           int               `json:"month"`
	Processed       int               `json:"processed"`
	InvoicesCreated int               `json:"invoicesCreated"`
	PayrollsCreated int               `json:"payrollsCreated"`
	Results         []TimesheetResult `json:"results"`
	Errors          []string          `json:"errors"`
}

func (r *InvoiceRunReport) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *TimesheetRunReport) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
