package invoices

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crewledger/crewledger/internal/earnings"
	"github.com/crewledger/crewledger/internal/employees"
)

const (
	// dueOffsetDays is the fixed payment term applied to generated invoices.
	dueOffsetDays = 45
	// taxRate applies to tax-registered employees.
	taxRate = 0.10
)

// FromTimesheetMonth builds the invoice for one employee-month from a
// computed earnings summary. Pure builder: nothing is persisted and no
// clock is read, so it unit-tests without a store.
//
// The issue date is the first day of the worked month; payment terms are
// a fixed 45 days. Tax is 10% of earnings for tax-registered employees,
// zero otherwise.
func FromTimesheetMonth(emp employees.Employee, year int, month time.Month, sum earnings.Summary) CreateInvoiceInput {
	issue := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	amount := decimal.NewFromFloat(sum.TotalEarnings).Round(2)
	tax := decimal.Zero
	if emp.TaxRegistered {
		tax = amount.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	}
	total := amount.Add(tax)

	amountF, _ := amount.Float64()
	taxF, _ := tax.Float64()
	totalF, _ := total.Float64()

	return CreateInvoiceInput{
		Number:       Number(emp.DisplayName, year, month),
		EmployeeName: emp.DisplayName,
		SiteOfWork:   sum.SiteOfWork,
		Amount:       amountF,
		TaxAmount:    taxF,
		TotalAmount:  totalF,
		Currency:     sum.Currency,
		IssueDate:    issue,
		DueDate:      issue.AddDate(0, 0, dueOffsetDays),
		Status:       StatusPending,
		Notes:        fmt.Sprintf("Generated from %.2f approved timesheet hours", sum.TotalHours),
	}
}
