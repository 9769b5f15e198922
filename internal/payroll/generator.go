package payroll

import (
	"fmt"

	"github.com/crewledger/crewledger/internal/dates"
	"github.com/crewledger/crewledger/internal/invoices"
)

// defaultPaymentMethod applies to generated entries until payment is
// actually executed.
const defaultPaymentMethod = "bank_transfer"

// FromInvoice builds the payroll ledger entry for an invoice. The entry
// is dated in the month after the invoice's issue month, reflecting the
// payment cycle: March work is invoiced on 1 March and paid out in
// April. Amounts are copied verbatim; the note records provenance.
// Pure builder, persistence is the reconciler's job.
func FromInvoice(inv invoices.Invoice, status invoices.Status) CreateEntryInput {
	payMonth := dates.NextMonthStart(inv.IssueDate)
	return CreateEntryInput{
		MonthLabel:    dates.MonthLabel(payMonth),
		Date:          payMonth,
		CashFlowMode:  FlowOutflow,
		CashFlowType:  TypeInternal,
		Name:          inv.EmployeeName,
		SiteOfWork:    inv.SiteOfWork,
		InvoiceNumber: inv.Number,
		AmountExclTax: inv.Amount,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		Currency:      inv.Currency,
		PaymentMethod: defaultPaymentMethod,
		Status:        status,
		Notes:         fmt.Sprintf("Auto-generated from invoice %s", inv.Number),
	}
}
