package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crewledger/crewledger/internal/invoices"
)

func TestFromInvoice(t *testing.T) {
	inv := invoices.Invoice{
		ID:           7,
		Number:       "EMP-JANE-DOE-2025-03",
		EmployeeName: "Jane Doe",
		SiteOfWork:   "Site A",
		Amount:       400,
		TaxAmount:    40,
		TotalAmount:  440,
		Currency:     "AUD",
		IssueDate:    time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		Status:       invoices.StatusPending,
	}

	got := FromInvoice(inv, invoices.StatusOverdue)

	require.Equal(t, "April 2025", got.MonthLabel)
	require.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), got.Date)
	require.Equal(t, FlowOutflow, got.CashFlowMode)
	require.Equal(t, TypeInternal, got.CashFlowType)
	require.Equal(t, "Jane Doe", got.Name)
	require.Equal(t, "Site A", got.SiteOfWork)
	require.Equal(t, "EMP-JANE-DOE-2025-03", got.InvoiceNumber)
	require.Equal(t, 400.0, got.AmountExclTax)
	require.Equal(t, 40.0, got.TaxAmount)
	require.Equal(t, 440.0, got.TotalAmount)
	require.Equal(t, "AUD", got.Currency)
	require.Equal(t, invoices.StatusOverdue, got.Status)
	require.Equal(t, "Auto-generated from invoice EMP-JANE-DOE-2025-03", got.Notes)
}

func TestFromInvoiceDecemberRollsIntoNextYear(t *testing.T) {
	inv := invoices.Invoice{
		Number:       "EMP-JANE-DOE-2024-12",
		EmployeeName: "Jane Doe",
		IssueDate:    time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
	}

	got := FromInvoice(inv, invoices.StatusPending)
	require.Equal(t, "January 2025", got.MonthLabel)
	require.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), got.Date)
}
