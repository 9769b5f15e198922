package invoices

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.English)

// Number builds the deterministic invoice number for an employee-month:
// EMP-{NAME}-{YYYY}-{MM} with the display name upper-cased and
// whitespace collapsed to hyphens. This string is also the dedup key, so
// renaming an employee breaks future dedup for them; a known limitation
// of the scheme, not something this engine works around.
func Number(employeeName string, year int, month time.Month) string {
	name := strings.Join(strings.Fields(upper.String(employeeName)), "-")
	return fmt.Sprintf("EMP-%s-%04d-%02d", name, year, int(month))
}
