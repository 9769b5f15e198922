// Package employees exposes read-only employee and site master data.
// Records are owned by the HR administration subsystem; this engine only
// resolves them while generating financial documents.
package employees

// Employee master record.
type Employee struct {
	ID            string
	DisplayName   string
	Email         string
	TaxRegistered bool
}

// Site where work is performed.
type Site struct {
	ID   string
	Name string
}
