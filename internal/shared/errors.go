package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness constraint was hit, typically
	// on an invoice number or payroll correlation key.
	ErrDuplicate = errors.New("duplicate document")
	// ErrLocked indicates another run holds the reconciliation lock.
	ErrLocked = errors.New("reconciliation lock held")
)
