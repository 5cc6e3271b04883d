// Package errors holds the sentinel errors shared by the registry backends,
// the service layer and the HTTP handlers.
package errors

import (
	"fmt"
)

var (
	// ErrNotFound reports a missing company or employee.
	ErrNotFound = fmt.Errorf("not found")
	// ErrDuplicateName reports a company name already taken by another company.
	ErrDuplicateName = fmt.Errorf("company name already exists")
	// ErrInvalidInput reports a malformed request.
	ErrInvalidInput = fmt.Errorf("invalid input")
)
