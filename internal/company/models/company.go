// Package models defines the core domain models for the Company and Employee entities.
package models

import (
	"github.com/google/uuid"
)

const (
	companyIDPrefix  = "C"
	employeeIDPrefix = "E"
)

// Company defines the domain model for a company entity.
type Company struct {
	// Name is the company’s name. Unique across the registry.
	Name string `json:"name"`
	// CompanyID is assigned once, at creation.
	CompanyID string `json:"companyID"`
	// Employees are kept in insertion order.
	Employees []Employee `json:"employees"`
}

// Employee defines the domain model for an employee owned by a single company.
type Employee struct {
	Name       string `json:"name"`
	Salary     int    `json:"salary"`
	EmployeeID string `json:"employeeID"`
}

// CompanyUpdate represents the mutable fields of a Company.
type CompanyUpdate struct {
	// CompanyID identifies the company to update.
	CompanyID string
	// Name is the new name for the company.
	Name string
}

// EmployeeUpdate represents the mutable fields of an Employee.
type EmployeeUpdate struct {
	CompanyID  string
	EmployeeID string
	Name       string
	Salary     int
}

// Page selects a 1-indexed window of a listing.
type Page struct {
	Size  int
	Index int
}

// NewCompanyID returns a fresh company identifier.
func NewCompanyID() string {
	return companyIDPrefix + uuid.NewString()
}

// NewEmployeeID returns a fresh employee identifier.
func NewEmployeeID() string {
	return employeeIDPrefix + uuid.NewString()
}

// Equal reports whether both companies carry the same name.
// Identifiers and employees are not compared.
func (c *Company) Equal(other *Company) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Name == other.Name
}

// Clone returns a deep copy of the company.
func (c *Company) Clone() *Company {
	clone := *c
	clone.Employees = make([]Employee, len(c.Employees))
	copy(clone.Employees, c.Employees)
	return &clone
}

// Equal reports whether both employees carry the same name and salary.
func (e *Employee) Equal(other *Employee) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Name == other.Name && e.Salary == other.Salary
}

// Bounds returns the half-open range [start, end) the page covers in a listing
// of total items. ok is false when the page selects nothing.
func (p Page) Bounds(total int) (start, end int, ok bool) {
	if p.Size <= 0 || p.Index <= 0 || total <= 0 {
		return 0, 0, false
	}
	// Compare before multiplying so huge pages cannot overflow.
	if p.Index-1 > (total-1)/p.Size {
		return 0, 0, false
	}
	start = (p.Index - 1) * p.Size
	end = total
	if total-start > p.Size {
		end = start + p.Size
	}
	return start, end, true
}
