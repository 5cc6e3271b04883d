// Package registry implements the in-memory company registry and the
// per-company employee lists. A single lock guards the whole aggregate so
// adds, updates and cascading deletes are never observed half-applied.
package registry

import (
	"context"
	"slices"
	"sync"

	e "github.com/gartstein/companyapi/internal/company/errors"
	"github.com/gartstein/companyapi/internal/company/models"
)

// Registry stores companies in insertion order. The zero value is not usable;
// construct with New.
type Registry struct {
	mu        sync.RWMutex
	companies []*models.Company
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// CreateCompany assigns a fresh identifier to company and appends it.
// Any employees carried by company are discarded.
func (r *Registry) CreateCompany(_ context.Context, company *models.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexByName(company.Name) >= 0 {
		return e.ErrDuplicateName
	}

	company.CompanyID = models.NewCompanyID()
	company.Employees = []models.Employee{}
	r.companies = append(r.companies, company.Clone())
	return nil
}

// ListCompanies returns every company when page is nil, otherwise the
// selected window. A page past the end yields an empty slice.
func (r *Registry) ListCompanies(_ context.Context, page *models.Page) ([]models.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start, end := 0, len(r.companies)
	if page != nil {
		var ok bool
		if start, end, ok = page.Bounds(len(r.companies)); !ok {
			return []models.Company{}, nil
		}
	}

	result := make([]models.Company, 0, end-start)
	for _, company := range r.companies[start:end] {
		result = append(result, *company.Clone())
	}
	return result, nil
}

// GetCompany returns a copy of the company with the given id.
func (r *Registry) GetCompany(_ context.Context, companyID string) (*models.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexByID(companyID)
	if i < 0 {
		return nil, e.ErrNotFound
	}
	return r.companies[i].Clone(), nil
}

// UpdateCompany replaces the name of an existing company. Renaming to a name
// held by another company fails with ErrDuplicateName.
func (r *Registry) UpdateCompany(_ context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(update.CompanyID)
	if i < 0 {
		return nil, e.ErrNotFound
	}
	if j := r.indexByName(update.Name); j >= 0 && j != i {
		return nil, e.ErrDuplicateName
	}

	r.companies[i].Name = update.Name
	return r.companies[i].Clone(), nil
}

// DeleteCompany removes a company together with its employees.
func (r *Registry) DeleteCompany(_ context.Context, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(companyID)
	if i < 0 {
		return e.ErrNotFound
	}
	r.companies = slices.Delete(r.companies, i, i+1)
	return nil
}

// DeleteAllCompanies empties the registry.
func (r *Registry) DeleteAllCompanies(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.companies = nil
	return nil
}

// CreateEmployee assigns a fresh identifier to employee and appends it to
// the company's list.
func (r *Registry) CreateEmployee(_ context.Context, companyID string, employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(companyID)
	if i < 0 {
		return e.ErrNotFound
	}

	employee.EmployeeID = models.NewEmployeeID()
	r.companies[i].Employees = append(r.companies[i].Employees, *employee)
	return nil
}

// ListEmployees returns the company's employees in insertion order.
func (r *Registry) ListEmployees(_ context.Context, companyID string) ([]models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexByID(companyID)
	if i < 0 {
		return nil, e.ErrNotFound
	}
	return r.companies[i].Clone().Employees, nil
}

// GetEmployee returns a copy of one employee of the company.
func (r *Registry) GetEmployee(_ context.Context, companyID, employeeID string) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	company, j := r.locateEmployee(companyID, employeeID)
	if j < 0 {
		return nil, e.ErrNotFound
	}
	employee := company.Employees[j]
	return &employee, nil
}

// UpdateEmployee replaces the name and salary of an existing employee.
func (r *Registry) UpdateEmployee(_ context.Context, update *models.EmployeeUpdate) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	company, j := r.locateEmployee(update.CompanyID, update.EmployeeID)
	if j < 0 {
		return nil, e.ErrNotFound
	}
	company.Employees[j].Name = update.Name
	company.Employees[j].Salary = update.Salary

	employee := company.Employees[j]
	return &employee, nil
}

// DeleteEmployee removes one employee from the company.
func (r *Registry) DeleteEmployee(_ context.Context, companyID, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	company, j := r.locateEmployee(companyID, employeeID)
	if j < 0 {
		return e.ErrNotFound
	}
	company.Employees = slices.Delete(company.Employees, j, j+1)
	return nil
}

// Close is a no-op; it lets Registry stand in for the SQL-backed repository.
func (r *Registry) Close() error {
	return nil
}

// indexByID and the helpers below expect r.mu to be held.
func (r *Registry) indexByID(companyID string) int {
	for i, company := range r.companies {
		if company.CompanyID == companyID {
			return i
		}
	}
	return -1
}

func (r *Registry) indexByName(name string) int {
	for i, company := range r.companies {
		if company.Name == name {
			return i
		}
	}
	return -1
}

func (r *Registry) locateEmployee(companyID, employeeID string) (*models.Company, int) {
	i := r.indexByID(companyID)
	if i < 0 {
		return nil, -1
	}
	company := r.companies[i]
	for j := range company.Employees {
		if company.Employees[j].EmployeeID == employeeID {
			return company, j
		}
	}
	return company, -1
}
