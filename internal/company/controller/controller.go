// Package controller implements the core business logic (service layer)
// for managing companies and their employees, orchestrating registry
// operations and sending relevant events.
package controller

import (
	"context"
	"errors"
	"fmt"

	e "github.com/gartstein/companyapi/internal/company/errors"
	"github.com/gartstein/companyapi/internal/company/events"
	"github.com/gartstein/companyapi/internal/company/models"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(event events.Event)
}

// Repository defines the storage interface for companies and employees.
// Missing records are reported with e.ErrNotFound, name clashes with
// e.ErrDuplicateName.
type Repository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	ListCompanies(ctx context.Context, page *models.Page) ([]models.Company, error)
	GetCompany(ctx context.Context, companyID string) (*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, companyID string) error
	DeleteAllCompanies(ctx context.Context) error

	CreateEmployee(ctx context.Context, companyID string, employee *models.Employee) error
	ListEmployees(ctx context.Context, companyID string) ([]models.Employee, error)
	GetEmployee(ctx context.Context, companyID, employeeID string) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, companyID, employeeID string) error

	Close() error
}

// CompanyService provides methods to manage companies and employees via
// repository operations and event production.
type CompanyService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewCompanyService constructs a CompanyService with a repository,
// an event producer, and a logger.
func NewCompanyService(repo Repository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// CreateCompany registers a new company. Names must be unique.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		if errors.Is(err, e.ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.emit(events.Event{Type: events.CompanyCreated, CompanyID: company.CompanyID, Company: company.Clone()})
	return company, nil
}

// ListCompanies returns every company in insertion order, or one page of
// them when page is non-nil.
func (s *CompanyService) ListCompanies(ctx context.Context, page *models.Page) ([]models.Company, error) {
	companies, err := s.repo.ListCompanies(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// GetCompany retrieves a Company by ID, returning an error if not found.
func (s *CompanyService) GetCompany(ctx context.Context, companyID string) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// UpdateCompany renames a company, keeping its identifier and employees.
func (s *CompanyService) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	updated, err := s.repo.UpdateCompany(ctx, update)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	s.emit(events.Event{Type: events.CompanyUpdated, CompanyID: updated.CompanyID, Company: updated.Clone()})
	return updated, nil
}

// DeleteCompany removes a company and all of its employees. Deleting an
// unknown company succeeds without side effects.
func (s *CompanyService) DeleteCompany(ctx context.Context, companyID string) error {
	if err := s.repo.DeleteCompany(ctx, companyID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			s.logger.Debug("Delete of unknown company ignored", zap.String("company_id", companyID))
			return nil
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}

	s.emit(events.Event{Type: events.CompanyDeleted, CompanyID: companyID})
	return nil
}

// DeleteAllCompanies empties the registry.
func (s *CompanyService) DeleteAllCompanies(ctx context.Context) error {
	if err := s.repo.DeleteAllCompanies(ctx); err != nil {
		return fmt.Errorf("failed to delete companies: %w", err)
	}

	s.emit(events.Event{Type: events.CompaniesCleared})
	return nil
}

// AddEmployee appends an employee to the company's list.
func (s *CompanyService) AddEmployee(ctx context.Context, companyID string, employee *models.Employee) (*models.Employee, error) {
	if err := s.repo.CreateEmployee(ctx, companyID, employee); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add employee: %w", err)
	}

	stored := *employee
	s.emit(events.Event{Type: events.EmployeeCreated, CompanyID: companyID, Employee: &stored})
	return employee, nil
}

func (s *CompanyService) ListEmployees(ctx context.Context, companyID string) ([]models.Employee, error) {
	employees, err := s.repo.ListEmployees(ctx, companyID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func (s *CompanyService) GetEmployee(ctx context.Context, companyID, employeeID string) (*models.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

// UpdateEmployee replaces an employee's name and salary.
func (s *CompanyService) UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) (*models.Employee, error) {
	updated, err := s.repo.UpdateEmployee(ctx, update)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	stored := *updated
	s.emit(events.Event{Type: events.EmployeeUpdated, CompanyID: update.CompanyID, Employee: &stored})
	return updated, nil
}

// DeleteEmployee removes an employee. Unknown companies or employees are ignored.
func (s *CompanyService) DeleteEmployee(ctx context.Context, companyID, employeeID string) error {
	if err := s.repo.DeleteEmployee(ctx, companyID, employeeID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			s.logger.Debug("Delete of unknown employee ignored",
				zap.String("company_id", companyID),
				zap.String("employee_id", employeeID),
			)
			return nil
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.emit(events.Event{
		Type:      events.EmployeeDeleted,
		CompanyID: companyID,
		Employee:  &models.Employee{EmployeeID: employeeID},
	})
	return nil
}

func (s *CompanyService) emit(event events.Event) {
	go func() {
		s.producer.Produce(event)
	}()
}
