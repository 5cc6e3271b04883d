package db

import (
	"context"
	"math"
	"testing"

	e "github.com/gartstein/companyapi/internal/company/errors"
	"github.com/gartstein/companyapi/internal/company/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// SetupTestDB initializes an in-memory SQLite registry for testing.
func SetupTestDB(t *testing.T) *Repository {
	repo, err := NewRepository(&Config{DSN: ":memory:"}, zaptest.NewLogger(t))
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func createCompany(t *testing.T, repo *Repository, name string) *models.Company {
	t.Helper()
	company := &models.Company{Name: name}
	require.NoError(t, repo.CreateCompany(context.Background(), company), "CreateCompany should succeed")
	return company
}

// TestCreateCompany tests the creation of a company record.
func TestCreateCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := &models.Company{Name: "Benz"}
	err := repo.CreateCompany(ctx, company)
	assert.NoError(t, err, "CreateCompany should not return an error")
	assert.NotEmpty(t, company.CompanyID, "CreateCompany should assign an identifier")

	retrieved, err := repo.GetCompany(ctx, company.CompanyID)
	assert.NoError(t, err, "GetCompany should retrieve the created company")
	assert.Equal(t, company.Name, retrieved.Name, "Company name should match")
	assert.Empty(t, retrieved.Employees, "New company should have no employees")
}

// TestCreateCompanyDuplicateName verifies the name uniqueness check.
func TestCreateCompanyDuplicateName(t *testing.T) {
	repo := SetupTestDB(t)
	createCompany(t, repo, "Benz")

	err := repo.CreateCompany(context.Background(), &models.Company{Name: "Benz"})
	assert.ErrorIs(t, err, e.ErrDuplicateName, "CreateCompany should reject a taken name")
}

// TestGetCompanyNotFound verifies error handling when the company does not exist.
func TestGetCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	_, err := repo.GetCompany(context.Background(), "NOT_EXISTING_COMPANY_ID")
	assert.ErrorIs(t, err, e.ErrNotFound, "GetCompany should return ErrNotFound for non-existent company")
}

// TestListCompanies checks insertion order and pagination.
func TestListCompanies(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	c1 := createCompany(t, repo, "Company1")
	c2 := createCompany(t, repo, "Company2")
	c3 := createCompany(t, repo, "Company3")

	all, err := repo.ListCompanies(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{c1.CompanyID, c2.CompanyID, c3.CompanyID},
		[]string{all[0].CompanyID, all[1].CompanyID, all[2].CompanyID})

	first, err := repo.ListCompanies(ctx, &models.Page{Size: 2, Index: 1})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Company1", first[0].Name)
	assert.Equal(t, "Company2", first[1].Name)

	last, err := repo.ListCompanies(ctx, &models.Page{Size: 2, Index: 2})
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "Company3", last[0].Name)

	beyond, err := repo.ListCompanies(ctx, &models.Page{Size: 2, Index: 5})
	require.NoError(t, err)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)

	overflow, err := repo.ListCompanies(ctx, &models.Page{Size: math.MaxInt/2 + 1, Index: 3})
	require.NoError(t, err)
	assert.NotNil(t, overflow)
	assert.Empty(t, overflow, "a page whose offset overflows selects nothing")
}

// TestUpdateCompany checks if updating a company's name works.
func TestUpdateCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	company := createCompany(t, repo, "Benz")

	updated, err := repo.UpdateCompany(ctx, &models.CompanyUpdate{CompanyID: company.CompanyID, Name: "MercedesBenz"})
	assert.NoError(t, err, "UpdateCompany should not return an error")
	assert.Equal(t, "MercedesBenz", updated.Name, "Company name should be updated")
	assert.Equal(t, company.CompanyID, updated.CompanyID, "Company ID should be preserved")
}

// TestUpdateCompanyErrors tests updating a missing company and renaming onto a taken name.
func TestUpdateCompanyErrors(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	benz := createCompany(t, repo, "Benz")
	createCompany(t, repo, "BMW")

	_, err := repo.UpdateCompany(ctx, &models.CompanyUpdate{CompanyID: "missing", Name: "Non-existent"})
	assert.ErrorIs(t, err, e.ErrNotFound, "UpdateCompany should return ErrNotFound for missing company")

	_, err = repo.UpdateCompany(ctx, &models.CompanyUpdate{CompanyID: benz.CompanyID, Name: "BMW"})
	assert.ErrorIs(t, err, e.ErrDuplicateName, "UpdateCompany should reject a name used by another company")

	_, err = repo.UpdateCompany(ctx, &models.CompanyUpdate{CompanyID: benz.CompanyID, Name: "Benz"})
	assert.NoError(t, err, "keeping the same name is not a conflict")
}

// TestDeleteCompany ensures companies and their employees are deleted.
func TestDeleteCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	company := createCompany(t, repo, "To Be Deleted")
	employee := &models.Employee{Name: "LiSi", Salary: 20000}
	require.NoError(t, repo.CreateEmployee(ctx, company.CompanyID, employee))

	err := repo.DeleteCompany(ctx, company.CompanyID)
	assert.NoError(t, err, "DeleteCompany should not return an error")

	_, err = repo.GetCompany(ctx, company.CompanyID)
	assert.ErrorIs(t, err, e.ErrNotFound, "Deleted company should not be found")
	_, err = repo.GetEmployee(ctx, company.CompanyID, employee.EmployeeID)
	assert.ErrorIs(t, err, e.ErrNotFound, "Employees of a deleted company should not be found")
}

// TestDeleteCompanyNotFound checks behavior when trying to delete a non-existent company.
func TestDeleteCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	err := repo.DeleteCompany(context.Background(), "missing")
	assert.ErrorIs(t, err, e.ErrNotFound, "DeleteCompany should return ErrNotFound for missing company")
}

// TestDeleteAllCompanies clears the registry.
func TestDeleteAllCompanies(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	benz := createCompany(t, repo, "Benz")
	require.NoError(t, repo.CreateEmployee(ctx, benz.CompanyID, &models.Employee{Name: "ZhangSan", Salary: 1}))
	createCompany(t, repo, "BMW")

	require.NoError(t, repo.DeleteAllCompanies(ctx))

	all, err := repo.ListCompanies(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
	createCompany(t, repo, "Benz")
}

// TestEmployeeLifecycle covers add, list, get, update and delete of employees.
func TestEmployeeLifecycle(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	benz := createCompany(t, repo, "Benz")

	zhang := &models.Employee{Name: "ZhangSan", Salary: 10000}
	require.NoError(t, repo.CreateEmployee(ctx, benz.CompanyID, zhang))
	lisi := &models.Employee{Name: "LiSi", Salary: 20000}
	require.NoError(t, repo.CreateEmployee(ctx, benz.CompanyID, lisi))

	list, err := repo.ListEmployees(ctx, benz.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, []models.Employee{*zhang, *lisi}, list)

	company, err := repo.GetCompany(ctx, benz.CompanyID)
	require.NoError(t, err)
	assert.Len(t, company.Employees, 2)

	updated, err := repo.UpdateEmployee(ctx, &models.EmployeeUpdate{
		CompanyID:  benz.CompanyID,
		EmployeeID: zhang.EmployeeID,
		Name:       "WangWu",
		Salary:     30000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.Employee{Name: "WangWu", Salary: 30000, EmployeeID: zhang.EmployeeID}, *updated)

	require.NoError(t, repo.DeleteEmployee(ctx, benz.CompanyID, zhang.EmployeeID))
	_, err = repo.GetEmployee(ctx, benz.CompanyID, zhang.EmployeeID)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteEmployee(ctx, benz.CompanyID, zhang.EmployeeID), e.ErrNotFound)
}

// TestEmployeeMissingCompany checks that employee operations report missing companies.
func TestEmployeeMissingCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	err := repo.CreateEmployee(ctx, "missing", &models.Employee{Name: "ZhangSan"})
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = repo.ListEmployees(ctx, "missing")
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = repo.UpdateEmployee(ctx, &models.EmployeeUpdate{CompanyID: "missing", EmployeeID: "missing"})
	assert.ErrorIs(t, err, e.ErrNotFound)
}

// TestWithTransaction ensures a failing transaction is rolled back.
func TestWithTransaction(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(txRepo *Repository) error {
		if err := txRepo.CreateCompany(ctx, &models.Company{Name: "Transactional Company"}); err != nil {
			return err
		}
		return e.ErrInvalidInput
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	exists, err := repo.CompanyExistsByName(ctx, "Transactional Company", "")
	assert.NoError(t, err)
	assert.False(t, exists, "Company should not exist after rollback")
}
