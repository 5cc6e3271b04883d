// Package db implements the company registry on top of GORM and an
// in-memory SQLite database.
package db

import (
	"context"
	"errors"
	"fmt"

	rows "github.com/gartstein/companyapi/internal/company/db/models"
	e "github.com/gartstein/companyapi/internal/company/errors"
	"github.com/gartstein/companyapi/internal/company/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultDSN keeps the database in process memory.
const DefaultDSN = ":memory:"

type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

type Config struct {
	DSN string
}

func NewRepository(cfg *Config, logger *zap.Logger) (*Repository, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = DefaultDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" opens a separate database; keep exactly one.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&rows.Company{}, &rows.Employee{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger = logger.Named("sqlite_repository")
	logger.Info("SQLite registry ready", zap.String("dsn", dsn))
	return &Repository{db: db, logger: logger}, nil
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	return r.WithTransaction(ctx, func(repo *Repository) error {
		exists, err := repo.CompanyExistsByName(ctx, company.Name, "")
		if err != nil {
			return err
		}
		if exists {
			return e.ErrDuplicateName
		}

		row := rows.Company{CompanyID: models.NewCompanyID(), Name: company.Name}
		if err := repo.db.WithContext(ctx).Create(&row).Error; err != nil {
			return translate(err)
		}
		company.CompanyID = row.CompanyID
		company.Employees = []models.Employee{}
		return nil
	})
}

func (r *Repository) ListCompanies(ctx context.Context, page *models.Page) ([]models.Company, error) {
	query := r.db.WithContext(ctx).Order("seq")
	if page != nil {
		var total int64
		if err := r.db.WithContext(ctx).Model(&rows.Company{}).Count(&total).Error; err != nil {
			return nil, err
		}
		start, end, ok := page.Bounds(int(total))
		if !ok {
			return []models.Company{}, nil
		}
		query = query.Offset(start).Limit(end - start)
	}

	var companyRows []rows.Company
	if err := query.Find(&companyRows).Error; err != nil {
		return nil, err
	}

	result := make([]models.Company, 0, len(companyRows))
	for _, row := range companyRows {
		employees, err := r.listEmployees(ctx, row.CompanyID)
		if err != nil {
			return nil, err
		}
		result = append(result, companyFromRow(row, employees))
	}
	return result, nil
}

func (r *Repository) GetCompany(ctx context.Context, companyID string) (*models.Company, error) {
	row, err := r.companyRow(ctx, companyID)
	if err != nil {
		return nil, err
	}
	employees, err := r.listEmployees(ctx, companyID)
	if err != nil {
		return nil, err
	}
	company := companyFromRow(*row, employees)
	return &company, nil
}

func (r *Repository) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	err := r.WithTransaction(ctx, func(repo *Repository) error {
		if _, err := repo.companyRow(ctx, update.CompanyID); err != nil {
			return err
		}
		exists, err := repo.CompanyExistsByName(ctx, update.Name, update.CompanyID)
		if err != nil {
			return err
		}
		if exists {
			return e.ErrDuplicateName
		}

		result := repo.db.WithContext(ctx).Model(&rows.Company{}).
			Where("company_id = ?", update.CompanyID).
			Update("name", update.Name)
		return translate(result.Error)
	})
	if err != nil {
		return nil, err
	}
	return r.GetCompany(ctx, update.CompanyID)
}

// DeleteCompany removes the company and its employees in one transaction.
func (r *Repository) DeleteCompany(ctx context.Context, companyID string) error {
	return r.WithTransaction(ctx, func(repo *Repository) error {
		result := repo.db.WithContext(ctx).Delete(&rows.Company{}, "company_id = ?", companyID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}
		return repo.db.WithContext(ctx).Delete(&rows.Employee{}, "company_id = ?", companyID).Error
	})
}

func (r *Repository) DeleteAllCompanies(ctx context.Context) error {
	return r.WithTransaction(ctx, func(repo *Repository) error {
		tx := repo.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := tx.Delete(&rows.Employee{}).Error; err != nil {
			return err
		}
		return tx.Delete(&rows.Company{}).Error
	})
}

func (r *Repository) CreateEmployee(ctx context.Context, companyID string, employee *models.Employee) error {
	return r.WithTransaction(ctx, func(repo *Repository) error {
		if _, err := repo.companyRow(ctx, companyID); err != nil {
			return err
		}
		row := rows.Employee{
			EmployeeID: models.NewEmployeeID(),
			CompanyID:  companyID,
			Name:       employee.Name,
			Salary:     employee.Salary,
		}
		if err := repo.db.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
		employee.EmployeeID = row.EmployeeID
		return nil
	})
}

func (r *Repository) ListEmployees(ctx context.Context, companyID string) ([]models.Employee, error) {
	if _, err := r.companyRow(ctx, companyID); err != nil {
		return nil, err
	}
	return r.listEmployees(ctx, companyID)
}

func (r *Repository) GetEmployee(ctx context.Context, companyID, employeeID string) (*models.Employee, error) {
	var row rows.Employee
	result := r.db.WithContext(ctx).
		First(&row, "company_id = ? AND employee_id = ?", companyID, employeeID)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	employee := employeeFromRow(row)
	return &employee, nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) (*models.Employee, error) {
	result := r.db.WithContext(ctx).Model(&rows.Employee{}).
		Where("company_id = ? AND employee_id = ?", update.CompanyID, update.EmployeeID).
		Updates(map[string]interface{}{"name": update.Name, "salary": update.Salary})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, e.ErrNotFound
	}
	return r.GetEmployee(ctx, update.CompanyID, update.EmployeeID)
}

func (r *Repository) DeleteEmployee(ctx context.Context, companyID, employeeID string) error {
	result := r.db.WithContext(ctx).
		Delete(&rows.Employee{}, "company_id = ? AND employee_id = ?", companyID, employeeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// CompanyExistsByName reports whether a company other than exceptID uses name.
func (r *Repository) CompanyExistsByName(ctx context.Context, name, exceptID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&rows.Company{}).
		Where("name = ? AND company_id <> ?", name, exceptID).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, logger: r.logger})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func (r *Repository) companyRow(ctx context.Context, companyID string) (*rows.Company, error) {
	var row rows.Company
	result := r.db.WithContext(ctx).First(&row, "company_id = ?", companyID)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &row, nil
}

func (r *Repository) listEmployees(ctx context.Context, companyID string) ([]models.Employee, error) {
	var employeeRows []rows.Employee
	if err := r.db.WithContext(ctx).Order("seq").Find(&employeeRows, "company_id = ?", companyID).Error; err != nil {
		return nil, err
	}
	employees := make([]models.Employee, 0, len(employeeRows))
	for _, row := range employeeRows {
		employees = append(employees, employeeFromRow(row))
	}
	return employees, nil
}

// translate maps GORM errors onto the shared sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return e.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return e.ErrDuplicateName
	default:
		return err
	}
}

func companyFromRow(row rows.Company, employees []models.Employee) models.Company {
	return models.Company{
		Name:      row.Name,
		CompanyID: row.CompanyID,
		Employees: employees,
	}
}

func employeeFromRow(row rows.Employee) models.Employee {
	return models.Employee{
		Name:       row.Name,
		Salary:     row.Salary,
		EmployeeID: row.EmployeeID,
	}
}
