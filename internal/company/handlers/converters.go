package handlers

import (
	"errors"
	"fmt"
	"net/http"

	e "github.com/gartstein/companyapi/internal/company/errors"
	"github.com/gartstein/companyapi/internal/company/models"
	"go.uber.org/zap"
)

// companyRequest is the accepted body for company create and update.
// Client-supplied identifiers and employees are ignored.
type companyRequest struct {
	Name string `json:"name"`
}

type employeeRequest struct {
	Name   string `json:"name"`
	Salary int    `json:"salary"`
}

// pageQuery binds the optional pagination parameters.
type pageQuery struct {
	PageSize  *int `form:"pageSize"`
	PageIndex *int `form:"pageIndex"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toModel converts a create request into a Company model.
func (r companyRequest) toModel() *models.Company {
	return &models.Company{Name: r.Name}
}

func (r companyRequest) toUpdate(companyID string) *models.CompanyUpdate {
	return &models.CompanyUpdate{CompanyID: companyID, Name: r.Name}
}

func (r employeeRequest) toModel() *models.Employee {
	return &models.Employee{Name: r.Name, Salary: r.Salary}
}

func (r employeeRequest) toUpdate(companyID, employeeID string) *models.EmployeeUpdate {
	return &models.EmployeeUpdate{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Name:       r.Name,
		Salary:     r.Salary,
	}
}

// toPage returns nil unless both parameters were supplied.
func (q pageQuery) toPage() *models.Page {
	if q.PageSize == nil || q.PageIndex == nil {
		return nil
	}
	return &models.Page{Size: *q.PageSize, Index: *q.PageIndex}
}

// invalidInput wraps a binding failure so it maps to 400.
func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
}

// mapServiceError maps domain or repository errors to HTTP status codes.
func (h *CompanyHandler) mapServiceError(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, e.ErrDuplicateName):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	default:
		h.logger.Error("Internal server error", zap.Error(err))
		return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
	}
}
