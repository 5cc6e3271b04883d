package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CompanyHandler provides HTTP methods for company and employee operations,
// mapping requests to a CompanyController interface.
type CompanyHandler struct {
	service CompanyController
	logger  *zap.Logger
}

// NewCompanyHandler constructs a new CompanyHandler with the given service and logger.
func NewCompanyHandler(service CompanyController, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		logger:  logger.Named("http_handler"),
	}
}

// Register mounts the company routes on group.
func (h *CompanyHandler) Register(group *gin.RouterGroup) {
	companies := group.Group("/companies")
	{
		companies.POST("", h.CreateCompany)
		companies.GET("", h.ListCompanies)
		companies.DELETE("", h.DeleteAllCompanies)
		companies.GET("/:companyID", h.GetCompany)
		companies.PUT("/:companyID", h.UpdateCompany)
		companies.DELETE("/:companyID", h.DeleteCompany)

		employees := companies.Group("/:companyID/employees")
		{
			employees.POST("", h.AddEmployee)
			employees.GET("", h.ListEmployees)
			employees.GET("/:employeeID", h.GetEmployee)
			employees.PUT("/:employeeID", h.UpdateEmployee)
			employees.DELETE("/:employeeID", h.DeleteEmployee)
		}
	}
}

// CreateCompany handles POST /companies.
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, invalidInput(err))
		return
	}

	created, err := h.service.CreateCompany(c.Request.Context(), req.toModel())
	if err != nil {
		h.logger.Info("Create company rejected", zap.String("name", req.Name), zap.Error(err))
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// ListCompanies handles GET /companies with optional pageSize and pageIndex.
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	var query pageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.fail(c, invalidInput(err))
		return
	}

	companies, err := h.service.ListCompanies(c.Request.Context(), query.toPage())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := h.service.GetCompany(c.Request.Context(), c.Param("companyID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// UpdateCompany handles PUT /companies/:companyID. Only the name is applied.
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, invalidInput(err))
		return
	}

	updated, err := h.service.UpdateCompany(c.Request.Context(), req.toUpdate(c.Param("companyID")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	if err := h.service.DeleteCompany(c.Request.Context(), c.Param("companyID")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// DeleteAllCompanies handles DELETE /companies and resets the registry.
func (h *CompanyHandler) DeleteAllCompanies(c *gin.Context) {
	if err := h.service.DeleteAllCompanies(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *CompanyHandler) AddEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, invalidInput(err))
		return
	}

	added, err := h.service.AddEmployee(c.Request.Context(), c.Param("companyID"), req.toModel())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, added)
}

func (h *CompanyHandler) ListEmployees(c *gin.Context) {
	employees, err := h.service.ListEmployees(c.Request.Context(), c.Param("companyID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *CompanyHandler) GetEmployee(c *gin.Context) {
	employee, err := h.service.GetEmployee(c.Request.Context(), c.Param("companyID"), c.Param("employeeID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *CompanyHandler) UpdateEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, invalidInput(err))
		return
	}

	update := req.toUpdate(c.Param("companyID"), c.Param("employeeID"))
	updated, err := h.service.UpdateEmployee(c.Request.Context(), update)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CompanyHandler) DeleteEmployee(c *gin.Context) {
	if err := h.service.DeleteEmployee(c.Request.Context(), c.Param("companyID"), c.Param("employeeID")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *CompanyHandler) fail(c *gin.Context, err error) {
	status, body := h.mapServiceError(err)
	c.AbortWithStatusJSON(status, body)
}
