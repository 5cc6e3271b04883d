// Package handlers provides the HTTP server for the company API, bridging
// the transport layer and business logic, translating between JSON requests
// and domain models.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gartstein/companyapi/internal/company/models"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// CompanyController defines the business logic interface
// that the HTTP handlers will invoke.
type CompanyController interface {
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	ListCompanies(ctx context.Context, page *models.Page) ([]models.Company, error)
	GetCompany(ctx context.Context, companyID string) (*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, companyID string) error
	DeleteAllCompanies(ctx context.Context) error

	AddEmployee(ctx context.Context, companyID string, employee *models.Employee) (*models.Employee, error)
	ListEmployees(ctx context.Context, companyID string) ([]models.Employee, error)
	GetEmployee(ctx context.Context, companyID, employeeID string) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, companyID, employeeID string) error
}

// Server owns the gin router and the HTTP server that exposes it.
type Server struct {
	router       *gin.Engine
	httpServer   *http.Server
	logger       *zap.Logger
	httpEndpoint string
}

// NewServer constructs a Server listening on httpPort and routing to h.
func NewServer(httpPort int, h *CompanyHandler, logger *zap.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := newMetrics(registry)

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(m.middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	h.Register(api)

	endpoint := fmt.Sprintf(":%d", httpPort)
	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              endpoint,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:       logger,
		httpEndpoint: endpoint,
	}
}

// Router returns the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start listens on the configured endpoint and serves until Stop is called.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.httpEndpoint)
	if err != nil {
		return fmt.Errorf("HTTP listen error: %w", err)
	}
	return s.Serve(lis)
}

// Serve accepts connections on lis. It returns nil after a graceful Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("Starting HTTP server", zap.String("endpoint", lis.Addr().String()))
	if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP serve error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Server stopped")
}
