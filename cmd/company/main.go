package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/companyapi/internal/company/config"
	"github.com/gartstein/companyapi/internal/company/controller"
	gorm "github.com/gartstein/companyapi/internal/company/db"
	"github.com/gartstein/companyapi/internal/company/events"
	"github.com/gartstein/companyapi/internal/company/handlers"
	"github.com/gartstein/companyapi/internal/company/registry"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	repo, err := initRepository(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize registry", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close registry", zap.Error(err))
		}
	}()

	producer, err := initProducer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	companySvc := controller.NewCompanyService(repo, producer, logger)

	gin.SetMode(gin.ReleaseMode)
	companyHandler := handlers.NewCompanyHandler(companySvc, logger)
	server := handlers.NewServer(cfg.HTTPPort, companyHandler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	waitForShutdown(server, errCh, logger)
}

// initLogger builds a Zap production logger at the configured level.
func initLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

func initRepository(cfg *config.Config, logger *zap.Logger) (controller.Repository, error) {
	if cfg.Store == config.StoreSQLite {
		repo, err := gorm.NewRepository(&gorm.Config{DSN: cfg.SQLiteDSN}, logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	logger.Info("Using in-memory registry")
	return registry.New(), nil
}

type eventProducer interface {
	controller.EventProducer
	Close()
}

// initProducer publishes to Kafka only when brokers are configured.
func initProducer(cfg *config.Config, logger *zap.Logger) (eventProducer, error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, events disabled")
		return events.NopProducer{}, nil
	}
	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		return nil, err
	}
	return producer, nil
}

// waitForShutdown blocks until an interrupt, SIGTERM or a server failure,
// then stops the server.
func waitForShutdown(server *handlers.Server, errCh <-chan error, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	server.Stop()
	logger.Info("Server stopped properly")
}
