package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/checkout-fields/internal/businessfields"
	"github.com/erp/checkout-fields/internal/domain/checkout"
	"github.com/erp/checkout-fields/internal/infrastructure/config"
	"github.com/erp/checkout-fields/internal/infrastructure/logger"
	"github.com/erp/checkout-fields/internal/infrastructure/persistence"
	"github.com/erp/checkout-fields/internal/infrastructure/vat"
	"github.com/erp/checkout-fields/internal/interfaces/http/handler"
	"github.com/erp/checkout-fields/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting checkout-fields service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected")

	orderStore := persistence.NewGormOrderStore(db.DB)

	// VAT validation: VIES client behind a redis-or-memory result cache
	var vatValidator checkout.VATValidator
	if cfg.BusinessFields.ValidateEUVAT {
		viesClient := vat.NewViesClient(vat.Config{
			BaseURL:        cfg.VAT.BaseURL,
			TimeoutSeconds: cfg.VAT.TimeoutSeconds,
		}, log)

		redisClient, err := vat.NewRedisClient(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, VAT cache is memory-only", zap.Error(err))
			redisClient = nil
		}
		vatValidator = vat.NewCachedValidator(viesClient, redisClient, cfg.VAT.CacheTTL, log)
	}

	settings, err := cfg.BusinessFields.Settings()
	if err != nil {
		log.Fatal("Invalid business fields settings", zap.Error(err))
	}

	extension, err := businessfields.New(settings, orderStore, vatValidator, handler.IsFinalSubmission, log)
	if err != nil {
		log.Fatal("Failed to create business fields extension", zap.Error(err))
	}

	manager := checkout.NewExtensionManager()
	if err := manager.Register(extension); err != nil {
		log.Fatal("Failed to register extension", zap.Error(err))
	}

	pipeline := checkout.NewPipeline(manager, orderStore, log)

	fieldRegistry := handler.NewHostFieldRegistry()
	if err := pipeline.RegisterFields(fieldRegistry, fieldRegistry); err != nil {
		log.Fatal("Failed to register checkout fields", zap.Error(err))
	}
	log.Info("Checkout fields registered", zap.Int("count", len(fieldRegistry.Definitions())))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	checkoutHandler := handler.NewCheckoutHandler(pipeline, orderStore, fieldRegistry, log)
	engine := router.New(checkoutHandler, db, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
