package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	_ "github.com/tair/product-crud/docs"
	"github.com/tair/product-crud/internal/config"
	"github.com/tair/product-crud/internal/product"
	httpDelivery "github.com/tair/product-crud/internal/product/delivery/http"
	"github.com/tair/product-crud/internal/product/repository"
	"github.com/tair/product-crud/pkg/database"
	"github.com/tair/product-crud/pkg/logger"
	"github.com/tair/product-crud/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		ServiceName: cfg.Service.Name,
		Level:       cfg.Service.LogLevel,
		Development: cfg.Service.IsDevelopment(),
	})

	if err := run(cfg, log.Logger); err != nil {
		log.Error().Err(err).Msg("Product service stopped with error")
		log.Close()
		os.Exit(1)
	}

	log.Info().Msg("Product service stopped")
	log.Close()
}

func run(cfg *config.Config, log zerolog.Logger) error {
	log.Info().
		Str("environment", cfg.Service.Environment).
		Str("log_level", cfg.Service.LogLevel).
		Str("storage", cfg.Database.Driver).
		Msg("Starting product service")

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Service.Name, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				log.Error().Err(err).Msg("Failed to shut down tracer")
			}
		}()
		log.Info().Str("endpoint", cfg.Tracing.JaegerEndpoint).Msg("Tracer initialized")
	}

	handler, sqlDB, err := buildHandler(cfg, log)
	if err != nil {
		return err
	}
	if sqlDB != nil {
		defer sqlDB.Close()
	}

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router, sqlDB)
	router.Handle("/metrics", promhttp.Handler())
	if cfg.Service.IsDevelopment() {
		httpDelivery.RegisterSwaggerDocs(router)
	}

	mwConfig := httpDelivery.DefaultMiddlewareConfig(log, cfg.CORS.AllowedOrigins)
	mwConfig.TimeoutDuration = cfg.Server.RequestTimeout
	httpDelivery.RegisterMiddlewares(router, mwConfig)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpDelivery.SetupCORS(mwConfig)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Strs("allowed_origins", cfg.CORS.AllowedOrigins).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// buildHandler opens the configured storage and wires the product handler.
// The returned *sql.DB is nil for the memory driver.
func buildHandler(cfg *config.Config, log zerolog.Logger) (*httpDelivery.ProductHandler, *sql.DB, error) {
	tp := otel.GetTracerProvider()

	if cfg.Database.Driver == "memory" {
		log.Warn().Msg("Using in-memory storage; data is lost on restart")
		handler, err := product.InitializeMemoryHTTPHandler(log, prometheus.DefaultRegisterer, tp)
		return handler, nil, err
	}

	db, err := database.NewGormConnection(database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}

	if err := migrate(db); err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	log.Info().Msg("Database initialized successfully")

	handler, err := product.InitializeHTTPHandler(db, log, prometheus.DefaultRegisterer, tp)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	return handler, sqlDB, nil
}

func migrate(db *gorm.DB) error {
	return repository.NewGormProductRepository(db).AutoMigrate()
}
