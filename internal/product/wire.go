//go:build wireinject
// +build wireinject

package product

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/product-crud/internal/product/delivery/http"
	"github.com/tair/product-crud/internal/product/domain"
	"github.com/tair/product-crud/internal/product/repository"
	"github.com/tair/product-crud/internal/product/usecase/command"
	"github.com/tair/product-crud/internal/product/usecase/query"
)

// ProvideGormRepository provides the postgres-backed product repository with tracing
func ProvideGormRepository(db *gorm.DB, tp trace.TracerProvider) domain.ProductRepository {
	return repository.NewTracingProductRepository(repository.NewGormProductRepository(db), tp)
}

// ProvideMemoryRepository provides the in-memory product repository with tracing
func ProvideMemoryRepository(tp trace.TracerProvider) domain.ProductRepository {
	return repository.NewTracingProductRepository(repository.NewMemoryProductRepository(), tp)
}

// Command Handlers Providers
func ProvideCreateProductHandler(repo domain.ProductRepository) *command.CreateProductHandler {
	return command.NewCreateProductHandler(repo)
}

func ProvideUpdateProductHandler(repo domain.ProductRepository) *command.UpdateProductHandler {
	return command.NewUpdateProductHandler(repo)
}

func ProvideDeleteProductHandler(repo domain.ProductRepository) *command.DeleteProductHandler {
	return command.NewDeleteProductHandler(repo)
}

// Query Handlers Providers
func ProvideGetProductHandler(repo domain.ProductRepository) *query.GetProductHandler {
	return query.NewGetProductHandler(repo)
}

func ProvideListProductsHandler(repo domain.ProductRepository) *query.ListProductsHandler {
	return query.NewListProductsHandler(repo)
}

// Wire sets
var CommandHandlerSet = wire.NewSet(
	ProvideCreateProductHandler,
	ProvideUpdateProductHandler,
	ProvideDeleteProductHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetProductHandler,
	ProvideListProductsHandler,
)

var AllHandlersSet = wire.NewSet(
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes HTTP handler backed by postgres
func InitializeHTTPHandler(db *gorm.DB, log zerolog.Logger, reg prometheus.Registerer, tp trace.TracerProvider) (*http.ProductHandler, error) {
	wire.Build(
		ProvideGormRepository,
		AllHandlersSet,
		http.NewProductHandlerWithDI,
	)
	return nil, nil
}

// InitializeMemoryHTTPHandler initializes HTTP handler backed by process memory
func InitializeMemoryHTTPHandler(log zerolog.Logger, reg prometheus.Registerer, tp trace.TracerProvider) (*http.ProductHandler, error) {
	wire.Build(
		ProvideMemoryRepository,
		AllHandlersSet,
		http.NewProductHandlerWithDI,
	)
	return nil, nil
}
