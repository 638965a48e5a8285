package repository

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/product-crud/internal/product/domain"
)

const tracerName = "product-repository"

// TracingProductRepository wraps a ProductRepository with one span per call
type TracingProductRepository struct {
	next   domain.ProductRepository
	tracer trace.Tracer
}

// NewTracingProductRepository creates a new repository with tracing
func NewTracingProductRepository(next domain.ProductRepository, tp trace.TracerProvider) *TracingProductRepository {
	return &TracingProductRepository{
		next:   next,
		tracer: tp.Tracer(tracerName),
	}
}

func (r *TracingProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("product.name", product.Name),
			attribute.String("product.category", product.Category),
			attribute.Float64("product.price", product.Price),
			attribute.Int("product.stock", product.Stock),
		),
	)
	defer span.End()

	if err := r.next.Create(ctx, product); err != nil {
		recordError(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("product.id", int(product.ID)))
	return nil
}

func (r *TracingProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	product, err := r.next.FindByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("product.name", product.Name),
		attribute.Int("product.version", int(product.Version)),
	)
	return product, nil
}

func (r *TracingProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindAll")
	defer span.End()

	products, err := r.next.FindAll(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingProductRepository) Replace(ctx context.Context, product *domain.Product, expectedVersion uint) error {
	ctx, span := r.tracer.Start(ctx, "repository.Replace",
		trace.WithAttributes(
			attribute.Int("product.id", int(product.ID)),
			attribute.Int("product.expected_version", int(expectedVersion)),
		),
	)
	defer span.End()

	if err := r.next.Replace(ctx, product, expectedVersion); err != nil {
		recordError(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("product.version", int(product.Version)))
	return nil
}

func (r *TracingProductRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := r.tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	if err := r.next.Delete(ctx, id); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (r *TracingProductRepository) Exists(ctx context.Context, id uint) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Exists",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	exists, err := r.next.Exists(ctx, id)
	if err != nil {
		recordError(span, err)
		return false, err
	}

	span.SetAttributes(attribute.Bool("product.exists", exists))
	return exists, nil
}

func (r *TracingProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Count")
	defer span.End()

	count, err := r.next.Count(ctx)
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.count", count))
	return count, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
