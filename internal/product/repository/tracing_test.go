package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tair/product-crud/internal/product/domain"
)

func setupTracing(t *testing.T) (*TracingProductRepository, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return NewTracingProductRepository(NewMemoryProductRepository(), tp), recorder
}

func TestTracingProductRepository_RecordsSpans(t *testing.T) {
	repo, recorder := setupTracing(t)
	ctx := context.Background()

	p := &domain.Product{Name: "Widget"}
	require.NoError(t, repo.Create(ctx, p))
	_, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "repository.Create", spans[0].Name())
	assert.Equal(t, "repository.FindByID", spans[1].Name())
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}

func TestTracingProductRepository_RecordsErrors(t *testing.T) {
	repo, recorder := setupTracing(t)

	_, err := repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	err = repo.Replace(context.Background(), &domain.Product{ID: 404}, 1)
	assert.ErrorIs(t, err, domain.ErrStaleWrite)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	for _, span := range spans {
		assert.Equal(t, codes.Error, span.Status().Code)
		assert.NotEmpty(t, span.Events(), "error event expected on %s", span.Name())
	}
}
