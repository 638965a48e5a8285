package query

import (
	"context"
	"fmt"

	"github.com/tair/product-crud/internal/product/domain"
)

// ListProductsQuery represents the query to list every product
type ListProductsQuery struct{}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, _ ListProductsQuery) ([]domain.Product, error) {
	products, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}
