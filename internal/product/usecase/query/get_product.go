package query

import (
	"context"
	"fmt"

	"github.com/tair/product-crud/internal/product/domain"
)

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID uint
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo domain.ProductRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.ProductRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*domain.Product, error) {
	if query.ID == 0 {
		return nil, domain.ErrInvalidProductID
	}

	product, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", query.ID, err)
	}

	return product, nil
}
