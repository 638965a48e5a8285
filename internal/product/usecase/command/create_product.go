package command

import (
	"context"
	"fmt"

	"github.com/tair/product-crud/internal/product/domain"
)

// CreateProductCommand represents the command to create a product
type CreateProductCommand struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Stock       int
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle executes the create product command. Storage assigns the id.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	product := &domain.Product{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Category:    cmd.Category,
		Stock:       cmd.Stock,
	}

	if err := h.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}
