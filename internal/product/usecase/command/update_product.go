package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/product-crud/internal/product/domain"
)

// UpdateProductCommand represents the command to replace a product.
// Version is the version the caller last read; zero means "whatever is stored now".
type UpdateProductCommand struct {
	PathID      uint
	ID          uint
	Name        string
	Description string
	Price       float64
	Category    string
	Stock       int
	Version     uint
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.PathID != cmd.ID {
		return nil, domain.ErrProductIDMismatch
	}
	if cmd.ID == 0 {
		return nil, domain.ErrInvalidProductID
	}

	expected := cmd.Version
	if expected == 0 {
		current, err := h.repo.FindByID(ctx, cmd.ID)
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, domain.ErrProductNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load product %d: %w", cmd.ID, err)
		}
		expected = current.Version
	}

	product := &domain.Product{
		ID:          cmd.ID,
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Category:    cmd.Category,
		Stock:       cmd.Stock,
	}

	err := h.repo.Replace(ctx, product, expected)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, domain.ErrStaleWrite) {
		return nil, fmt.Errorf("failed to update product %d: %w", cmd.ID, err)
	}

	// The conditional write matched nothing: the row is gone or moved on.
	exists, exErr := h.repo.Exists(ctx, cmd.ID)
	if exErr != nil {
		return nil, fmt.Errorf("failed to re-check product %d: %w", cmd.ID, exErr)
	}
	if !exists {
		return nil, domain.ErrProductNotFound
	}
	return nil, fmt.Errorf("%w: id %d, expected version %d", domain.ErrProductConflict, cmd.ID, expected)
}
