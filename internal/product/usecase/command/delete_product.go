package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/product-crud/internal/product/domain"
)

// DeleteProductCommand represents the command to delete a product
type DeleteProductCommand struct {
	ID uint
}

// DeleteProductHandler handles product deletion command
type DeleteProductHandler struct {
	repo domain.ProductRepository
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.ProductRepository) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo}
}

// Handle executes the delete product command
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	if cmd.ID == 0 {
		return domain.ErrInvalidProductID
	}

	// Check if product exists
	if _, err := h.repo.FindByID(ctx, cmd.ID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("failed to load product %d: %w", cmd.ID, err)
	}

	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product %d: %w", cmd.ID, err)
	}

	return nil
}
