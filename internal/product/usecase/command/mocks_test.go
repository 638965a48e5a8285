package command

import (
	"context"

	"github.com/tair/product-crud/internal/product/domain"
	"github.com/tair/product-crud/internal/product/repository"
)

// stubRepository delegates to the memory repository unless an error is injected
type stubRepository struct {
	*repository.MemoryProductRepository

	createErr  error
	findErr    error
	replaceErr error
	deleteErr  error
	existsErr  error

	calls int
}

func newStubRepository() *stubRepository {
	return &stubRepository{MemoryProductRepository: repository.NewMemoryProductRepository()}
}

func (s *stubRepository) Create(ctx context.Context, p *domain.Product) error {
	s.calls++
	if s.createErr != nil {
		return s.createErr
	}
	return s.MemoryProductRepository.Create(ctx, p)
}

func (s *stubRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	s.calls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.MemoryProductRepository.FindByID(ctx, id)
}

func (s *stubRepository) Replace(ctx context.Context, p *domain.Product, expected uint) error {
	s.calls++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	return s.MemoryProductRepository.Replace(ctx, p, expected)
}

func (s *stubRepository) Delete(ctx context.Context, id uint) error {
	s.calls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.MemoryProductRepository.Delete(ctx, id)
}

func (s *stubRepository) Exists(ctx context.Context, id uint) (bool, error) {
	s.calls++
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.MemoryProductRepository.Exists(ctx, id)
}
