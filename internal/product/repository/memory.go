package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/tair/product-crud/internal/product/domain"
	"github.com/tair/product-crud/pkg/database"
)

// MemoryProductRepository implements domain.ProductRepository with in-memory storage
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[uint]domain.Product
	nextID   uint
}

// NewMemoryProductRepository creates an empty in-memory product repository
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]domain.Product),
		nextID:   1,
	}
}

func (r *MemoryProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := database.Now()
	product.ID = r.nextID
	product.Version = 1
	product.CreatedAt = now
	product.UpdatedAt = now
	r.nextID++

	r.products[product.ID] = *product
	return nil
}

func (r *MemoryProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &product, nil
}

func (r *MemoryProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (r *MemoryProductRepository) Replace(ctx context.Context, product *domain.Product, expectedVersion uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok || stored.Version != expectedVersion {
		return domain.ErrStaleWrite
	}

	replaced := *product
	replaced.CreatedAt = stored.CreatedAt
	replaced.UpdatedAt = database.Now()
	replaced.Version = expectedVersion + 1
	r.products[product.ID] = replaced

	product.CreatedAt = replaced.CreatedAt
	product.UpdatedAt = replaced.UpdatedAt
	product.Version = replaced.Version
	return nil
}

func (r *MemoryProductRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *MemoryProductRepository) Exists(ctx context.Context, id uint) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}

func (r *MemoryProductRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.products)), nil
}
