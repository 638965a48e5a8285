package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/product-crud/internal/product/domain"
	"github.com/tair/product-crud/pkg/database"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{})
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	now := database.Now()
	product.Version = 1
	product.CreatedAt = now
	product.UpdatedAt = now
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	utcTimes(&product)
	return &product, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	err := r.db.WithContext(ctx).Order("id").Find(&products).Error
	for i := range products {
		utcTimes(&products[i])
	}
	return products, err
}

// Replace writes all mutable columns in one conditional UPDATE. Zero values
// are written too, so the stored row ends up equal to the payload.
func (r *GormProductRepository) Replace(ctx context.Context, product *domain.Product, expectedVersion uint) error {
	now := database.Now()
	result := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND version = ?", product.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"category":    product.Category,
			"stock":       product.Stock,
			"version":     expectedVersion + 1,
			"updated_at":  now,
		})
	if result.Error != nil {
		return fmt.Errorf("replace product %d: %w", product.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrStaleWrite
	}

	product.Version = expectedVersion + 1
	product.UpdatedAt = now
	return nil
}

// utcTimes drops the session zone the driver attaches to scanned timestamps
func utcTimes(p *domain.Product) {
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
}

func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error
	return count, err
}
