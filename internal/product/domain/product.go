package domain

import (
	"context"
	"time"
)

// Product represents the product entity
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null;default:0"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	Version     uint      `json:"version" gorm:"not null;default:1"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	// Replace overwrites every mutable column of product.ID when the stored
	// version equals expectedVersion. It returns ErrStaleWrite when no row matched.
	Replace(ctx context.Context, product *Product, expectedVersion uint) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
}
