// internal/repository/postgres.go
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/solar-catalog/internal/catalog"
	"github.com/javajoker/solar-catalog/internal/models"
)

// PostgresSource loads the active products from the products table.
type PostgresSource struct {
	db *gorm.DB
}

func NewPostgresSource(db *gorm.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) LoadProducts(ctx context.Context) ([]catalog.Product, error) {
	var rows []models.Product
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ProductStatusActive).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return models.ToCatalogList(rows), nil
}
