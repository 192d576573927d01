package menu

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
)

// PerPage is the fixed storefront page size.
const PerPage = 24

// ItemFilter narrows the menu listing.
type ItemFilter struct {
	CategoryID *uuid.UUID
	Popular    *bool
	Search     string
	Page       int
}

// Repository exposes catalog reads for the storefront menu.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListItems returns one page of available items plus the filtered total.
func (r *Repository) ListItems(ctx context.Context, filter ItemFilter) ([]models.MenuItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MenuItem{}).Where("is_available = ?", true)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Popular != nil {
		query = query.Where("is_popular = ?", *filter.Popular)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}

	var items []models.MenuItem
	err := query.
		Preload("Category").
		Order("name asc").
		Limit(PerPage).
		Offset((page - 1) * PerPage).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
