package directory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
)

// Repository exposes read access to branches and delivery zones. Both tables
// are seeded reference data; there are no write paths.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListBranches(ctx context.Context) ([]models.Branch, error) {
	var branches []models.Branch
	if err := r.db.WithContext(ctx).Order("name asc").Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

func (r *Repository) FindBranchByID(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// ListZones filters by branch ids and vehicle type when provided. No match
// yields an empty slice, never an error.
func (r *Repository) ListZones(ctx context.Context, branchIDs []uuid.UUID, vehicleType *enums.VehicleType) ([]models.DeliveryZone, error) {
	query := r.db.WithContext(ctx).Model(&models.DeliveryZone{})
	if len(branchIDs) > 0 {
		query = query.Where("branch_id IN ?", branchIDs)
	}
	if vehicleType != nil {
		query = query.Where("vehicle_type = ?", *vehicleType)
	}

	var zones []models.DeliveryZone
	if err := query.Order("location asc").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *Repository) FindZoneByID(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}
