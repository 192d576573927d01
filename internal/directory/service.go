package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
	pkgerrors "github.com/chopnowhq/chopnow-backend/pkg/errors"
)

// Service exposes branch and delivery zone lookups for the storefront.
type Service interface {
	ListBranches(ctx context.Context) ([]models.Branch, error)
	GetBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error)
	ListZones(ctx context.Context, branchIDs []uuid.UUID, vehicleType *enums.VehicleType) ([]models.DeliveryZone, error)
	GetZone(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a directory service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("directory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListBranches(ctx context.Context) ([]models.Branch, error) {
	branches, err := s.repo.ListBranches(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list branches")
	}
	return branches, nil
}

func (s *service) GetBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	branch, err := s.repo.FindBranchByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "branch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load branch")
	}
	return branch, nil
}

func (s *service) ListZones(ctx context.Context, branchIDs []uuid.UUID, vehicleType *enums.VehicleType) ([]models.DeliveryZone, error) {
	zones, err := s.repo.ListZones(ctx, branchIDs, vehicleType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list delivery zones")
	}
	if zones == nil {
		zones = []models.DeliveryZone{}
	}
	return zones, nil
}

func (s *service) GetZone(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error) {
	zone, err := s.repo.FindZoneByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery zone not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load delivery zone")
	}
	return zone, nil
}
