package fees

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chopnowhq/chopnow-backend/pkg/clock"
	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
	pkgerrors "github.com/chopnowhq/chopnow-backend/pkg/errors"
)

type zoneLoader interface {
	GetZone(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error)
}

// Quote is the delivery fee response for one zone.
type Quote struct {
	ZoneID      uuid.UUID         `json:"zone_id"`
	Location    string            `json:"location"`
	VehicleType enums.VehicleType `json:"vehicle_type"`
	Breakdown
}

// Service resolves a zone and quotes its current delivery fee.
type Service interface {
	QuoteZone(ctx context.Context, zoneID uuid.UUID, vehicleType *enums.VehicleType) (*Quote, error)
}

type service struct {
	zones      zoneLoader
	calculator *Calculator
	clock      clock.Clock
}

// NewService constructs a fee quoting service.
func NewService(zones zoneLoader, calculator *Calculator, clk clock.Clock) (Service, error) {
	if zones == nil {
		return nil, fmt.Errorf("zone loader required")
	}
	if calculator == nil {
		return nil, fmt.Errorf("calculator required")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &service{zones: zones, calculator: calculator, clock: clk}, nil
}

func (s *service) QuoteZone(ctx context.Context, zoneID uuid.UUID, vehicleType *enums.VehicleType) (*Quote, error) {
	zone, err := s.zones.GetZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}

	// The quote is keyed on the (zone, vehicle type) pair; a valid vehicle
	// type that doesn't match the zone row means no such zone exists.
	if vehicleType != nil && *vehicleType != zone.VehicleType {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery zone not found")
	}

	breakdown := s.calculator.Compute(zone, s.clock.Now())
	return &Quote{
		ZoneID:      zone.ID,
		Location:    zone.Location,
		VehicleType: zone.VehicleType,
		Breakdown:   breakdown,
	}, nil
}
