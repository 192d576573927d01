package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chopnowhq/chopnow-backend/pkg/enums"
)

// DeliveryZone carries the day/night fee rates for one delivery area. Exactly
// one row exists per (branch, location, vehicle type) combination.
type DeliveryZone struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BranchID    uuid.UUID         `gorm:"column:branch_id;type:uuid;not null" json:"branch_id"`
	Location    string            `gorm:"column:location;not null" json:"location"`
	VehicleType enums.VehicleType `gorm:"column:vehicle_type;type:text;not null" json:"vehicle_type"`
	DaytimeFee  decimal.Decimal   `gorm:"column:daytime_fee;type:numeric(12,2);not null" json:"daytime_fee"`
	NightFee    decimal.Decimal   `gorm:"column:night_fee;type:numeric(12,2);not null" json:"night_fee"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (DeliveryZone) TableName() string { return "delivery_zones" }
