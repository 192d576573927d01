package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chopnowhq/chopnow-backend/pkg/enums"
)

// Reservation books a dine-in table. Date and time are stored as the
// branch-local wall-clock values submitted by the client.
type Reservation struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID               `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	BranchID        uuid.UUID               `gorm:"column:branch_id;type:uuid;not null" json:"branch_id"`
	ReservationDate string                  `gorm:"column:reservation_date;type:date;not null" json:"reservation_date"`
	ReservationTime string                  `gorm:"column:reservation_time;not null" json:"reservation_time"`
	NumberOfGuests  int                     `gorm:"column:number_of_guests;not null" json:"number_of_guests"`
	Status          enums.ReservationStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	SpecialRequests *string                 `gorm:"column:special_requests" json:"special_requests,omitempty"`
	Branch          *Branch                 `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Reservation) TableName() string { return "reservations" }

// BeforeCreate assigns an id when the dialect has no uuid default.
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
