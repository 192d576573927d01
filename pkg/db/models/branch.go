package models

import (
	"time"

	"github.com/google/uuid"
)

// Branch is a physical restaurant location. Rows are seeded reference data;
// the API never mutates them.
type Branch struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Address     string    `gorm:"column:address;not null" json:"address"`
	Email       string    `gorm:"column:email" json:"email,omitempty"`
	Phone       *string   `gorm:"column:phone" json:"phone,omitempty"`
	OpeningTime string    `gorm:"column:opening_time;not null" json:"opening_time"`
	ClosingTime string    `gorm:"column:closing_time;not null" json:"closing_time"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Branch) TableName() string { return "branches" }
