package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is a purchasable dish. Availability may be toggled externally;
// order assembly re-reads the row so prices and availability are never
// trusted from the client.
type MenuItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null" json:"category_id"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Description *string         `gorm:"column:description" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	ImageURL    *string         `gorm:"column:image_url" json:"image_url,omitempty"`
	IsAvailable bool            `gorm:"column:is_available;not null;default:true" json:"is_available"`
	IsPopular   bool            `gorm:"column:is_popular;not null;default:false" json:"is_popular"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (MenuItem) TableName() string { return "menu_items" }
