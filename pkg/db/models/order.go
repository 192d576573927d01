package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chopnowhq/chopnow-backend/pkg/enums"
)

// Order is created once by order assembly in status pending and mutated only
// by the payment reconciler (status, payment_reference). DeliveryZoneID is
// set if and only if the order type is delivery.
type Order struct {
	ID                  uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID              uuid.UUID         `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	BranchID            uuid.UUID         `gorm:"column:branch_id;type:uuid;not null" json:"branch_id"`
	OrderType           enums.OrderType   `gorm:"column:order_type;type:text;not null" json:"order_type"`
	DeliveryZoneID      *uuid.UUID        `gorm:"column:delivery_zone_id;type:uuid" json:"delivery_zone_id,omitempty"`
	Status              enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	TotalAmount         decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	DeliveryFee         *decimal.Decimal  `gorm:"column:delivery_fee;type:numeric(12,2)" json:"delivery_fee,omitempty"`
	SpecialInstructions *string           `gorm:"column:special_instructions" json:"special_instructions,omitempty"`
	PaymentReference    *string           `gorm:"column:payment_reference" json:"payment_reference,omitempty"`
	Items               []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Branch              *Branch           `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	User                *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// BeforeCreate assigns an id when the dialect has no uuid default.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
