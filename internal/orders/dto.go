package orders

import (
	"github.com/google/uuid"

	"github.com/chopnowhq/chopnow-backend/pkg/enums"
)

// CreateOrderItemInput is one requested line. Unit prices are never accepted
// from the client; they are snapshotted from the catalog at creation time.
type CreateOrderItemInput struct {
	MenuItemID uuid.UUID `json:"menu_item_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required"`
	Notes      *string   `json:"notes,omitempty"`
}

// CreateOrderInput holds the payload to assemble a new order.
type CreateOrderInput struct {
	BranchID            uuid.UUID              `json:"branch_id" validate:"required"`
	OrderType           enums.OrderType        `json:"order_type" validate:"required"`
	DeliveryZoneID      *uuid.UUID             `json:"delivery_zone_id,omitempty"`
	SpecialInstructions *string                `json:"special_instructions,omitempty"`
	Items               []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// ListFilter narrows the order history listing.
type ListFilter struct {
	Status *enums.OrderStatus
	Limit  int
	Offset int
}
