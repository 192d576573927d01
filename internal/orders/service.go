package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chopnowhq/chopnow-backend/internal/fees"
	"github.com/chopnowhq/chopnow-backend/pkg/clock"
	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
	pkgerrors "github.com/chopnowhq/chopnow-backend/pkg/errors"
	"github.com/chopnowhq/chopnow-backend/pkg/metrics"
)

// Service exposes order assembly and history for the authenticated customer.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]models.Order, int64, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type branchLoader interface {
	GetBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error)
	GetZone(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error)
}

type service struct {
	repo       *Repository
	tx         txRunner
	directory  branchLoader
	calculator *fees.Calculator
	clock      clock.Clock
	metrics    *metrics.APIMetrics
}

// NewService constructs an order service instance.
func NewService(repo *Repository, tx txRunner, directory branchLoader, calculator *fees.Calculator, clk clock.Clock, apiMetrics *metrics.APIMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if directory == nil {
		return nil, fmt.Errorf("directory loader required")
	}
	if calculator == nil {
		return nil, fmt.Errorf("fee calculator required")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &service{
		repo:       repo,
		tx:         tx,
		directory:  directory,
		calculator: calculator,
		clock:      clk,
		metrics:    apiMetrics,
	}, nil
}

// Create validates the request, snapshots catalog prices, and writes the
// order and its items atomically. The order starts in pending; nothing else
// happens until payment reconciliation.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*models.Order, error) {
	if err := s.validateShape(userID, input); err != nil {
		return nil, err
	}

	if _, err := s.directory.GetBranch(ctx, input.BranchID); err != nil {
		return nil, err
	}

	var (
		deliveryFee *decimal.Decimal
		zoneID      *uuid.UUID
	)
	if input.OrderType == enums.OrderTypeDelivery {
		zone, err := s.directory.GetZone(ctx, *input.DeliveryZoneID)
		if err != nil {
			return nil, err
		}
		if zone.BranchID != input.BranchID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery zone does not belong to the selected branch")
		}
		breakdown := s.calculator.Compute(zone, s.clock.Now())
		deliveryFee = &breakdown.TotalFee
		zoneID = &zone.ID
	}

	items, itemsTotal, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	total := itemsTotal
	if deliveryFee != nil {
		total = total.Add(*deliveryFee)
	}

	order := &models.Order{
		UserID:              userID,
		BranchID:            input.BranchID,
		OrderType:           input.OrderType,
		DeliveryZoneID:      zoneID,
		Status:              enums.OrderStatusPending,
		TotalAmount:         total,
		DeliveryFee:         deliveryFee,
		SpecialInstructions: input.SpecialInstructions,
		Items:               items,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
	}

	if s.metrics != nil {
		s.metrics.IncOrderCreated(order.OrderType.String())
	}
	return order, nil
}

// validateShape is the first rung of the ladder: structural problems are
// reported before any database read.
func (s *service) validateShape(userID uuid.UUID, input CreateOrderInput) error {
	missing := []string{}
	if userID == uuid.Nil {
		missing = append(missing, "user_id")
	}
	if input.BranchID == uuid.Nil {
		missing = append(missing, "branch_id")
	}
	if input.OrderType == "" {
		missing = append(missing, "order_type")
	}
	if len(input.Items) == 0 {
		missing = append(missing, "items")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").WithDetails(map[string]any{"fields": missing})
	}

	if !input.OrderType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order type").WithDetails(map[string]any{
			"order_type": string(input.OrderType),
		})
	}

	if input.OrderType == enums.OrderTypeDelivery && input.DeliveryZoneID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery orders require a delivery zone")
	}

	return nil
}

// buildItems loads the catalog rows and snapshots prices, failing on the
// first unknown, unavailable, or zero-quantity line.
func (s *service) buildItems(ctx context.Context, inputs []CreateOrderItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, line := range inputs {
		ids = append(ids, line.MenuItemID)
	}

	catalog, err := s.repo.MenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load menu items")
	}

	items := make([]models.OrderItem, 0, len(inputs))
	total := decimal.Zero
	for _, line := range inputs {
		menuItem, ok := catalog[line.MenuItemID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "unknown menu item").WithDetails(map[string]any{
				"menu_item_id": line.MenuItemID.String(),
			})
		}
		if !menuItem.IsAvailable {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "menu item is unavailable").WithDetails(map[string]any{
				"menu_item_id": menuItem.ID.String(),
				"name":         menuItem.Name,
			})
		}
		if line.Quantity < 1 {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").WithDetails(map[string]any{
				"menu_item_id": menuItem.ID.String(),
			})
		}

		subtotal := menuItem.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Quantity:   line.Quantity,
			UnitPrice:  menuItem.Price,
			Subtotal:   subtotal,
			Notes:      line.Notes,
		})
		total = total.Add(subtotal)
	}
	return items, total, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]models.Order, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user")
	}
	orders, total, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, total, nil
}

// Get loads one order and enforces ownership; another user's order is
// indistinguishable from a missing one.
func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}
