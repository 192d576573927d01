package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chopnowhq/chopnow-backend/internal/fees"
	"github.com/chopnowhq/chopnow-backend/pkg/clock"
	"github.com/chopnowhq/chopnow-backend/pkg/config"
	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
	pkgerrors "github.com/chopnowhq/chopnow-backend/pkg/errors"
)

type stubDirectory struct {
	branches map[uuid.UUID]*models.Branch
	zones    map[uuid.UUID]*models.DeliveryZone
}

func (s *stubDirectory) GetBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	if branch, ok := s.branches[id]; ok {
		return branch, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "branch not found")
}

func (s *stubDirectory) GetZone(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error) {
	if zone, ok := s.zones[id]; ok {
		return zone, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery zone not found")
}

type serviceFixture struct {
	db            *gorm.DB
	service       Service
	branchID      uuid.UUID
	zoneID        uuid.UUID
	foreignZoneID uuid.UUID
	itemID        uuid.UUID
	soldOutID     uuid.UUID
}

func setupService(t *testing.T, at time.Time) *serviceFixture {
	t.Helper()

	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	branchID := uuid.New()
	zoneID := uuid.New()
	foreignZoneID := uuid.New()
	directory := &stubDirectory{
		branches: map[uuid.UUID]*models.Branch{
			branchID: {ID: branchID, Name: "Ikeja"},
		},
		zones: map[uuid.UUID]*models.DeliveryZone{
			zoneID: {
				ID:          zoneID,
				BranchID:    branchID,
				Location:    "Allen Avenue",
				VehicleType: enums.VehicleTypeMotorbike,
				DaytimeFee:  decimal.NewFromInt(500),
				NightFee:    decimal.NewFromInt(800),
			},
			foreignZoneID: {
				ID:          foreignZoneID,
				BranchID:    uuid.New(),
				Location:    "Yaba",
				VehicleType: enums.VehicleTypeBicycle,
				DaytimeFee:  decimal.NewFromInt(300),
				NightFee:    decimal.NewFromInt(450),
			},
		},
	}

	itemID := uuid.New()
	soldOutID := uuid.New()
	seedItems := []models.MenuItem{
		{ID: itemID, CategoryID: uuid.New(), Name: "Jollof Rice", Price: decimal.NewFromInt(2500), IsAvailable: true},
		{ID: soldOutID, CategoryID: uuid.New(), Name: "Suya Platter", Price: decimal.NewFromInt(4000), IsAvailable: false},
	}
	for i := range seedItems {
		// The default:true tag makes GORM substitute true for a zero-valued
		// IsAvailable on insert (and write it back to the struct); capture the
		// intended value and force it explicitly after the insert.
		available := seedItems[i].IsAvailable
		if err := db.Create(&seedItems[i]).Error; err != nil {
			t.Fatalf("seeding menu item: %v", err)
		}
		if err := db.Model(&models.MenuItem{}).Where("id = ?", seedItems[i].ID).
			Update("is_available", available).Error; err != nil {
			t.Fatalf("setting menu item availability: %v", err)
		}
	}

	calc, err := fees.NewCalculator(config.Delivery{SundaySurcharge: "100", NightStartHour: 18, NightEndHour: 6})
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}

	svc, err := NewService(repo, &sqliteTxRunner{db: db}, directory, calc, clock.At(at), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	return &serviceFixture{
		db:            db,
		service:       svc,
		branchID:      branchID,
		zoneID:        zoneID,
		foreignZoneID: foreignZoneID,
		itemID:        itemID,
		soldOutID:     soldOutID,
	}
}

func mondayAfternoon() time.Time {
	return time.Date(2026, time.March, 2, 14, 0, 0, 0, time.UTC)
}

func TestCreatePickUpOrder(t *testing.T) {
	fx := setupService(t, mondayAfternoon())
	userID := uuid.New()

	order, err := fx.service.Create(context.Background(), userID, CreateOrderInput{
		BranchID:  fx.branchID,
		OrderType: enums.OrderTypePickUp,
		Items: []CreateOrderItemInput{
			{MenuItemID: fx.itemID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending, got %s", order.Status)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected total 5000, got %s", order.TotalAmount)
	}
	if order.DeliveryFee != nil {
		t.Fatal("pick-up orders must not carry a delivery fee")
	}
	if len(order.Items) != 1 || !order.Items[0].UnitPrice.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("unit price not snapshotted: %+v", order.Items)
	}

	var count int64
	if err := fx.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one persisted order, got %d", count)
	}
}

func TestCreateDeliveryOrderAddsFee(t *testing.T) {
	fx := setupService(t, mondayAfternoon())

	order, err := fx.service.Create(context.Background(), uuid.New(), CreateOrderInput{
		BranchID:       fx.branchID,
		OrderType:      enums.OrderTypeDelivery,
		DeliveryZoneID: &fx.zoneID,
		Items: []CreateOrderItemInput{
			{MenuItemID: fx.itemID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if order.DeliveryFee == nil || !order.DeliveryFee.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected delivery fee 500, got %v", order.DeliveryFee)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected total 3000, got %s", order.TotalAmount)
	}
	if order.DeliveryZoneID == nil || *order.DeliveryZoneID != fx.zoneID {
		t.Fatalf("zone not recorded: %v", order.DeliveryZoneID)
	}
}

func TestCreateValidationLadder(t *testing.T) {
	fx := setupService(t, mondayAfternoon())
	ctx := context.Background()
	userID := uuid.New()

	cases := []struct {
		name    string
		input   CreateOrderInput
		code    pkgerrors.Code
		message string
	}{
		{
			name:    "missing everything",
			input:   CreateOrderInput{},
			code:    pkgerrors.CodeValidation,
			message: "missing required fields",
		},
		{
			name: "invalid order type",
			input: CreateOrderInput{
				BranchID:  fx.branchID,
				OrderType: enums.OrderType("drone"),
				Items:     []CreateOrderItemInput{{MenuItemID: fx.itemID, Quantity: 1}},
			},
			code:    pkgerrors.CodeValidation,
			message: "invalid order type",
		},
		{
			name: "delivery without zone",
			input: CreateOrderInput{
				BranchID:  fx.branchID,
				OrderType: enums.OrderTypeDelivery,
				Items:     []CreateOrderItemInput{{MenuItemID: fx.itemID, Quantity: 1}},
			},
			code:    pkgerrors.CodeValidation,
			message: "delivery orders require a delivery zone",
		},
		{
			name: "unknown menu item",
			input: CreateOrderInput{
				BranchID:  fx.branchID,
				OrderType: enums.OrderTypePickUp,
				Items:     []CreateOrderItemInput{{MenuItemID: uuid.New(), Quantity: 1}},
			},
			code:    pkgerrors.CodeValidation,
			message: "unknown menu item",
		},
		{
			name: "unavailable menu item",
			input: CreateOrderInput{
				BranchID:  fx.branchID,
				OrderType: enums.OrderTypePickUp,
				Items:     []CreateOrderItemInput{{MenuItemID: fx.soldOutID, Quantity: 1}},
			},
			code:    pkgerrors.CodeValidation,
			message: "menu item is unavailable",
		},
		{
			name: "zero quantity",
			input: CreateOrderInput{
				BranchID:  fx.branchID,
				OrderType: enums.OrderTypePickUp,
				Items:     []CreateOrderItemInput{{MenuItemID: fx.itemID, Quantity: 0}},
			},
			code:    pkgerrors.CodeValidation,
			message: "quantity must be at least 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.service.Create(ctx, userID, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil {
				t.Fatalf("expected typed error, got %v", err)
			}
			if typed.Code() != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, typed.Code())
			}
			if typed.Message() != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, typed.Message())
			}
		})
	}

	// None of the rejected requests may leave rows behind.
	var count int64
	if err := fx.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero orders, got %d", count)
	}
}

func TestCreateZoneBranchMismatch(t *testing.T) {
	fx := setupService(t, mondayAfternoon())

	_, err := fx.service.Create(context.Background(), uuid.New(), CreateOrderInput{
		BranchID:       fx.branchID,
		OrderType:      enums.OrderTypeDelivery,
		DeliveryZoneID: &fx.foreignZoneID,
		Items:          []CreateOrderItemInput{{MenuItemID: fx.itemID, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for foreign zone, got %v", err)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	fx := setupService(t, mondayAfternoon())
	ctx := context.Background()
	owner := uuid.New()

	order, err := fx.service.Create(ctx, owner, CreateOrderInput{
		BranchID:  fx.branchID,
		OrderType: enums.OrderTypePickUp,
		Items:     []CreateOrderItemInput{{MenuItemID: fx.itemID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := fx.service.Get(ctx, owner, order.ID); err != nil {
		t.Fatalf("owner must see the order: %v", err)
	}

	_, err = fx.service.Get(ctx, uuid.New(), order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("foreign order must look missing, got %v", err)
	}
}
