package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
)

func TestCreateOrderRollsBackWithItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	runner := &sqliteTxRunner{db: db}
	ctx := context.Background()

	sharedID := uuid.New()
	order := &models.Order{
		UserID:      uuid.New(),
		BranchID:    uuid.New(),
		OrderType:   enums.OrderTypePickUp,
		Status:      enums.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(5000),
		Items: []models.OrderItem{
			{ID: sharedID, MenuItemID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(2500), Subtotal: decimal.NewFromInt(2500)},
			{ID: sharedID, MenuItemID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(2500), Subtotal: decimal.NewFromInt(2500)},
		},
	}

	err := runner.WithTx(ctx, func(tx *gorm.DB) error {
		return repo.WithTx(tx).CreateOrder(ctx, order)
	})
	require.Error(t, err, "duplicate item ids must fail the insert")

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount, "failed creation must leave no order row")
	assert.Zero(t, itemCount, "failed creation must leave no item rows")
}

func TestApplyPaymentOutcome(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.Order{
		UserID:      uuid.New(),
		BranchID:    uuid.New(),
		OrderType:   enums.OrderTypePickUp,
		Status:      enums.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(2500),
	}
	require.NoError(t, db.Create(order).Error)

	transitioned, err := repo.ApplyPaymentOutcome(ctx, order.ID, enums.OrderStatusConfirmed, "CHOP-ref-1")
	require.NoError(t, err)
	assert.True(t, transitioned)

	var loaded models.Order
	require.NoError(t, db.First(&loaded, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusConfirmed, loaded.Status)
	require.NotNil(t, loaded.PaymentReference)
	assert.Equal(t, "CHOP-ref-1", *loaded.PaymentReference)

	// Redelivered event: the row is already confirmed, nothing transitions.
	transitioned, err = repo.ApplyPaymentOutcome(ctx, order.ID, enums.OrderStatusConfirmed, "CHOP-ref-1")
	require.NoError(t, err)
	assert.False(t, transitioned)
}

func TestApplyPaymentOutcomeKeepsTerminalStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.Order{
		UserID:      uuid.New(),
		BranchID:    uuid.New(),
		OrderType:   enums.OrderTypePickUp,
		Status:      enums.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(2500),
	}
	require.NoError(t, db.Create(order).Error)

	transitioned, err := repo.ApplyPaymentOutcome(ctx, order.ID, enums.OrderStatusConfirmed, "CHOP-ref-2")
	require.NoError(t, err)
	require.True(t, transitioned)

	// A charge.failed from an abandoned earlier attempt arrives late; the
	// paid order must stay confirmed.
	transitioned, err = repo.ApplyPaymentOutcome(ctx, order.ID, enums.OrderStatusCancelled, "CHOP-ref-1")
	require.NoError(t, err)
	assert.False(t, transitioned)

	var loaded models.Order
	require.NoError(t, db.First(&loaded, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusConfirmed, loaded.Status)
	require.NotNil(t, loaded.PaymentReference)
	assert.Equal(t, "CHOP-ref-2", *loaded.PaymentReference)

	// And the mirror image: a cancelled order never flips back to confirmed.
	cancelled := &models.Order{
		UserID:      uuid.New(),
		BranchID:    uuid.New(),
		OrderType:   enums.OrderTypePickUp,
		Status:      enums.OrderStatusCancelled,
		TotalAmount: decimal.NewFromInt(2500),
	}
	require.NoError(t, db.Create(cancelled).Error)

	transitioned, err = repo.ApplyPaymentOutcome(ctx, cancelled.ID, enums.OrderStatusConfirmed, "CHOP-ref-3")
	require.NoError(t, err)
	assert.False(t, transitioned)

	// Fresh struct: reusing loaded would AND its stale primary key into the query.
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", cancelled.ID).Error)
	assert.Equal(t, enums.OrderStatusCancelled, reloaded.Status)
}

func TestListByUserFiltersStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	for _, status := range []enums.OrderStatus{enums.OrderStatusPending, enums.OrderStatusConfirmed, enums.OrderStatusConfirmed} {
		order := &models.Order{
			UserID:      userID,
			BranchID:    uuid.New(),
			OrderType:   enums.OrderTypePickUp,
			Status:      status,
			TotalAmount: decimal.NewFromInt(1000),
		}
		require.NoError(t, db.Create(order).Error)
	}
	// Another user's order must never surface.
	require.NoError(t, db.Create(&models.Order{
		UserID:      uuid.New(),
		BranchID:    uuid.New(),
		OrderType:   enums.OrderTypePickUp,
		Status:      enums.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(1000),
	}).Error)

	confirmed := enums.OrderStatusConfirmed
	orders, total, err := repo.ListByUser(ctx, userID, ListFilter{Status: &confirmed})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, orders, 2)

	orders, total, err = repo.ListByUser(ctx, userID, ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, orders, 3)
}
