package paystackwebhook

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
	"gorm.io/gorm"
)

type stubOrderStore struct {
	orders       map[uuid.UUID]*models.Order
	findErr      error
	applyErr     error
	applied      []appliedOutcome
	transitioned bool
}

type appliedOutcome struct {
	orderID   uuid.UUID
	status    enums.OrderStatus
	reference string
}

func (s *stubOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if order, ok := s.orders[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderStore) ApplyPaymentOutcome(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, reference string) (bool, error) {
	if s.applyErr != nil {
		return false, s.applyErr
	}
	s.applied = append(s.applied, appliedOutcome{orderID: orderID, status: status, reference: reference})
	return s.transitioned, nil
}

type stubNotifier struct {
	notifyOn enums.OrderStatus
	notified []uuid.UUID
	err      error
}

func (s *stubNotifier) ShouldNotify(status enums.OrderStatus) bool {
	return status == s.notifyOn
}

func (s *stubNotifier) OrderStatusChanged(ctx context.Context, order *models.Order) error {
	s.notified = append(s.notified, order.ID)
	return s.err
}

func chargeEvent(eventName string, orderID uuid.UUID) *Event {
	return &Event{
		Event: eventName,
		Data: EventData{
			Reference: "CHOP-" + orderID.String() + "-1700000000000-abcd1234",
			Metadata:  Metadata{OrderID: orderID.String()},
		},
	}
}

func TestHandleEventConfirmsOrder(t *testing.T) {
	orderID := uuid.New()
	store := &stubOrderStore{
		orders:       map[uuid.UUID]*models.Order{orderID: {ID: orderID, Status: enums.OrderStatusPending}},
		transitioned: true,
	}
	notifier := &stubNotifier{notifyOn: enums.OrderStatusConfirmed}
	svc, err := NewService(store, notifier, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	outcome, err := svc.HandleEvent(context.Background(), chargeEvent(EventChargeSuccess, orderID))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if outcome != OutcomeConfirmed {
		t.Fatalf("expected confirmed outcome, got %s", outcome)
	}
	if len(store.applied) != 1 {
		t.Fatalf("expected one update, got %d", len(store.applied))
	}
	if store.applied[0].status != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", store.applied[0].status)
	}
	if store.applied[0].reference == "" {
		t.Fatal("reference must be recorded")
	}
	if len(notifier.notified) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.notified))
	}
}

func TestHandleEventDuplicateIsNoOp(t *testing.T) {
	orderID := uuid.New()
	store := &stubOrderStore{
		orders:       map[uuid.UUID]*models.Order{orderID: {ID: orderID, Status: enums.OrderStatusConfirmed}},
		transitioned: false,
	}
	notifier := &stubNotifier{notifyOn: enums.OrderStatusConfirmed}
	svc, err := NewService(store, notifier, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	outcome, err := svc.HandleEvent(context.Background(), chargeEvent(EventChargeSuccess, orderID))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if outcome != OutcomeAlreadyFinal {
		t.Fatalf("expected already_final, got %s", outcome)
	}
	if len(notifier.notified) != 0 {
		t.Fatal("a redelivered event must not re-notify")
	}
}

func TestHandleEventChargeFailedCancels(t *testing.T) {
	orderID := uuid.New()
	store := &stubOrderStore{
		orders:       map[uuid.UUID]*models.Order{orderID: {ID: orderID, Status: enums.OrderStatusPending}},
		transitioned: true,
	}
	notifier := &stubNotifier{notifyOn: enums.OrderStatusConfirmed}
	svc, err := NewService(store, notifier, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	outcome, err := svc.HandleEvent(context.Background(), chargeEvent(EventChargeFailed, orderID))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if outcome != OutcomeCancelled {
		t.Fatalf("expected cancelled, got %s", outcome)
	}
	if store.applied[0].status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", store.applied[0].status)
	}
	if len(notifier.notified) != 0 {
		t.Fatal("cancellations must not notify under confirmed_only")
	}
}

func TestHandleEventIgnoresUnknownEvents(t *testing.T) {
	store := &stubOrderStore{}
	svc, err := NewService(store, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	outcome, err := svc.HandleEvent(context.Background(), &Event{Event: "transfer.success"})
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if outcome != OutcomeIgnoredEvent {
		t.Fatalf("expected ignored_event, got %s", outcome)
	}
	if len(store.applied) != 0 {
		t.Fatal("unknown events must not touch orders")
	}
}

func TestHandleEventMissingOrderID(t *testing.T) {
	store := &stubOrderStore{}
	svc, err := NewService(store, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	outcome, err := svc.HandleEvent(context.Background(), &Event{Event: EventChargeSuccess})
	if err != nil {
		t.Fatalf("missing metadata must ack, got %v", err)
	}
	if outcome != OutcomeNoOrderID {
		t.Fatalf("expected no_order_id, got %s", outcome)
	}
	if len(store.applied) != 0 {
		t.Fatal("no mutation without an order id")
	}
}

func TestHandleEventUnknownOrderAcks(t *testing.T) {
	store := &stubOrderStore{orders: map[uuid.UUID]*models.Order{}}
	svc, err := NewService(store, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	outcome, err := svc.HandleEvent(context.Background(), chargeEvent(EventChargeSuccess, uuid.New()))
	if err != nil {
		t.Fatalf("unknown order must ack, got %v", err)
	}
	if outcome != OutcomeUnknownOrder {
		t.Fatalf("expected unknown_order, got %s", outcome)
	}
}

func TestHandleEventDatabaseErrorPropagates(t *testing.T) {
	store := &stubOrderStore{findErr: errors.New("connection reset")}
	svc, err := NewService(store, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.HandleEvent(context.Background(), chargeEvent(EventChargeSuccess, uuid.New()))
	if err == nil {
		t.Fatal("database failures must propagate so the provider retries")
	}
}
