package paystackwebhook

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chopnowhq/chopnow-backend/internal/notifications"
	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
	pkgerrors "github.com/chopnowhq/chopnow-backend/pkg/errors"
	"github.com/chopnowhq/chopnow-backend/pkg/logger"
)

// Outcome labels what a delivery did, for metrics and logs.
type Outcome string

const (
	OutcomeConfirmed     Outcome = "confirmed"
	OutcomeCancelled     Outcome = "cancelled"
	OutcomeAlreadyFinal  Outcome = "already_final"
	OutcomeIgnoredEvent  Outcome = "ignored_event"
	OutcomeNoOrderID     Outcome = "no_order_id"
	OutcomeUnknownOrder  Outcome = "unknown_order"
)

type orderStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ApplyPaymentOutcome(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, reference string) (bool, error)
}

// Service reconciles charge events against order rows.
type Service struct {
	orders   orderStore
	notifier notifications.Service
	logg     *logger.Logger
}

func NewService(orders orderStore, notifier notifications.Service, logg *logger.Logger) (*Service, error) {
	if orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order store required")
	}
	return &Service{orders: orders, notifier: notifier, logg: logg}, nil
}

// HandleEvent applies one verified delivery. Malformed-but-verified payloads
// acknowledge with a no-op outcome rather than an error: the provider will
// not produce a better payload by retrying. Errors are returned only when a
// retry could succeed (database trouble).
func (s *Service) HandleEvent(ctx context.Context, event *Event) (Outcome, error) {
	if event == nil {
		return OutcomeIgnoredEvent, pkgerrors.New(pkgerrors.CodeValidation, "event required")
	}

	var status enums.OrderStatus
	switch event.Event {
	case EventChargeSuccess:
		status = enums.OrderStatusConfirmed
	case EventChargeFailed:
		status = enums.OrderStatusCancelled
	default:
		return OutcomeIgnoredEvent, nil
	}

	rawOrderID := event.Data.Metadata.OrderID
	if rawOrderID == "" {
		if s.logg != nil {
			s.logg.Warn(ctx, "payment webhook without order id metadata")
		}
		return OutcomeNoOrderID, nil
	}

	orderID, err := uuid.Parse(rawOrderID)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "payment webhook with malformed order id: "+rawOrderID)
		}
		return OutcomeNoOrderID, nil
	}

	ctx = s.withOrderID(ctx, orderID)

	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.logg != nil {
				s.logg.Warn(ctx, "payment webhook references unknown order")
			}
			return OutcomeUnknownOrder, nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	transitioned, err := s.orders.ApplyPaymentOutcome(ctx, orderID, status, event.Data.Reference)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply payment outcome")
	}
	if !transitioned {
		return OutcomeAlreadyFinal, nil
	}

	s.maybeNotify(ctx, orderID, status)

	if status == enums.OrderStatusConfirmed {
		return OutcomeConfirmed, nil
	}
	return OutcomeCancelled, nil
}

// maybeNotify fires the status emails. Send failures never bubble up; the
// order state is already committed and the provider must still get its ack.
func (s *Service) maybeNotify(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) {
	if s.notifier == nil || !s.notifier.ShouldNotify(status) {
		return
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "webhook.notify_load_failed", err)
		}
		return
	}

	if err := s.notifier.OrderStatusChanged(ctx, order); err != nil && s.logg != nil {
		s.logg.Error(ctx, "webhook.notify_failed", err)
	}
}

func (s *Service) withOrderID(ctx context.Context, orderID uuid.UUID) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithOrderID(ctx, orderID.String())
}
