package notifications

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/chopnowhq/chopnow-backend/pkg/config"
	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
	"github.com/chopnowhq/chopnow-backend/pkg/logger"
	"github.com/chopnowhq/chopnow-backend/pkg/mail"
	"github.com/chopnowhq/chopnow-backend/pkg/metrics"
)

// Service dispatches order status emails to the customer and the branch.
type Service interface {
	// ShouldNotify reports whether the configured policy wants an email for
	// the given status.
	ShouldNotify(status enums.OrderStatus) bool
	// OrderStatusChanged sends both emails. The returned error aggregates
	// per-send failures for logging; callers must not fail their own work on
	// it.
	OrderStatusChanged(ctx context.Context, order *models.Order) error
}

type service struct {
	sender    mail.Sender
	mailboxes map[string]config.Mailbox
	policy    enums.NotificationPolicy
	logg      *logger.Logger
	metrics   *metrics.APIMetrics
}

// NewService constructs the dispatcher. The mailbox map comes from config and
// was validated at startup.
func NewService(sender mail.Sender, mailCfg config.Mail, notifyCfg config.Notifications, logg *logger.Logger, apiMetrics *metrics.APIMetrics) (Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	policy, err := enums.ParseNotificationPolicy(notifyCfg.Policy)
	if err != nil {
		return nil, fmt.Errorf("parsing notification policy: %w", err)
	}
	return &service{
		sender:    sender,
		mailboxes: mailCfg.Mailboxes(),
		policy:    policy,
		logg:      logg,
		metrics:   apiMetrics,
	}, nil
}

func (s *service) ShouldNotify(status enums.OrderStatus) bool {
	switch s.policy {
	case enums.NotificationPolicyEveryUpdate:
		return true
	default:
		return status == enums.OrderStatusConfirmed
	}
}

func (s *service) OrderStatusChanged(ctx context.Context, order *models.Order) error {
	box, ok := s.mailboxes[order.BranchID.String()]
	if !ok {
		s.countFailure(ctx, fmt.Errorf("no mailbox configured for branch %s", order.BranchID))
		return fmt.Errorf("no mailbox configured for branch %s", order.BranchID)
	}

	heading := "Order update"
	if order.Status == enums.OrderStatusConfirmed {
		heading = "Order confirmed"
	}

	html, err := renderOrderEmail(order, heading)
	if err != nil {
		s.countFailure(ctx, err)
		return fmt.Errorf("rendering order email: %w", err)
	}

	subject := fmt.Sprintf("%s: #%s", heading, shortID(order))

	// The two sends are independent: a bounced customer address must not
	// stop the branch from hearing about the order, and vice versa.
	var errs error
	if customer := customerEmail(order); customer != "" {
		if err := s.sender.Send(ctx, box, mail.Message{
			From:    box.Email,
			To:      customer,
			Subject: subject,
			HTML:    html,
		}); err != nil {
			s.countFailure(ctx, fmt.Errorf("customer send: %w", err))
			errs = multierr.Append(errs, fmt.Errorf("customer send: %w", err))
		}
	}

	if branch := branchEmail(order); branch != "" {
		if err := s.sender.Send(ctx, box, mail.Message{
			From:    box.Email,
			To:      branch,
			Subject: subject,
			HTML:    html,
		}); err != nil {
			s.countFailure(ctx, fmt.Errorf("branch send: %w", err))
			errs = multierr.Append(errs, fmt.Errorf("branch send: %w", err))
		}
	}

	return errs
}

func (s *service) countFailure(ctx context.Context, err error) {
	if s.logg != nil {
		s.logg.Error(ctx, "notification.send_failed", err)
	}
	if s.metrics != nil {
		s.metrics.IncEmailFailure()
	}
}

func customerEmail(order *models.Order) string {
	if order.User != nil {
		return order.User.Email
	}
	return ""
}

func branchEmail(order *models.Order) string {
	if order.Branch != nil {
		return order.Branch.Email
	}
	return ""
}

func shortID(order *models.Order) string {
	id := order.ID.String()
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
