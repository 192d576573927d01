package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chopnowhq/chopnow-backend/pkg/clock"
	"github.com/chopnowhq/chopnow-backend/pkg/config"
	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
	pkgerrors "github.com/chopnowhq/chopnow-backend/pkg/errors"
	"github.com/chopnowhq/chopnow-backend/pkg/paystack"
)

const referencePrefix = "CHOP"

// Initiation is returned to the client so it can redirect to the hosted
// checkout page.
type Initiation struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	AmountKobo       int64  `json:"amount_kobo"`
}

// Service opens payment sessions for pending orders.
type Service interface {
	Initiate(ctx context.Context, userID, orderID uuid.UUID) (*Initiation, error)
}

type orderLoader interface {
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
}

type gateway interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResponse, error)
}

type service struct {
	orders  orderLoader
	gateway gateway
	cfg     config.Paystack
	clock   clock.Clock
}

// NewService constructs a payment initiation service.
func NewService(orders orderLoader, gw gateway, cfg config.Paystack, clk clock.Clock) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order loader required")
	}
	if gw == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &service{orders: orders, gateway: gw, cfg: cfg, clock: clk}, nil
}

// Initiate mints a fresh reference and opens a hosted checkout session. The
// order row is never touched here: confirmation only happens through the
// webhook, and an abandoned attempt leaves nothing to clean up.
func (s *service) Initiate(ctx context.Context, userID, orderID uuid.UUID) (*Initiation, error) {
	order, err := s.orders.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is not awaiting payment").WithDetails(map[string]any{
			"status": order.Status.String(),
		})
	}

	email := ""
	if order.User != nil {
		email = strings.TrimSpace(order.User.Email)
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order has no customer email")
	}

	amountKobo := toKobo(order.TotalAmount)
	if amountKobo <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order total must be positive")
	}

	reference := s.newReference(orderID)

	resp, err := s.gateway.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:       email,
		AmountKobo:  amountKobo,
		Reference:   reference,
		CallbackURL: s.cfg.CallbackURL,
		Metadata: map[string]any{
			"order_id": orderID.String(),
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "initialize payment")
	}

	return &Initiation{
		Reference:        reference,
		AuthorizationURL: resp.AuthorizationURL,
		AccessCode:       resp.AccessCode,
		AmountKobo:       amountKobo,
	}, nil
}

// newReference builds a reference unique to this attempt, so a retried
// payment never collides with a dead session at the provider.
func (s *service) newReference(orderID uuid.UUID) string {
	nonce := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%s-%d-%s", referencePrefix, orderID, s.clock.Now().UnixMilli(), nonce)
}

// toKobo converts a naira amount to the minor unit, rounding to a whole
// number of kobo.
func toKobo(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
