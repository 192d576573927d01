package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/chopnowhq/chopnow-backend/api/responses"
	paystackwebhook "github.com/chopnowhq/chopnow-backend/internal/webhooks/paystack"
	pkgerrors "github.com/chopnowhq/chopnow-backend/pkg/errors"
	"github.com/chopnowhq/chopnow-backend/pkg/logger"
	"github.com/chopnowhq/chopnow-backend/pkg/metrics"
	"github.com/chopnowhq/chopnow-backend/pkg/paystack"
)

const signatureHeader = "x-paystack-signature"

// PaystackWebhookService applies one verified delivery.
type PaystackWebhookService interface {
	HandleEvent(ctx context.Context, event *paystackwebhook.Event) (paystackwebhook.Outcome, error)
}

type paystackWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type secretProvider interface {
	SecretKey() string
}

// ackBody is the exact payload the provider expects back.
var ackBody = map[string]bool{"received": true}

// PaystackWebhook verifies, dedupes, and dispatches charge events. The
// signature check runs against the raw body before any parsing; a mismatch
// produces 401 and no side effects whatsoever.
func PaystackWebhook(svc PaystackWebhookService, secrets secretProvider, guard paystackWebhookGuard, apiMetrics *metrics.APIMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil || secrets == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		if !paystack.VerifySignature(secrets.SecretKey(), payload, r.Header.Get(signatureHeader)) {
			if apiMetrics != nil {
				apiMetrics.IncWebhookEvent("bad_signature")
			}
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
			return
		}

		var event paystackwebhook.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed webhook payload"))
			return
		}

		dedupeKey := event.DedupeKey()
		if guard != nil && dedupeKey != "" {
			alreadyProcessed, err := guard.CheckAndMark(ctx, dedupeKey)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if alreadyProcessed {
				if apiMetrics != nil {
					apiMetrics.IncWebhookEvent("duplicate")
				}
				responses.WriteRaw(w, http.StatusOK, ackBody)
				return
			}
		}

		outcome, err := svc.HandleEvent(ctx, &event)
		if err != nil {
			// Release the mark so the provider's retry gets another shot.
			if guard != nil && dedupeKey != "" {
				_ = guard.Delete(ctx, dedupeKey)
			}
			if apiMetrics != nil {
				apiMetrics.IncWebhookEvent("error")
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if apiMetrics != nil {
			apiMetrics.IncWebhookEvent(string(outcome))
		}
		if logg != nil {
			logg.Info(logg.WithField(ctx, "outcome", string(outcome)), "paystack event processed")
		}
		responses.WriteRaw(w, http.StatusOK, ackBody)
	}
}
