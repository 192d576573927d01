package paystackwebhook

import "strings"

// Event names Paystack delivers for card charges.
const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

// Metadata carries the values this service attached when initializing the
// transaction.
type Metadata struct {
	OrderID string `json:"order_id"`
}

// EventData is the charge payload subset the reconciler reads.
type EventData struct {
	Reference string   `json:"reference"`
	AmountKobo int64   `json:"amount"`
	Status    string   `json:"status"`
	Metadata  Metadata `json:"metadata"`
}

// Event is one webhook delivery.
type Event struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

// DedupeKey identifies a delivery for the idempotency guard. Paystack does
// not ship a stable event id, so the event name plus transaction reference
// stands in for one.
func (e *Event) DedupeKey() string {
	reference := strings.TrimSpace(e.Data.Reference)
	if reference == "" {
		return ""
	}
	return e.Event + ":" + reference
}
