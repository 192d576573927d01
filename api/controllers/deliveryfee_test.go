package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	feesvc "github.com/chopnowhq/chopnow-backend/internal/fees"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
)

type stubFeeService struct {
	calls int
	quote *feesvc.Quote
}

func (s *stubFeeService) QuoteZone(ctx context.Context, zoneID uuid.UUID, vehicleType *enums.VehicleType) (*feesvc.Quote, error) {
	s.calls++
	return s.quote, nil
}

func decodeErrorEnvelope(t *testing.T, body []byte) (code, message string) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code, envelope.Error.Message
}

func TestDeliveryFeeRequiresVehicleType(t *testing.T) {
	svc := &stubFeeService{}
	handler := DeliveryFee(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/delivery-fee?zone_id="+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	_, message := decodeErrorEnvelope(t, rec.Body.Bytes())
	if message != "vehicle_type is required" {
		t.Fatalf("unexpected message %q", message)
	}
	if svc.calls != 0 {
		t.Fatal("a request without vehicle_type must not reach the service")
	}
}

func TestDeliveryFeeRejectsUnknownVehicleType(t *testing.T) {
	svc := &stubFeeService{}
	handler := DeliveryFee(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/delivery-fee?zone_id="+uuid.NewString()+"&vehicle_type=truck", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatal("an unknown vehicle type must not reach the service")
	}
}

func TestDeliveryFeePassesBothParams(t *testing.T) {
	zoneID := uuid.New()
	svc := &stubFeeService{quote: &feesvc.Quote{ZoneID: zoneID, VehicleType: enums.VehicleTypeMotorbike}}
	handler := DeliveryFee(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/delivery-fee?zone_id="+zoneID.String()+"&vehicle_type=motorbike", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.calls != 1 {
		t.Fatalf("expected one service call, got %d", svc.calls)
	}
}
