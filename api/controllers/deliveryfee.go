package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/chopnowhq/chopnow-backend/api/responses"
	feesvc "github.com/chopnowhq/chopnow-backend/internal/fees"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
	pkgerrors "github.com/chopnowhq/chopnow-backend/pkg/errors"
	"github.com/chopnowhq/chopnow-backend/pkg/logger"
)

// DeliveryFee quotes the current fee for a zone.
func DeliveryFee(svc feesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fee service unavailable"))
			return
		}

		rawZone := strings.TrimSpace(r.URL.Query().Get("zone_id"))
		if rawZone == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "zone_id is required"))
			return
		}
		zoneID, err := uuid.Parse(rawZone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid zone id"))
			return
		}

		rawVehicle := strings.TrimSpace(r.URL.Query().Get("vehicle_type"))
		if rawVehicle == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "vehicle_type is required"))
			return
		}
		vehicleType, err := enums.ParseVehicleType(rawVehicle)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid vehicle type"))
			return
		}

		quote, err := svc.QuoteZone(r.Context(), zoneID, &vehicleType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
