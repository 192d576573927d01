package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chopnowhq/chopnow-backend/api/responses"
	directorysvc "github.com/chopnowhq/chopnow-backend/internal/directory"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
	pkgerrors "github.com/chopnowhq/chopnow-backend/pkg/errors"
	"github.com/chopnowhq/chopnow-backend/pkg/logger"
)

// ListBranches returns every branch.
func ListBranches(svc directorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		branches, err := svc.ListBranches(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, branches)
	}
}

// GetBranch returns one branch by id.
func GetBranch(svc directorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		branchID, err := uuid.Parse(chi.URLParam(r, "branchId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid branch id"))
			return
		}

		branch, err := svc.GetBranch(r.Context(), branchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, branch)
	}
}

// ListDeliveryZones filters zones by branch ids and vehicle type.
func ListDeliveryZones(svc directorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		var branchIDs []uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("branch_ids")); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				id, err := uuid.Parse(strings.TrimSpace(part))
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid branch id"))
					return
				}
				branchIDs = append(branchIDs, id)
			}
		}

		var vehicleType *enums.VehicleType
		if raw := strings.TrimSpace(r.URL.Query().Get("vehicle_type")); raw != "" {
			parsed, err := enums.ParseVehicleType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid vehicle type"))
				return
			}
			vehicleType = &parsed
		}

		zones, err := svc.ListZones(r.Context(), branchIDs, vehicleType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, zones)
	}
}
