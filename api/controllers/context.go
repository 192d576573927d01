package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/chopnowhq/chopnow-backend/api/middleware"
	pkgerrors "github.com/chopnowhq/chopnow-backend/pkg/errors"
)

// userIDFromRequest extracts the authenticated user id seeded by the auth
// middleware.
func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}
