package reservations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chopnowhq/chopnow-backend/pkg/clock"
	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
	pkgerrors "github.com/chopnowhq/chopnow-backend/pkg/errors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// CreateReservationInput holds the payload to book a table.
type CreateReservationInput struct {
	BranchID        uuid.UUID `json:"branch_id" validate:"required"`
	ReservationDate string    `json:"reservation_date" validate:"required"`
	ReservationTime string    `json:"reservation_time" validate:"required"`
	NumberOfGuests  int       `json:"number_of_guests" validate:"required,min=1"`
	SpecialRequests *string   `json:"special_requests,omitempty"`
}

// Service exposes reservation booking and history.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateReservationInput) (*models.Reservation, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Reservation, error)
}

type branchLoader interface {
	GetBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error)
}

type service struct {
	repo      *Repository
	directory branchLoader
	clock     clock.Clock
}

// NewService constructs a reservation service instance.
func NewService(repo *Repository, directory branchLoader, clk clock.Clock) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	if directory == nil {
		return nil, fmt.Errorf("directory loader required")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &service{repo: repo, directory: directory, clock: clk}, nil
}

// Create validates the requested slot against the branch's wall-clock
// opening hours and books it in pending status.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateReservationInput) (*models.Reservation, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user")
	}
	if input.NumberOfGuests < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "number of guests must be at least 1")
	}

	date, err := time.Parse(dateLayout, input.ReservationDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation date must be YYYY-MM-DD")
	}
	slot, err := time.Parse(timeLayout, input.ReservationTime)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation time must be HH:MM")
	}

	branch, err := s.directory.GetBranch(ctx, input.BranchID)
	if err != nil {
		return nil, err
	}

	at := time.Date(date.Year(), date.Month(), date.Day(), slot.Hour(), slot.Minute(), 0, 0, s.clock.Now().Location())
	if !at.After(s.clock.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation must be in the future")
	}

	if err := s.checkOpeningHours(branch, input.ReservationTime); err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		UserID:          userID,
		BranchID:        branch.ID,
		ReservationDate: date.Format(dateLayout),
		ReservationTime: input.ReservationTime,
		NumberOfGuests:  input.NumberOfGuests,
		Status:          enums.ReservationStatusPending,
		SpecialRequests: input.SpecialRequests,
	}

	if err := s.repo.CreateReservation(ctx, reservation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist reservation")
	}
	return reservation, nil
}

// checkOpeningHours compares "HH:MM" strings; branch hours are stored in the
// same zero-padded form, so lexical order matches clock order. The window is
// half-open: a table can be booked at opening time but not at closing time.
func (s *service) checkOpeningHours(branch *models.Branch, slot string) error {
	if branch.OpeningTime == "" || branch.ClosingTime == "" {
		return nil
	}
	if slot < branch.OpeningTime || slot >= branch.ClosingTime {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation time is outside branch opening hours").WithDetails(map[string]any{
			"opening_time": branch.OpeningTime,
			"closing_time": branch.ClosingTime,
		})
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Reservation, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user")
	}
	reservations, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reservations")
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	return reservations, nil
}
