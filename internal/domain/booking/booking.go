package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"cabinbook/internal/domain/shared/daterange"
)

var (
	ErrInvalidGuests = errors.New("booking: at least one adult guest required")
	ErrGuestName     = errors.New("booking: guest name required")
	ErrGuestEmail    = errors.New("booking: guest email required")
	ErrNotFound      = errors.New("booking: not found")
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusPending   Status = "pending"
	StatusRejected  Status = "rejected"
)

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusPending, StatusRejected:
		return true
	}
	return false
}

// Extras are the optional add-ons a guest can select during booking.
type Extras struct {
	Firewood     bool
	LateCheckout bool
}

// Guest carries the contact and stay details submitted with a reservation.
type Guest struct {
	Name            string
	Email           string
	Notes           string
	Adults          int
	Children        int
	HasPets         bool
	Extras          Extras
	TotalPriceCents int64
}

func (g Guest) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrGuestName
	}
	if strings.TrimSpace(g.Email) == "" {
		return ErrGuestEmail
	}
	if g.Adults <= 0 {
		return ErrInvalidGuests
	}
	return nil
}

// Record is a single booking entry. Records are append-only: an admin action
// may later flip Status, but records are never physically deleted.
type Record struct {
	ID        string
	Range     daterange.Range
	Guest     Guest
	Status    Status
	Source    string
	CreatedAt time.Time
}

// Blocks reports whether the record contributes a blocked range. Only
// confirmed bookings block the calendar.
func (r Record) Blocks() bool {
	return r.Status == StatusConfirmed
}

// Store is the interface both the remote and the local fallback booking
// stores satisfy.
type Store interface {
	ListByStatus(ctx context.Context, status Status) ([]Record, error)
	Append(ctx context.Context, rec Record) error
}

// ValidateCheckIn rejects stays starting before today.
func ValidateCheckIn(r daterange.Range, now time.Time) error {
	if r.Start.Before(daterange.Midnight(now)) {
		return ErrCheckInInPast
	}
	return nil
}

var ErrCheckInInPast = errors.New("booking: check-in date is in the past")
