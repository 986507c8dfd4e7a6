package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"cabinbook/internal/app/availability"
	"cabinbook/internal/app/dto"
	"cabinbook/internal/domain/booking"
	"cabinbook/internal/domain/shared/daterange"
)

type BookingHandler struct {
	Resolver *availability.Resolver
}

type createBookingRequest struct {
	StartDate    time.Time `json:"start_date" binding:"required"`
	EndDate      time.Time `json:"end_date" binding:"required"`
	Name         string    `json:"name" binding:"required"`
	Email        string    `json:"email" binding:"required,email"`
	Notes        string    `json:"notes"`
	Adults       int       `json:"adults" binding:"required,min=1"`
	Children     int       `json:"children" binding:"min=0"`
	HasPets      bool      `json:"has_pets"`
	Firewood     bool      `json:"firewood"`
	LateCheckout bool      `json:"late_checkout"`
	TotalCents   int64     `json:"total_price_cents"`
}

func (h BookingHandler) Create(c *gin.Context) {
	if h.Resolver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bookings unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guest := booking.Guest{
		Name:            req.Name,
		Email:           req.Email,
		Notes:           req.Notes,
		Adults:          req.Adults,
		Children:        req.Children,
		HasPets:         req.HasPets,
		Extras:          booking.Extras{Firewood: req.Firewood, LateCheckout: req.LateCheckout},
		TotalPriceCents: req.TotalCents,
	}
	rec, err := h.Resolver.Reserve(c.Request.Context(), req.StartDate, req.EndDate, guest)
	if err != nil {
		status := statusForReserveError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.MapBookingSummary(rec))
}

func statusForReserveError(err error) int {
	switch {
	case errors.Is(err, availability.ErrDateConflict):
		return http.StatusConflict
	case errors.Is(err, availability.ErrNotRecorded):
		return http.StatusServiceUnavailable
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, booking.ErrCheckInInPast),
		errors.Is(err, booking.ErrInvalidGuests),
		errors.Is(err, booking.ErrGuestName),
		errors.Is(err, booking.ErrGuestEmail):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var _ BookingHTTP = BookingHandler{}
