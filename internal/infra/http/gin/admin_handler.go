package ginserver

import (
	"context"
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"cabinbook/internal/app/dto"
	"cabinbook/internal/domain/booking"
)

// AdminBookingStore is what the dashboard needs: full listing plus status
// mutation. Both the mongo store and the offline store satisfy it, so the
// dashboard stays usable without the remote store.
type AdminBookingStore interface {
	List(ctx context.Context) ([]booking.Record, error)
	UpdateStatus(ctx context.Context, id string, status booking.Status) error
}

type AdminHandler struct {
	Store AdminBookingStore
}

func (h AdminHandler) ListBookings(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "booking store unavailable"})
		return
	}
	recs, err := h.Store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.MapBookingCollection(recs))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,bookingstatus"`
}

func (h AdminHandler) UpdateStatus(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "booking store unavailable"})
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.Store.UpdateStatus(c.Request.Context(), c.Param("id"), booking.Status(req.Status))
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

var _ AdminHTTP = AdminHandler{}
