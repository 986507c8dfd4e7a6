package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"cabinbook/internal/app/dto"
	"cabinbook/internal/domain/booking"
	"cabinbook/internal/domain/pricing"
)

type PricingHandler struct {
	Tariff pricing.Tariff
}

type quoteRequest struct {
	Nights       int  `json:"nights" binding:"required,min=1"`
	Adults       int  `json:"adults" binding:"required,min=1"`
	Children     int  `json:"children" binding:"min=0"`
	HasPets      bool `json:"has_pets"`
	Firewood     bool `json:"firewood"`
	LateCheckout bool `json:"late_checkout"`
}

func (h PricingHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	breakdown, err := h.Tariff.Quote(req.Nights, req.Adults, req.Children, req.HasPets, booking.Extras{
		Firewood:     req.Firewood,
		LateCheckout: req.LateCheckout,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.MapPricingBreakdown(breakdown))
}

var _ PricingHTTP = PricingHandler{}
