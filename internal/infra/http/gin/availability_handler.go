package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"cabinbook/internal/app/availability"
	"cabinbook/internal/app/dto"
)

type AvailabilityHandler struct {
	Resolver *availability.Resolver
}

// Blocked returns the merged blocked ranges. The calendar UI calls this
// twice: once without parameters to paint instantly from the persisted
// snapshot, then with refresh=1 for a silent network-first refresh.
func (h AvailabilityHandler) Blocked(c *gin.Context) {
	if h.Resolver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "availability unavailable"})
		return
	}
	strategy := availability.CacheFirst
	if c.Query("refresh") == "1" {
		strategy = availability.NetworkFirst
	}
	ranges := h.Resolver.BlockedRanges(c.Request.Context(), availability.ReadOptions{Strategy: strategy})
	c.JSON(http.StatusOK, dto.MapBlockedRanges(ranges))
}

var _ AvailabilityHTTP = AvailabilityHandler{}
