package ginserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"cabinbook/internal/infra/ical"
)

// FeedProxyHandler streams the upstream busy calendar to browser clients so
// the upstream URL never leaves the server.
type FeedProxyHandler struct {
	Feed    *ical.FeedClient
	Timeout time.Duration
}

func (h FeedProxyHandler) Proxy(c *gin.Context) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2500 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	body, err := h.Feed.Raw(ctx)
	if err != nil {
		if errors.Is(err, ical.ErrFeedNotConfigured) {
			c.String(http.StatusBadRequest, "calendar feed not configured")
			return
		}
		c.String(http.StatusBadGateway, "failed to fetch upstream calendar feed")
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}

var _ FeedHTTP = FeedProxyHandler{}
