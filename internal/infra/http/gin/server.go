package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"cabinbook/internal/domain/booking"
	"cabinbook/internal/infra/config"
	"cabinbook/internal/infra/obs"
)

type AvailabilityHTTP interface {
	Blocked(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
}

type PricingHTTP interface {
	Quote(c *gin.Context)
}

type FeedHTTP interface {
	Proxy(c *gin.Context)
}

type AdminHTTP interface {
	ListBookings(c *gin.Context)
	UpdateStatus(c *gin.Context)
}

type Handlers struct {
	Availability    AvailabilityHTTP
	Booking         BookingHTTP
	Pricing         PricingHTTP
	Feed            FeedHTTP
	Admin           AdminHTTP
	AdminMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	registerValidations()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Admin-Token"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Availability != nil {
		api.GET("/availability", h.Availability.Blocked)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
	}
	if h.Pricing != nil {
		api.POST("/pricing/quote", h.Pricing.Quote)
	}
	if h.Feed != nil {
		api.GET("/ical", h.Feed.Proxy)
	}
	if h.Admin != nil {
		adminGroup := api.Group("/admin")
		if h.AdminMiddleware != nil {
			adminGroup.Use(h.AdminMiddleware)
		}
		adminGroup.GET("/bookings", h.Admin.ListBookings)
		adminGroup.PATCH("/bookings/:id/status", h.Admin.UpdateStatus)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bookingstatus", func(fl validator.FieldLevel) bool {
			return booking.ValidStatus(booking.Status(fl.Field().String()))
		})
	}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
