package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"campsite/internal/infra/config"
	"campsite/internal/infra/obs"
)

type ReservationHTTP interface {
	Create(c *gin.Context)
	Cancel(c *gin.Context)
	RequestRefund(c *gin.Context)
	ListMine(c *gin.Context)
}

type AvailabilityHTTP interface {
	Calendar(c *gin.Context)
}

type AdminHTTP interface {
	ConfirmDeposit(c *gin.Context)
	ModifyReservation(c *gin.Context)
	CancelReservation(c *gin.Context)
	CompleteRefund(c *gin.Context)
	ListDeadlines(c *gin.Context)
	BlockSite(c *gin.Context)
	UnblockSite(c *gin.Context)
	MaxBlockDuration(c *gin.Context)
}

type Handlers struct {
	Reservation  ReservationHTTP
	Availability AvailabilityHTTP
	Admin        AdminHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
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
	if h.Reservation != nil {
		api.POST("/reservations", h.Reservation.Create)
		api.GET("/reservations", h.Reservation.ListMine)
		api.POST("/reservations/:id/cancel", h.Reservation.Cancel)
		api.POST("/reservations/:id/refund", h.Reservation.RequestRefund)
	}
	if h.Availability != nil {
		api.GET("/availability", h.Availability.Calendar)
	}
	if h.Admin != nil {
		adminGroup := api.Group("/admin")
		adminGroup.POST("/reservations/:id/confirm-deposit", h.Admin.ConfirmDeposit)
		adminGroup.PUT("/reservations/:id", h.Admin.ModifyReservation)
		adminGroup.POST("/reservations/:id/cancel", h.Admin.CancelReservation)
		adminGroup.POST("/refunds/:id/complete", h.Admin.CompleteRefund)
		adminGroup.GET("/deadlines", h.Admin.ListDeadlines)
		adminGroup.POST("/blocks", h.Admin.BlockSite)
		adminGroup.DELETE("/blocks/:id", h.Admin.UnblockSite)
		adminGroup.GET("/blocks/max-duration", h.Admin.MaxBlockDuration)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
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

var _ ReservationHTTP = ReservationHandler{}
var _ AvailabilityHTTP = AvailabilityHandler{}
var _ AdminHTTP = AdminHandler{}
