package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"innstay/internal/infra/config"
	"innstay/internal/infra/obs"
)

type HotelHTTP interface {
	Catalog(c *gin.Context)
	Get(c *gin.Context)
	BookedWindows(c *gin.Context)
	ListRatings(c *gin.Context)
}

type OwnerHotelHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Publish(c *gin.Context)
	Archive(c *gin.Context)
	UploadPhoto(c *gin.Context)
	ListBookings(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Cancel(c *gin.Context)
	MyBookings(c *gin.Context)
}

type RatingHTTP interface {
	Submit(c *gin.Context)
	Update(c *gin.Context)
}

type DiscountHTTP interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Disable(c *gin.Context)
}

type PaymentHTTP interface {
	StartCheckout(c *gin.Context)
	CompleteCheckout(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Hotel          HotelHTTP
	OwnerHotel     OwnerHotelHTTP
	Booking        BookingHTTP
	Rating         RatingHTTP
	Discount       DiscountHTTP
	Payment        PaymentHTTP
	AuthMiddleware gin.HandlerFunc
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
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Hotel != nil {
		api.GET("/hotels", h.Hotel.Catalog)
		api.GET("/hotels/:id", h.Hotel.Get)
		api.GET("/hotels/:id/booked", h.Hotel.BookedWindows)
		api.GET("/hotels/:id/ratings", h.Hotel.ListRatings)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.GET("/me/bookings", h.Booking.MyBookings)
	}
	if h.Rating != nil {
		api.POST("/bookings/:id/rating", h.Rating.Submit)
		api.PUT("/bookings/:id/rating", h.Rating.Update)
	}
	if h.Payment != nil {
		api.POST("/bookings/:id/checkout", h.Payment.StartCheckout)
		api.POST("/payments/complete", h.Payment.CompleteCheckout)
	}
	if h.OwnerHotel != nil {
		ownerGroup := api.Group("/owner/hotels")
		ownerGroup.GET("", h.OwnerHotel.List)
		ownerGroup.POST("", h.OwnerHotel.Create)
		ownerGroup.PUT("/:id", h.OwnerHotel.Update)
		ownerGroup.POST("/:id/publish", h.OwnerHotel.Publish)
		ownerGroup.POST("/:id/archive", h.OwnerHotel.Archive)
		ownerGroup.POST("/:id/photos", h.OwnerHotel.UploadPhoto)
		ownerGroup.GET("/:id/bookings", h.OwnerHotel.ListBookings)
		if h.Discount != nil {
			ownerGroup.POST("/:id/discounts", h.Discount.Create)
			ownerGroup.GET("/:id/discounts", h.Discount.List)
			ownerGroup.POST("/:id/discounts/:code/disable", h.Discount.Disable)
		}
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
