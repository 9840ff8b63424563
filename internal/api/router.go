package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/metrics"
	"hotel-booking-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, cfg *config.ServerConfig, m *metrics.Metrics) *gin.Engine {
	r := gin.Default()
	r.Use(mw.RequestID())
	if m != nil {
		r.Use(m.Middleware())
	}

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", mw.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{mw.RequestIDHeader, mw.CacheHeader}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// A rate or TTL that is not positive switches the middleware off.
	var passThrough gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	rateLimiter, caching := passThrough, passThrough
	if cfg.RateLimitPerSec > 0 {
		rateLimiter = mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	}

	// Reads are cached until they expire or any write succeeds.
	cacheStore := cache.New(cfg.CacheTTL(), 2*cfg.CacheTTL())
	if cfg.CacheTTL() > 0 {
		caching = mw.Cache(cacheStore, cfg.CacheTTL())
	}

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter, mw.Invalidate(cacheStore))
	{
		api.GET("/bookings", caching, handler.ListBookings)
		api.GET("/bookings/new", caching, handler.NewBookingForm)
		api.POST("/bookings", handler.CreateBooking)
		api.GET("/bookings/:id", caching, handler.GetBooking)
		api.GET("/bookings/:id/edit", caching, handler.EditBookingForm)
		api.PUT("/bookings/:id", handler.UpdateBooking)
		api.GET("/bookings/:id/delete", caching, handler.GetBooking)
		api.DELETE("/bookings/:id", handler.DeleteBooking)

		api.GET("/availability", caching, handler.GetAvailability)
		api.GET("/occupancy", caching, handler.GetOccupancy)

		api.GET("/rooms", caching, handler.ListRooms)
		api.POST("/rooms", handler.CreateRoom)
		api.GET("/rooms/:id", caching, handler.GetRoom)
		api.PUT("/rooms/:id", handler.UpdateRoom)
		api.DELETE("/rooms/:id", handler.DeleteRoom)

		api.GET("/customers", caching, handler.ListCustomers)
		api.POST("/customers", handler.CreateCustomer)
		api.GET("/customers/:id", caching, handler.GetCustomer)
		api.PUT("/customers/:id", handler.UpdateCustomer)
		api.DELETE("/customers/:id", handler.DeleteCustomer)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
