package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"petlodge/internal/infra/config"
	"petlodge/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Quote(c *gin.Context)
}

type AvailabilityHTTP interface {
	Calendar(c *gin.Context)
	Check(c *gin.Context)
}

type SuiteHTTP interface {
	Catalog(c *gin.Context)
	Overview(c *gin.Context)
}

type FacilitySuiteHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Activate(c *gin.Context)
	Suspend(c *gin.Context)
	RateSuggestion(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type FacilityBookingHTTP interface {
	List(c *gin.Context)
	Confirm(c *gin.Context)
	Decline(c *gin.Context)
	CheckIn(c *gin.Context)
	CheckOut(c *gin.Context)
	NoShow(c *gin.Context)
}

type MeHTTP interface {
	ListBookings(c *gin.Context)
	CancelBooking(c *gin.Context)
}

type PetsHTTP interface {
	List(c *gin.Context)
	Register(c *gin.Context)
	Update(c *gin.Context)
	UploadVaccination(c *gin.Context)
}

type ReviewsHTTP interface {
	Submit(c *gin.Context)
	Update(c *gin.Context)
	ListBySuite(c *gin.Context)
}

type Handlers struct {
	Booking         BookingHTTP
	Availability    AvailabilityHTTP
	Suite           SuiteHTTP
	FacilitySuite   FacilitySuiteHTTP
	FacilityBooking FacilityBookingHTTP
	Me              MeHTTP
	Pets            PetsHTTP
	Reviews         ReviewsHTTP
	Auth            AuthHTTP
	Admin           AdminHTTP
	AuthMiddleware  gin.HandlerFunc
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
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	registerSwaggerRoutes(router)

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/quote", h.Booking.Quote)
	}
	if h.Reviews != nil {
		api.POST("/bookings/:id/review", h.Reviews.Submit)
		api.PUT("/reviews/:id", h.Reviews.Update)
	}
	if h.Suite != nil {
		api.GET("/suites", h.Suite.Catalog)
		api.GET("/suites/:id/overview", h.Suite.Overview)
	}
	if h.Availability != nil {
		api.GET("/suites/:id/calendar", h.Availability.Calendar)
		api.POST("/availability/check", h.Availability.Check)
	}
	if h.Reviews != nil {
		api.GET("/suites/:id/reviews", h.Reviews.ListBySuite)
	}
	if h.FacilitySuite != nil {
		facilitySuites := api.Group("/facility/suites")
		facilitySuites.GET("", h.FacilitySuite.List)
		facilitySuites.POST("", h.FacilitySuite.Create)
		facilitySuites.GET("/:id", h.FacilitySuite.Get)
		facilitySuites.PUT("/:id", h.FacilitySuite.Update)
		facilitySuites.POST("/:id/activate", h.FacilitySuite.Activate)
		facilitySuites.POST("/:id/suspend", h.FacilitySuite.Suspend)
		facilitySuites.POST("/:id/rate-suggestion", h.FacilitySuite.RateSuggestion)
		facilitySuites.POST("/:id/photos", h.FacilitySuite.UploadPhoto)
	}
	if h.FacilityBooking != nil {
		facilityBookings := api.Group("/facility/bookings")
		facilityBookings.GET("", h.FacilityBooking.List)
		facilityBookings.POST("/:id/confirm", h.FacilityBooking.Confirm)
		facilityBookings.POST("/:id/decline", h.FacilityBooking.Decline)
		facilityBookings.POST("/:id/check-in", h.FacilityBooking.CheckIn)
		facilityBookings.POST("/:id/check-out", h.FacilityBooking.CheckOut)
		facilityBookings.POST("/:id/no-show", h.FacilityBooking.NoShow)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/bookings", h.Me.ListBookings)
		meGroup.POST("/bookings/:id/cancel", h.Me.CancelBooking)
	}
	if h.Pets != nil {
		petsGroup := api.Group("/me/pets")
		petsGroup.GET("", h.Pets.List)
		petsGroup.POST("", h.Pets.Register)
		petsGroup.PUT("/:id", h.Pets.Update)
		petsGroup.POST("/:id/vaccinations", h.Pets.UploadVaccination)
	}
	if h.Admin != nil {
		adminGroup := api.Group("/admin")
		adminGroup.GET("/users", h.Admin.ListUsers)
		adminGroup.GET("/rate-model/metrics", h.Admin.RateModelMetrics)
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
