package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing
	"github.com/redis/go-redis/v9"

	"github.com/DAREDEVILDD7/trolley-appointment/internal/config"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/handler"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// for load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers supplier session routes.  Login, refresh and
// logout live under /v1/auth and need no existing session; /v1/me is
// protected by the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterAppointments registers the booking endpoints.  All of them
// require an authenticated supplier; the booking POST is additionally
// guarded by the Redis rate limiter so one supplier cannot monopolize the
// sequencer.
func RegisterAppointments(e *echo.Echo, h *handler.AppointmentHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/appointments")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("/slots", h.Slots)
	g.GET("", h.List)
	g.POST("", h.Book, middleware.NewTokenBucket(rlCfg, rdb))
}
