package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/DAREDEVILDD7/trolley-appointment/internal/booking"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/clock"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/config"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/database"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/handler"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/queue"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/repository"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/router"
)

func main() {
	_ = godotenv.Load() // best effort; real deployments set env directly

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; limiter degrades to no-op
	rlCfg := config.LoadRateLimitConfig()

	clk := clock.NewSystem()
	bookings := repository.NewBookingRepo(db)
	engine := booking.NewEngine(bookings, clk, cfg.SeqMaxAttempts, booking.DefaultAttemptTimeout)

	authHandler := handler.NewAuthHandler(cfg, repository.NewSupplierRepo(db), repository.NewSessionRepo(db))
	apptHandler := handler.NewAppointmentHandler(engine, bookings, clk, cfg.HorizonDays)

	// Audit consumer runs for the lifetime of the process and reconnects on
	// broker failures.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer: stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAppointments(e, apptHandler, cfg.JWTSecret, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
