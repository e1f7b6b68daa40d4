package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/akashhalder/gigflow-backend/internal/config"
	"github.com/akashhalder/gigflow-backend/internal/db"
	"github.com/akashhalder/gigflow-backend/internal/handlers"
	"github.com/akashhalder/gigflow-backend/internal/middleware"
	"github.com/akashhalder/gigflow-backend/internal/models"
	"github.com/akashhalder/gigflow-backend/internal/realtime"
	"github.com/akashhalder/gigflow-backend/internal/services/hiring"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, os.Getenv("REDIS_PASSWORD"))
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis not reachable:", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	if err := gdb.AutoMigrate(&models.User{}, &models.Gig{}, &models.Bid{}); err != nil {
		log.Fatal(err)
	}

	notifier := realtime.NewNotifier(hub, rdb)
	hireSvc := hiring.NewService(hiring.NewGormStore(gdb), notifier)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://127.0.0.1:5173, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Welcome to GigFlow Backend",
		})
	})

	app.Get("/health-check", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "This backend service is healthy",
		})
	})

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}

	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}

	gigH := handlers.NewGigHandler(gdb)
	bidH := handlers.NewBidHandler(gdb, hireSvc)
	wsH := handlers.NewWSHandler(hub)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)
	api.Get("/gigs", gigH.ListOpen)

	// protected (JWT cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/auth/me", authH.Me)

	protected.Post("/gigs", gigH.Create)
	protected.Get("/gigs/my-gigs", gigH.ListMine)
	protected.Get("/gigs/:id", gigH.GetDetail)

	protected.Post("/bids", bidH.Create)
	protected.Get("/bids/my-bids", bidH.ListMine)
	protected.Get("/bids/:gigId", bidH.ListByGig)
	protected.Patch("/bids/:bidId/hire", bidH.Hire)

	// WebSocket endpoint (identity via query param, like the old socket handshake)
	app.Get("/ws/notifications", websocket.New(wsH.Notifications))

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
