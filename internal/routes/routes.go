package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/snowballopensource/snowball-api/internal/handlers"
	"github.com/snowballopensource/snowball-api/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	clipHandler *handlers.ClipHandler,
	followHandler *handlers.FollowHandler,
) {
	v1 := app.Group("/v1")
	v1.Get("/health", handlers.Health)

	// General API rate limiter: 60 req/min per IP
	v1.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Every route resolves the viewer when a token is presented; routes
	// that require one add RequireAuth individually.
	v1.Use(middleware.TokenAuth(db))

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	authLimit := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	v1.Post("/users/sign-up", authLimit, authHandler.SignUp)
	v1.Post("/users/sign-in", authLimit, authHandler.SignIn)
	v1.Post("/users/phone-auth", authLimit, authHandler.PhoneAuth)
	v1.Post("/users/:id/phone-verification", authLimit, authHandler.PhoneVerification)

	// Users
	v1.Get("/users", userHandler.Index)
	v1.Post("/users/phone-search", middleware.RequireAuth(), userHandler.PhoneSearch)
	v1.Get("/users/:id", userHandler.Show)
	v1.Patch("/users/:id", middleware.RequireAuth(), userHandler.Update)
	v1.Put("/users/:id", middleware.RequireAuth(), userHandler.Update)

	// Follow graph
	v1.Post("/users/:id/follow", middleware.RequireAuth(), followHandler.Follow)
	v1.Delete("/users/:id/follow", middleware.RequireAuth(), followHandler.Unfollow)

	// Streams — viewable with or without a token
	v1.Get("/clips/stream", clipHandler.Stream)
	v1.Get("/users/:id/clips/stream", clipHandler.UserStream)

	// Clips
	v1.Post("/clips", middleware.RequireAuth(), clipHandler.Create)
	v1.Delete("/clips/:id", middleware.RequireAuth(), clipHandler.Delete)
	v1.Post("/clips/:id/likes", middleware.RequireAuth(), clipHandler.Like)
	v1.Delete("/clips/:id/likes", middleware.RequireAuth(), clipHandler.Unlike)
	v1.Post("/clips/:id/flags", middleware.RequireAuth(), clipHandler.Flag)

	// Push-token registration
	v1.Post("/devices", middleware.RequireAuth(), userHandler.RegisterDevice)
}
