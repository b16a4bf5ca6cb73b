package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/sosnovich/skyward/internal/handlers"
	"github.com/sosnovich/skyward/internal/middleware"
	"github.com/sosnovich/skyward/internal/security"
)

func Setup(
	app *fiber.App,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	authGate fiber.Handler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)

	// User and project management. The gate populates the principal but
	// never rejects; RequireRole enforces access per route.
	users := api.Group("/users", authGate)
	users.Post("/", middleware.RequireRole(security.RoleUser), userHandler.CreateUser)
	users.Get("/:id", middleware.RequireRole(security.RoleUser), userHandler.GetUser)
	users.Put("/:id", middleware.RequireRole(security.RoleAdmin), userHandler.UpdateUser)
	users.Delete("/:id", middleware.RequireRole(security.RoleAdmin), userHandler.DeleteUser)
	users.Post("/:id/projects", middleware.RequireRole(security.RoleUser), userHandler.AssignProject)
	users.Get("/:id/projects", middleware.RequireRole(security.RoleUser), userHandler.ListProjects)
}
