package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"main/internal/api/handler"
	"main/internal/api/middleware"
	"main/internal/auth"
	"main/internal/config"
	"main/internal/gateway"
	"main/internal/models"
)

// SetupRouter initializes the main router with all routes
func SetupRouter(app *fiber.App, cfg *config.Config, log *zap.Logger,
	tokens *auth.TokenService, provider auth.CredentialProvider, proxy *gateway.Proxy) {

	SetupCoreMiddleware(app, cfg, log)

	authHandler := handler.NewAuthHandler(tokens, provider, log)
	gw := handler.NewGatewayHandler(proxy, log)

	// ========================================================================
	// PUBLIC ROUTES - no auth required
	// ========================================================================

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(models.GatewayInfo{
			Message:           "API Gateway is running",
			AvailableServices: proxy.ServiceNames(),
			Version:           "1.0.0",
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(models.HealthCheckResponse{
			Status:    "healthy",
			Service:   "gateway",
			Timestamp: time.Now().UTC(),
		})
	})

	app.Post("/auth/login", authHandler.Login)

	// ========================================================================
	// PROTECTED ROUTES - forwarded to the upstream services
	// ========================================================================

	protected := app.Group("/gateway", middleware.RequireAuth(tokens, log))

	protected.Get("/students", gw.List("student", "/api/students"))
	protected.Get("/students/:id", gw.GetByID("student", "/api/students/"))
	protected.Post("/students", gw.Create("student", "/api/students"))
	protected.Put("/students/:id", gw.Update("student", "/api/students/", func() any { return new(models.StudentUpdate) }))
	protected.Delete("/students/:id", gw.Delete("student", "/api/students/"))

	protected.Get("/courses", gw.List("course", "/api/courses"))
	protected.Get("/courses/:id", gw.GetByID("course", "/api/courses/"))
	protected.Post("/courses", gw.Create("course", "/api/courses"))
	protected.Put("/courses/:id", gw.Update("course", "/api/courses/", func() any { return new(models.CourseUpdate) }))
	protected.Delete("/courses/:id", gw.Delete("course", "/api/courses/"))

	// 404 handler for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		env := models.NewErrorEnvelope(models.CodeResourceNotFound, "route not found")
		env.Path = c.Path()
		return c.Status(fiber.StatusNotFound).JSON(env)
	})
}

// SetupCoreMiddleware wires the always-on middleware: request logging
// with timing capture, panic recovery, and CORS.
func SetupCoreMiddleware(app *fiber.App, cfg *config.Config, log *zap.Logger) {
	app.Use(middleware.RequestLoggerFiber(log))
	app.Use(middleware.RecoverFiber(log))
	app.Use(middleware.CorsFiber(cfg))
}
