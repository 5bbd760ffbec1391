package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/saraban-go-api/internal/config"
	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/handler"
	"github.com/noah-isme/saraban-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler           *handler.AuthHandler
	UserHandler           *handler.UserHandler
	DocumentHandler       *handler.DocumentHandler
	RecipientHandler      *handler.RecipientHandler
	AuditHandler          *handler.AuditHandler
	OrderHandler          *handler.RegistryHandler[dto.CreateOrderRequest, dto.OrderResponse]
	MemorandumHandler     *handler.RegistryHandler[dto.CreateMemorandumRequest, dto.MemorandumResponse]
	LetterHandler         *handler.RegistryHandler[dto.CreateLetterRequest, dto.LetterResponse]
	IncomingLetterHandler *handler.RegistryHandler[dto.CreateIncomingLetterRequest, dto.IncomingLetterResponse]
	DailyLogHandler       *handler.DailyLogHandler
	DashboardHandler      *handler.DashboardHandler
	UploadHandler         *handler.UploadHandler
	NotificationHandler   *handler.NotificationHandler
	JWTMiddleware         fiber.Handler
	LoginLimiter          fiber.Handler
	ReadinessChecks       []handler.ReadinessCheck
	// UploadsDir is served under /uploads when set.
	UploadsDir string
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler(cfg.MetricsToken))
	if deps.UploadsDir != "" {
		app.Static("/uploads", deps.UploadsDir)
	}

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.ReadinessChecks...))

	// Public identity routes
	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterPublic(api.Group("/auth"), deps.LoginLimiter)
	}

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	protected := api.Group("", jwtMiddleware)

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterProtected(protected.Group("/auth"))
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterDirectory(protected.Group("/users"))
		deps.UserHandler.RegisterAdmin(protected.Group("/admin/users"))
	}

	// Distribution tracker
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.Register(protected.Group("/documents"))
	}
	if deps.RecipientHandler != nil {
		deps.RecipientHandler.Register(protected)
	}
	if deps.AuditHandler != nil {
		deps.AuditHandler.Register(protected.Group("/audit-logs"))
	}

	// Registry books
	if deps.OrderHandler != nil {
		deps.OrderHandler.Register(protected.Group("/orders"))
	}
	if deps.MemorandumHandler != nil {
		deps.MemorandumHandler.Register(protected.Group("/memos"))
	}
	if deps.LetterHandler != nil {
		deps.LetterHandler.Register(protected.Group("/letters"))
	}
	if deps.IncomingLetterHandler != nil {
		deps.IncomingLetterHandler.Register(protected.Group("/incoming-letters"))
	}

	if deps.DailyLogHandler != nil {
		deps.DailyLogHandler.Register(protected.Group("/daily-logs"))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(protected)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(protected.Group("/uploads"))
	}
	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(protected.Group("/notifications"))
	}
}
