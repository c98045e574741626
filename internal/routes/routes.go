package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/miat-mn/action-log/internal/config"
	"github.com/miat-mn/action-log/internal/handlers"
	"github.com/miat-mn/action-log/internal/metrics"
	"github.com/miat-mn/action-log/internal/middleware"
	"github.com/miat-mn/action-log/internal/models"
	"github.com/miat-mn/action-log/internal/services"
)

// Handlers groups everything Setup mounts. Images is nil when object
// storage is not configured, and the image routes are then omitted.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Catalog    *handlers.CatalogHandler
	Hazard     *handlers.HazardHandler
	Image      *handlers.ImageHandler
	Response   *handlers.ResponseHandler
	TaskOwner  *handlers.TaskOwnerHandler
	Admin      *handlers.AdminHandler
	AdminStore *services.AdminService
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")
	if cfg.RateLimitPerMin > 0 {
		api.Use(rateLimit(cfg.RateLimitPerMin))
	}

	api.Get("/health", h.Health.Check)

	// Auth gets a stricter per-IP limit.
	auth := api.Group("/auth")
	if cfg.AuthLimitPerMin > 0 {
		auth.Use(rateLimit(cfg.AuthLimitPerMin))
	}
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	jwt := middleware.JWTProtected(cfg)
	gate := func(roles []models.Role) fiber.Handler {
		return middleware.RequireRoles(h.AdminStore, roles)
	}

	api.Get("/auth/me", jwt, h.Auth.Me)

	// Reference data
	api.Get("/hazard-types", jwt, h.Catalog.ListHazardTypes)
	api.Post("/hazard-types", jwt, gate(models.SuperOnly), h.Catalog.CreateHazardType)
	api.Get("/locations", jwt, h.Catalog.ListLocations)
	api.Post("/locations", jwt, gate(models.SuperOnly), h.Catalog.CreateLocation)

	// Hazards. External reports are public.
	api.Post("/hazards/external", h.Hazard.CreateExternal)
	api.Post("/hazards", jwt, h.Hazard.Create)
	api.Get("/hazards/mine", jwt, h.Hazard.Mine)
	api.Get("/hazards", jwt, gate(models.AnyAdmin), h.Hazard.List)
	api.Get("/hazards/:id", jwt, gate(models.AnyAdmin), h.Hazard.Get)
	api.Delete("/hazards/:id", jwt, gate(models.SuperOnly), h.Hazard.Delete)
	if h.Image != nil {
		api.Post("/hazards/:id/images", jwt, h.Image.Upload)
		api.Get("/hazards/:id/images", jwt, h.Image.List)
	}

	// Response workflow
	response := api.Group("/response", jwt)
	response.Get("/:id", gate(models.AnyAdmin), h.Response.Get)
	analysis := gate(models.ResponseGate)
	response.Post("/:id/start-analysis", analysis, h.Response.StartAnalysis)
	response.Put("/:id/response-body", analysis, h.Response.UpdateResponseBody)
	response.Put("/:id/approve-request", analysis, h.Response.ApproveRequest)
	response.Put("/:id/deny-request", analysis, h.Response.DenyRequest)
	response.Put("/:id/finish-analysis", analysis, h.Response.FinishAnalysis)
	audit := gate(models.AuditGate)
	response.Put("/:id/start-checking", audit, h.Response.StartChecking)
	response.Put("/:id/confirm-response", audit, h.Response.ConfirmResponse)
	response.Put("/:id/deny-response", audit, h.Response.DenyResponse)

	// Task owners
	owners := api.Group("/taskOwners", jwt, gate(models.OwnerGate))
	owners.Get("/:hazardId", h.TaskOwner.List)
	owners.Post("/", h.TaskOwner.Add)
	owners.Put("/updateOwner", h.TaskOwner.UpdateOwner)
	owners.Put("/switchOwnerWithCollab", h.TaskOwner.SwitchOwnerWithCollab)
	owners.Delete("/", h.TaskOwner.Delete)

	api.Get("/admins", jwt, gate(models.OwnerGate), h.Admin.List)
}

func rateLimit(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
