package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/mandubird/ottsak/internal/handler"
	"github.com/mandubird/ottsak/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Work    *handler.WorkHandler
	Video   *handler.VideoHandler
	Ranking *handler.RankingHandler
	Cron    *handler.CronHandler
	Admin   *handler.AdminHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins, cronSecret string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health and metrics (before API group, no auth needed)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	readLimiter := middleware.NewReadRateLimiter().Handler()

	// API routes
	api := app.Group("/api")

	// Work routes
	api.Get("/works", h.Work.List, readLimiter)
	api.Get("/works/:slug", h.Work.GetBySlug, readLimiter)

	// Video routes
	api.Get("/videos", h.Video.ListRecent, readLimiter)

	// Ranking routes
	api.Get("/rankings/weekly", h.Ranking.Weekly, readLimiter)
	api.Get("/rankings/monthly", h.Ranking.Monthly, readLimiter)

	// Cron trigger routes, shared-secret only
	cronAuth := middleware.RequireCronSecret(cronSecret)
	cronLimiter := middleware.NewCronRateLimiter().Handler()
	cron := api.Group("/cron", cronAuth, cronLimiter)
	cron.Post("/sync-works", h.Cron.SyncWorks)
	cron.Post("/sync-videos", h.Cron.SyncVideos)
	cron.Post("/import-works", h.Cron.ImportWorks)
	cron.Post("/sync-weekly-ranking", h.Cron.WeeklyRanking)
	cron.Post("/sync-monthly-ranking", h.Cron.MonthlyRanking)

	// Admin routes reuse the cron secret; there is no separate user system
	admin := api.Group("/admin", cronAuth, middleware.NewAdminRateLimiter().Handler())
	admin.Put("/works/:slug/manual-videos", h.Admin.SetManualVideos)
}
