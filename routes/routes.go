package routes

import (
	"github.com/gofiber/fiber/v2"

	"menu-analytics/handlers"
	"menu-analytics/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, analysis *handlers.AnalysisHandler, imports *handlers.ImportHandler, health handlers.Pinger) {
	api := app.Group("/api/v1")

	api.Get("/health", handlers.HandleHealth(health))

	// --- Analysis Routes ---
	api.Get("/catalog", middleware.JWTMiddleware, middleware.AnalystRequired, analysis.HandleGetCatalog)

	reports := api.Group("/analysis", middleware.JWTMiddleware, middleware.AnalystRequired)
	reports.Post("/target-margin", analysis.HandleTargetMargin)
	reports.Post("/simulate", analysis.HandleSimulate)
	reports.Post("/optimum", analysis.HandleOptimum)
	reports.Post("/compare", analysis.HandleCompare)

	// --- Admin Routes ---
	admin := api.Group("/admin", middleware.JWTMiddleware, middleware.AdminRequired)
	admin.Post("/import", imports.HandleImportWorkbook)
}
