package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/patzer/internal/middleware"
)

// SetupRoutes sets up the API routes.
func SetupRoutes(app *fiber.App) {
	apiGroup := app.Group("/api", middleware.AuthOrToken())

	// Analysis routes
	apiGroup.Post("/analysis", PostAnalysis)
	apiGroup.Get("/analysis", ListAnalyses)
	apiGroup.Get("/analysis/stats", GetAnalysisStats)
	apiGroup.Get("/analysis/:id", GetAnalysis)
}
