package server

import (
	"github.com/vats98754/auto-kg/backend/internal/server/middleware"
	"github.com/vats98754/auto-kg/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Graph query routes
	apiRoutes.GET("/graph", routes.GetGraphHandler)
	apiRoutes.GET("/concepts/:id", routes.GetConceptHandler)
	apiRoutes.GET("/search", routes.GetSearchHandler)
	apiRoutes.GET("/subgraph", routes.GetSubgraphHandler)
	apiRoutes.GET("/path", routes.GetPathHandler)
	apiRoutes.GET("/stats", routes.GetStatsHandler)

	// Ingestion routes
	apiRoutes.POST("/documents", routes.PostDocumentsHandler)
	apiRoutes.POST("/documents/text", routes.PostDocumentsTextHandler)
	apiRoutes.POST("/scrape", routes.PostScrapeHandler)

	// Graph lifecycle
	apiRoutes.DELETE("/graph", routes.DeleteGraphHandler)
}
