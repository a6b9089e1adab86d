package routes

import (
	"net/http"

	"github.com/vats98754/auto-kg/backend/internal/server/middleware"
	"github.com/vats98754/auto-kg/backend/internal/server/util"

	"github.com/labstack/echo/v4"
)

// GetStatsHandler summarizes the current graph.
func GetStatsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	stats, err := app.Query.Stats(c.Request().Context())
	if err != nil {
		return util.JSONError(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}
