package routes

import (
	"net/http"

	"github.com/vats98754/auto-kg/backend/internal/server/middleware"
	"github.com/vats98754/auto-kg/backend/internal/server/util"

	"github.com/labstack/echo/v4"
)

// GetGraphHandler returns the full graph snapshot used for the initial
// visualization load.
func GetGraphHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	graph, err := app.Query.FullGraph(ctx)
	if err != nil {
		return util.JSONError(c, err)
	}

	return c.JSON(http.StatusOK, graph)
}
