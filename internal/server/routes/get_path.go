package routes

import (
	"net/http"

	"github.com/vats98754/auto-kg/backend/internal/server/middleware"
	"github.com/vats98754/auto-kg/backend/internal/server/util"

	"github.com/labstack/echo/v4"
)

const defaultPathMaxDepth = 6

// GetPathHandler finds a shortest path between two concepts.
func GetPathHandler(c echo.Context) error {
	type getPathParams struct {
		Source   string `query:"source" validate:"required"`
		Target   string `query:"target" validate:"required"`
		MaxDepth *int   `query:"max_depth"`
	}

	params := new(getPathParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	maxDepth := defaultPathMaxDepth
	if params.MaxDepth != nil {
		maxDepth = *params.MaxDepth
	}

	app := c.(*middleware.AppContext).App
	graph, err := app.Query.ShortestPath(c.Request().Context(), params.Source, params.Target, maxDepth)
	if err != nil {
		return util.JSONError(c, err)
	}

	return c.JSON(http.StatusOK, graph)
}
