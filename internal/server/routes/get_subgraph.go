package routes

import (
	"net/http"

	"github.com/vats98754/auto-kg/backend/internal/server/middleware"
	"github.com/vats98754/auto-kg/backend/internal/server/util"

	"github.com/labstack/echo/v4"
)

const defaultSubgraphDepth = 2

// GetSubgraphHandler expands the neighborhood around a root concept.
func GetSubgraphHandler(c echo.Context) error {
	type getSubgraphParams struct {
		Root  string `query:"root" validate:"required"`
		Depth *int   `query:"depth"`
	}

	params := new(getSubgraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	depth := defaultSubgraphDepth
	if params.Depth != nil {
		depth = *params.Depth
	}

	app := c.(*middleware.AppContext).App
	graph, err := app.Query.Subgraph(c.Request().Context(), params.Root, depth)
	if err != nil {
		return util.JSONError(c, err)
	}

	return c.JSON(http.StatusOK, graph)
}
