package routes

import (
	"net/http"

	"github.com/vats98754/auto-kg/backend/internal/server/middleware"
	"github.com/vats98754/auto-kg/backend/internal/server/util"

	"github.com/labstack/echo/v4"
)

// GetSearchHandler runs a ranked concept search.
func GetSearchHandler(c echo.Context) error {
	type getSearchParams struct {
		Query string `query:"q" validate:"required"`
		Limit int    `query:"limit"`
	}

	params := new(getSearchParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	results, err := app.Query.Search(c.Request().Context(), params.Query, params.Limit)
	if err != nil {
		return util.JSONError(c, err)
	}

	return c.JSON(http.StatusOK, results)
}
