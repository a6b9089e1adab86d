package routes

import (
	"net/http"

	"github.com/vats98754/auto-kg/backend/internal/server/middleware"
	"github.com/vats98754/auto-kg/backend/internal/server/util"

	"github.com/labstack/echo/v4"
)

// DeleteGraphHandler wipes every concept and relationship. This is the
// only bulk delete the API offers.
func DeleteGraphHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	if err := app.Store.Clear(c.Request().Context()); err != nil {
		return util.JSONError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "cleared"})
}
