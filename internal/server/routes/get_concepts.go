package routes

import (
	"net/http"

	"github.com/vats98754/auto-kg/backend/internal/server/middleware"
	"github.com/vats98754/auto-kg/backend/internal/server/util"
	"github.com/vats98754/auto-kg/backend/pkg/common"

	"github.com/labstack/echo/v4"
)

// GetConceptHandler returns one concept plus the relationships that
// touch it.
func GetConceptHandler(c echo.Context) error {
	type getConceptParams struct {
		ID string `param:"id" validate:"required"`
	}

	type getConceptResponse struct {
		Concept       *common.Concept       `json:"concept"`
		Relationships []common.Relationship `json:"relationships"`
	}

	params := new(getConceptParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	concept, err := app.Query.Get(ctx, params.ID)
	if err != nil {
		return util.JSONError(c, err)
	}

	relationships, err := app.Store.Neighbors(ctx, []string{params.ID})
	if err != nil {
		return util.JSONError(c, err)
	}

	return c.JSON(http.StatusOK, getConceptResponse{
		Concept:       concept,
		Relationships: relationships,
	})
}
