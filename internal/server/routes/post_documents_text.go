package routes

import (
	"net/http"

	"github.com/vats98754/auto-kg/backend/internal/server/middleware"
	"github.com/vats98754/auto-kg/backend/internal/server/util"
	gUtil "github.com/vats98754/auto-kg/backend/internal/util"
	"github.com/vats98754/auto-kg/backend/pkg/common"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PostDocumentsTextHandler ingests inline text synchronously and
// returns the extraction counts.
func PostDocumentsTextHandler(c echo.Context) error {
	type postTextParams struct {
		Title      string   `json:"title" validate:"required"`
		Text       string   `json:"text" validate:"required"`
		SourceURL  string   `json:"source_url"`
		Categories []string `json:"categories"`
	}

	params := new(postTextParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	documentID, err := gonanoid.New()
	if err != nil {
		return util.JSONError(c, err)
	}

	app := c.(*middleware.AppContext).App
	result, err := app.Extractor.Process(c.Request().Context(), common.Document{
		ID:         documentID,
		Title:      params.Title,
		Text:       gUtil.SanitizePostgresText(params.Text),
		SourceURL:  params.SourceURL,
		Categories: params.Categories,
	})
	if err != nil {
		return util.JSONError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}
