package routes

import (
	"encoding/json"
	"net/http"

	"github.com/vats98754/auto-kg/backend/internal/queue"
	"github.com/vats98754/auto-kg/backend/internal/server/middleware"
	"github.com/vats98754/auto-kg/backend/internal/server/util"

	"github.com/labstack/echo/v4"
)

// PostScrapeHandler enqueues a crawl job. Scrapes always run in the
// worker because a full crawl takes minutes, not request time.
func PostScrapeHandler(c echo.Context) error {
	type postScrapeParams struct {
		Seeds    []string `json:"seeds"`
		Keywords []string `json:"keywords"`
		MaxPages int      `json:"max_pages"`
		MaxDepth int      `json:"max_depth"`
	}

	params := new(postScrapeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	if app.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "No work queue configured"})
	}

	msg := queue.ScrapeMsg{
		Seeds:    params.Seeds,
		Keywords: params.Keywords,
		MaxPages: params.MaxPages,
		MaxDepth: params.MaxDepth,
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return util.JSONError(c, err)
	}
	if err := queue.PublishFIFO(app.Queue, queue.ScrapeQueue, msgBytes); err != nil {
		return util.JSONError(c, err)
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}
