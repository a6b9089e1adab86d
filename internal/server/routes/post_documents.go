package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/vats98754/auto-kg/backend/internal/queue"
	"github.com/vats98754/auto-kg/backend/internal/server/middleware"
	"github.com/vats98754/auto-kg/backend/internal/server/util"
	"github.com/vats98754/auto-kg/backend/internal/storage"
	gUtil "github.com/vats98754/auto-kg/backend/internal/util"
	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/loader"
	"github.com/vats98754/auto-kg/backend/pkg/loader/doc"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PostDocumentsHandler accepts a multipart document upload. With a
// queue configured the blob is stored in S3 and ingestion happens
// asynchronously in the worker; in standalone mode the text is
// extracted and processed within the request.
func PostDocumentsHandler(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing file upload"})
	}

	documentID, err := gonanoid.New()
	if err != nil {
		return util.JSONError(c, err)
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	src, err := fileHeader.Open()
	if err != nil {
		return util.JSONError(c, err)
	}
	defer src.Close()

	if app.S3 != nil && app.Queue != nil {
		key, err := storage.PutFile(ctx, app.S3, "documents", fileHeader.Filename, documentID, src)
		if err != nil {
			return util.JSONError(c, err)
		}

		msg := queue.IngestDocumentMsg{
			DocumentID: documentID,
			Name:       fileHeader.Filename,
			FileKey:    key,
		}
		msgBytes, err := json.Marshal(msg)
		if err != nil {
			return util.JSONError(c, err)
		}
		if err := queue.PublishFIFO(app.Queue, queue.IngestQueue, msgBytes); err != nil {
			return util.JSONError(c, err)
		}

		return c.JSON(http.StatusAccepted, map[string]string{
			"document_id": documentID,
			"status":      "queued",
		})
	}

	content, err := io.ReadAll(src)
	if err != nil {
		return util.JSONError(c, err)
	}
	if loader.IsDocExtension(fileHeader.Filename) {
		content, err = doc.ExtractText(content)
		if err != nil {
			return util.JSONError(c, err)
		}
	}

	title := fileHeader.Filename
	if idx := strings.LastIndexByte(title, '.'); idx > 0 {
		title = title[:idx]
	}

	result, err := app.Extractor.Process(ctx, common.Document{
		ID:    documentID,
		Title: title,
		Text:  gUtil.SanitizePostgresText(string(content)),
	})
	if err != nil {
		return util.JSONError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}
