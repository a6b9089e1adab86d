package util

import (
	"errors"
	"net/http"

	"github.com/vats98754/auto-kg/backend/pkg/common"

	"github.com/labstack/echo/v4"
)

// ErrorStatus maps the error taxonomy onto HTTP status codes.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrMergeConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// JSONError writes a uniform error body with the mapped status code.
func JSONError(c echo.Context, err error) error {
	return c.JSON(ErrorStatus(err), map[string]string{"error": err.Error()})
}
