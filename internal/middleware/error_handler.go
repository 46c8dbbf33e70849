package middleware

import (
	"errors"
	"net/http"

	"recsim/domain"
	"recsim/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ErrorHandler maps errors that escape handlers onto JSON responses.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *echo.HTTPError
	var reviewErr *domain.AlreadyReviewedError

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	case errors.As(err, &reviewErr):
		// consistency fault surfaced through the API; still a server error
		message = reviewErr.Error()
	}

	logger.Error("Request failed", "path", c.Path(), "code", code, err)

	if writeErr := c.JSON(code, map[string]string{"message": message}); writeErr != nil {
		logger.Error("Failed to write error response", writeErr)
	}
}
