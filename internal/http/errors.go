package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campus-coffee/internal/domain"
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	ErrorCode     string    `json:"errorCode"`
	Message       string    `json:"message"`
	StatusCode    int       `json:"statusCode"`
	StatusMessage string    `json:"statusMessage"`
	Timestamp     time.Time `json:"timestamp"`
	Path          string    `json:"path"`
}

const (
	codeInvalidInput = "INVALID_INPUT"
	codeNotFound     = "NOT_FOUND"
	codeDuplicate    = "DUPLICATE"
	codeInternal     = "INTERNAL_ERROR"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		ErrorCode:     code,
		Message:       message,
		StatusCode:    status,
		StatusMessage: http.StatusText(status),
		Timestamp:     time.Now().UTC(),
		Path:          c.Request.URL.Path,
	})
}

func badRequest(c *gin.Context, message string) {
	writeError(c, http.StatusBadRequest, codeInvalidInput, message)
}

// respondError translates a service error into a status code and error payload.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, codeInvalidInput, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		writeError(c, http.StatusConflict, codeDuplicate, err.Error())
	default:
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID(c),
			"path":       c.Request.URL.Path,
		}).WithError(err).Error("request failed")
		writeError(c, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
