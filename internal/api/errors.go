package api

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error  string               `json:"error"`
	Fields []service.FieldError `json:"fields,omitempty"`
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case service.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrSessionConflict),
		errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotTutor),
		errors.Is(err, service.ErrSelfRequest),
		errors.Is(err, service.ErrSelfMessage),
		errors.Is(err, service.ErrInPast),
		errors.Is(err, service.ErrSessionNotStarted),
		errors.Is(err, service.ErrSessionStarted),
		errors.Is(err, service.ErrSessionCancelled),
		errors.Is(err, service.ErrNotCompleted):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.AbortWithStatusJSON(status, errorResponse{Error: "internal error"})
		return
	}

	resp := errorResponse{Error: err.Error()}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		resp.Error = "validation failed"
		resp.Fields = ve.Fields
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg})
}
