package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/attendance/internal/app/models/dto"
	"github.com/yigit/attendance/internal/pkg/apperrors"
	"github.com/yigit/attendance/internal/pkg/dberrors"
	"github.com/yigit/attendance/internal/pkg/logger"
)

// HandleAPIError maps an error to its HTTP status and writes {"error": message}.
// Classified errors carry their own client message; anything else is a 500
// reporting the underlying database or driver message.
func HandleAPIError(c *gin.Context, err error) {
	status, fallback := classify(err)

	message, ok := apperrors.PublicMessage(err)
	if !ok {
		message = fallback
	}
	if status == http.StatusInternalServerError {
		message = dberrors.Message(err)
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, "Validation failed"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, "Token has expired"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, "Resource not found"
	default:
		return http.StatusInternalServerError, ""
	}
}
