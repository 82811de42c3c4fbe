package middleware

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/attendance/internal/app/models/dto"
	"github.com/yigit/attendance/internal/pkg/logger"
)

// MsgInvalidBody answers a body that is not valid JSON for the route
const MsgInvalidBody = "Invalid request body"

// BindJSON decodes and validates the request body into obj. A failed validation
// or an empty body answers 400 with message; a body that does not decode answers
// 400 with MsgInvalidBody. It returns false after answering.
func BindJSON(c *gin.Context, obj interface{}, message string) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if !isValidationError(err) && !errors.Is(err, io.EOF) {
			message = MsgInvalidBody
		}
		rejectRequest(c, err, message)
		return false
	}
	return true
}

// BindQuery decodes and validates the query string into obj. On failure it
// answers 400 with message and returns false.
func BindQuery(c *gin.Context, obj interface{}, message string) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		rejectRequest(c, err, message)
		return false
	}
	return true
}

func rejectRequest(c *gin.Context, err error, message string) {
	logger.Debug().
		Str("path", c.FullPath()).
		Str("details", describeBindError(err)).
		Msg("Rejected request")
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	details := make([]string, 0, len(verrs))
	for _, e := range verrs {
		details = append(details, formatValidationError(e))
	}
	return strings.Join(details, "; ")
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
