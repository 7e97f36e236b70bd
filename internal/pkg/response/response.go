package response

import (
	"errors"
	"net/http"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// NoContent отвечает 204 без тела.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// FromError maps domain error kinds to HTTP statuses. Unknown errors are
// logged and reported as 500 without leaking details.
func FromError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		details := map[string]string{}
		if vErr.Field != "" {
			details[vErr.Field] = vErr.Message
		}
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error(), details)
	case errors.Is(err, domain.ErrValidation):
		Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		Error(c, http.StatusBadRequest, "ALREADY_EXISTS", err.Error())
	case errors.Is(err, domain.ErrInvalidOperation):
		Error(c, http.StatusBadRequest, "INVALID_OPERATION", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrPermissionDenied):
		Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		_ = c.Error(err)
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
