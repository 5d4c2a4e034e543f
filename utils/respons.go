package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/taplink-saas/apperrors"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
	})
}

// RespondAppError maps typed domain errors to their HTTP status and code.
// Anything untyped is logged and reported as a 500 without its details.
func RespondAppError(c *gin.Context, err error) {
	if kind, ok := apperrors.KindOf(err); ok {
		c.JSON(StatusFor(kind), JSONResponse{
			Status:  false,
			Message: err.Error(),
			Code:    string(kind),
		})
		return
	}
	if errors.Is(err, apperrors.ErrStorageUnavailable) {
		c.JSON(http.StatusServiceUnavailable, JSONResponse{
			Status:  false,
			Message: "service temporarily unavailable",
			Code:    "storage_unavailable",
		})
		return
	}

	ErrorLogger.WithField("path", c.FullPath()).Errorf("request failed: %v", err)
	c.JSON(http.StatusInternalServerError, JSONResponse{
		Status:  false,
		Message: "internal server error",
	})
}

func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindTableConflict, apperrors.KindPlanInUse:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}
