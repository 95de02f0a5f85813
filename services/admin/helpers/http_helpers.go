package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"auction-site/internal/auctionerrors"
	"auction-site/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// ParseID reads a positive record id from the named path parameter
func ParseID(c *gin.Context, param string) (uint, error) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", auctionerrors.ErrInvalidID, raw)
	}
	return uint(id), nil
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrUnknownEntity):
		return http.StatusNotFound, "unknown entity"
	case errors.Is(err, auctionerrors.ErrRecordNotFound):
		return http.StatusNotFound, "record not found"
	case errors.Is(err, auctionerrors.ErrInvalidID):
		return http.StatusBadRequest, "invalid record id"
	case errors.Is(err, auctionerrors.ErrInvalidCategory):
		return http.StatusBadRequest, "invalid product category"
	case errors.Is(err, auctionerrors.ErrParentNotFound):
		return http.StatusBadRequest, "referenced record not found"
	case errors.Is(err, auctionerrors.ErrInvalidRecord):
		return http.StatusBadRequest, "invalid record"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
