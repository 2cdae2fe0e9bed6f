package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mirasocial/mira-client/internal/errs"
)

// writeError maps domain sentinel errors to HTTP codes on the control API.
func writeError(c *gin.Context, err error) {
	var he *errs.HTTPError
	switch {
	case errors.Is(err, errs.ErrUnsupportedFormat),
		errors.Is(err, errs.ErrFileTooLarge):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrAuthenticationFailed),
		errors.Is(err, errs.ErrSessionExpired),
		errors.Is(err, errs.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrLocationTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrGeolocationUnavailable),
		errors.Is(err, errs.ErrDeviceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrAlreadyLive),
		errors.Is(err, errs.ErrNotLive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrNetworkUnavailable),
		errors.Is(err, errs.ErrSocketClosed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &he):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "backend_status": he.Status})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
