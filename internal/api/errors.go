package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pluma-social/pluma/internal/social"
	"github.com/pluma-social/pluma/pkg/logging"
)

// writeError maps service errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	var already *social.AlreadyFollowingError
	switch {
	case errors.Is(err, social.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, social.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
	case errors.Is(err, social.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, social.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &already):
		c.JSON(http.StatusConflict, gin.H{
			"error": "already following",
			"state": string(already.State),
		})
	default:
		logging.GetLogger().Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
