package handlers

import (
	"net/http"

	apperrors "saas-platform-backend/internal/errors"
	"saas-platform-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses:
// validation 400, conflict 409, not found 404, authentication 401. Anything
// else is a 500 whose message is logged in full but only returned to the
// client in development mode.
func respondError(c *gin.Context, err error, development bool) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsAuthentication(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).WithError(err).Error("unhandled request error")
		if development {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
