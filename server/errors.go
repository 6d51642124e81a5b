package server

import (
	"net/http"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError maps a domain error onto the matching HTTP status. Unclassified
// errors are logged and returned as opaque 500s.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsAuthorization(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsInsufficientFunds(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case domain.IsConcurrencyConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": "conflicting concurrent update, retry the request"})
	default:
		log.WithError(err).Error("Request failed with internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
