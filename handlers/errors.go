package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/staylink/collab-api/models"
)

// respondDomainError maps the domain error taxonomy onto HTTP statuses.
// Validation problems are 400, illegal lifecycle operations are 409, unknown
// or inaccessible resources are 404; anything else is an opaque 500.
func respondDomainError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var transitionErr *models.InvalidStateTransitionError
	var notFoundErr *models.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	default:
		log.Printf("❌ %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
