package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	pkgerrors "chainscan/pkg/errors"
)

// respondError maps classified failures onto HTTP status codes: validation
// 400, absence 404, illegal transition 409, upstream collaborator 502.
// Only unclassified failures surface as a generic 500.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case pkgerrors.IsValidation(err):
		c.JSON(400, gin.H{"error": err.Error()})
	case pkgerrors.IsNotFound(err):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, pkgerrors.ErrIllegalTransition):
		c.JSON(409, gin.H{"error": err.Error()})
	case pkgerrors.IsUpstream(err):
		c.JSON(502, gin.H{"error": err.Error()})
	default:
		c.JSON(500, gin.H{"error": fallback})
	}
}
