package auth

import (
	"net/http"

	"flowmind/core-api/internal"
	"flowmind/core-api/internal/model"

	"github.com/gin-gonic/gin"
)

// Me returns the principal resolved by the auth middleware.
func Me(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	user := c.MustGet("user").(*model.User)

	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"requestID": requestID,
	})
}
