// Package admin contains internal listing endpoints used by the
// admin panel. They are not exposed through the public API gateway.
package admin

import (
	"net/http"

	"flowmind/core-api/internal"
	"flowmind/core-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ListUsers(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	users := []model.User{}

	err := d.DB.
		Order("id asc").
		Find(&users).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list users", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":     users,
		"requestID": requestID,
	})
}
