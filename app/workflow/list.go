package workflow

import (
	"net/http"

	"flowmind/core-api/internal"
	"flowmind/core-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// List returns the caller's active workflows, newest first.
func List(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	workflows := []model.Workflow{}

	err := d.DB.
		Where("owner_id = ? AND is_active = ?", userID, true).
		Order("created_at desc").
		Find(&workflows).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list workflows", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workflows": workflows,
		"requestID": requestID,
	})
}
