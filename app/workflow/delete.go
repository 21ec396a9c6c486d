package workflow

import (
	"net/http"
	"strconv"

	"flowmind/core-api/internal"
	"flowmind/core-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Delete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid workflow ID",
			"code":      "invalid_id",
			"requestID": requestID,
		})
		return
	}

	res := d.DB.
		Where("id = ? AND owner_id = ?", id, userID).
		Delete(&model.Workflow{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete workflow", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Workflow not found",
			"code":      "workflow_not_found",
			"requestID": requestID,
		})
		return
	}

	c.Status(http.StatusNoContent)
}
