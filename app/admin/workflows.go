package admin

import (
	"errors"
	"net/http"
	"strconv"

	"flowmind/core-api/internal"
	"flowmind/core-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListWorkflows returns all workflows, optionally filtered by owner.
func ListWorkflows(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	q := d.DB.Model(&model.Workflow{})

	if raw := c.Query("owner_id"); raw != "" {
		ownerID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid owner_id filter",
				"code":      "invalid_id",
				"requestID": requestID,
			})
			return
		}

		q = q.Where("owner_id = ?", ownerID)
	}

	workflows := []model.Workflow{}

	err := q.
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

// FetchWorkflow returns a single workflow regardless of owner. Used
// by the admin panel's detail view.
func FetchWorkflow(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid workflow ID",
			"code":      "invalid_id",
			"requestID": requestID,
		})
		return
	}

	var wf model.Workflow

	err = d.DB.First(&wf, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Workflow not found",
				"code":      "workflow_not_found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch workflow", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workflow":  wf,
		"requestID": requestID,
	})
}
