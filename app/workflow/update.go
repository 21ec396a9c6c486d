package workflow

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

type updateBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	GraphJSON   *string `json:"graphJson"`
	IsActive    *bool   `json:"isActive"`
}

// Update applies a partial update to an owned workflow and bumps its
// version counter.
func Update(c *gin.Context, d *internal.Deps) {
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

	var data updateBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"code":      "invalid_body",
			"requestID": requestID,
		})
		return
	}

	updates := map[string]any{}

	if data.Name != nil {
		if *data.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Workflow name can't be empty",
				"code":      "invalid_body",
				"requestID": requestID,
			})
			return
		}

		updates["name"] = *data.Name
	}

	if data.Description != nil {
		updates["description"] = *data.Description
	}

	if data.GraphJSON != nil {
		updates["graph_json"] = *data.GraphJSON
	}

	if data.IsActive != nil {
		updates["is_active"] = *data.IsActive
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No fields to update",
			"code":      "invalid_body",
			"requestID": requestID,
		})
		return
	}

	updates["version"] = gorm.Expr("version + 1")

	var wf model.Workflow

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", id, userID).First(&wf).Error; err != nil {
			return err
		}

		if err := tx.Model(&wf).Updates(updates).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", wf.ID).First(&wf).Error
	})
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

		zap.L().Error("Failed to update workflow", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workflow":  wf,
		"requestID": requestID,
	})
}
