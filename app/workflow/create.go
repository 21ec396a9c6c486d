// Package workflow contains the CRUD endpoints for stored workflow
// graphs
package workflow

import (
	"net/http"

	"flowmind/core-api/internal"
	"flowmind/core-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	GraphJSON   string `json:"graphJson"`
	IsActive    *bool  `json:"isActive"`
}

func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var data createBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"code":      "invalid_body",
			"requestID": requestID,
		})
		return
	}

	if data.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Workflow name can't be empty",
			"code":      "invalid_body",
			"requestID": requestID,
		})
		return
	}

	active := true
	if data.IsActive != nil {
		active = *data.IsActive
	}

	wf := model.Workflow{
		OwnerID:     userID,
		Name:        data.Name,
		Description: data.Description,
		GraphJSON:   data.GraphJSON,
		IsActive:    active,
		Version:     1,
	}

	if err := d.DB.Create(&wf).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create workflow", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"workflow":  wf,
		"requestID": requestID,
	})
}
