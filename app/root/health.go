// Package root contains endpoints not tied to any resource
package root

import (
	"net/http"
	"os"
	"time"

	"flowmind/core-api/config"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Info returns basic build/host information about the running app.
func Info(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostname, _ := os.Hostname()

		c.JSON(http.StatusOK, gin.H{
			"app_name": config.AppName,
			"version":  config.AppVersion,
			"env":      env,
			"hostname": hostname,
		})
	}
}
