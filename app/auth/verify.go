package auth

import (
	"errors"
	"net/http"
	"time"

	"flowmind/core-api/internal"
	"flowmind/core-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type verifyBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func Verify(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data verifyBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"code":      "invalid_body",
			"requestID": requestID,
		})
		return
	}

	if data.Email == "" || data.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email and code fields can't be empty",
			"code":      "invalid_body",
			"requestID": requestID,
		})
		return
	}

	user, err := d.Verification.Redeem(data.Email, data.Code, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoPendingCode):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "No verification is pending for this account",
				"code":      "verification_not_found",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrAlreadyVerified):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "This account is already verified. Please login",
				"code":      "already_verified",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrCodeMismatch):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "The verification code doesn't match",
				"code":      "code_mismatch",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrCodeExpired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "The verification code has expired. Please request a new one",
				"code":      "code_expired",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to redeem verification code", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"requestID": requestID,
	})
}
