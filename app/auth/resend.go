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

type resendBody struct {
	Email string `json:"email"`
}

// ResendCode reissues the verification code for an unverified
// account. The previous code is replaced and the expiry window
// restarts.
func ResendCode(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data resendBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email field can't be empty",
			"code":      "invalid_body",
			"requestID": requestID,
		})
		return
	}

	user, code, err := d.Verification.Reissue(data.Email, time.Now())
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
		case errors.Is(err, service.ErrResendCooldown):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":     "A code was sent recently. Please wait before requesting another one",
				"code":      "resend_cooldown",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to reissue verification code", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	if err := d.Mailer.SendVerificationCode(user.Email, code, d.Verification.TTL); err != nil {
		zap.L().Warn("Failed to send verification email", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "A new verification code has been sent",
		"requestID": requestID,
	})
}
