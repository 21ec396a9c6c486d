package middleware

import (
	"errors"
	"net/http"
	"strings"

	"flowmind/core-api/internal/model"
	"flowmind/core-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewAuthMiddleware resolves the Authorization header back to an
// account and gates the request on it. Gate order: token validity,
// account existence, email verified, account active.
func NewAuthMiddleware(db *gorm.DB, tokens *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Authorization header missing",
				"code":      "missing_authorization",
				"requestID": requestID,
			})
			return
		}

		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Authorization header malformed",
				"code":      "missing_authorization",
				"requestID": requestID,
			})
			return
		}

		userID, err := tokens.Resolve(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Authorization token invalid or expired",
				"code":      "invalid_token",
				"requestID": requestID,
			})
			return
		}

		// The token may outlive the account, so always re-load the
		// row instead of trusting the claims
		var user model.User

		err = db.Where("id = ?", userID).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "User not found",
					"code":      "user_not_found",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to load user for auth", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !user.IsEmailVerified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "Please verify your email before using the service",
				"code":      "email_not_verified",
				"requestID": requestID,
			})
			return
		}

		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "This account has been disabled",
				"code":      "account_disabled",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", &user)
		c.Next()
	}
}
