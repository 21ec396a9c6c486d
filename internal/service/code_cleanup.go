package service

import (
	"time"

	"flowmind/core-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CodeCleanup defines a function used to periodically null out
// verification codes that expired and were never redeemed. Accounts
// themselves are never deleted here, a cleaned account can always
// request a fresh code.
func CodeCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Code cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			res := db.
				Model(&model.User{}).
				Where("is_email_verified = ? AND verification_expires_at < ?", false, time.Now()).
				Updates(map[string]any{
					"verification_code":       nil,
					"verification_issued_at":  nil,
					"verification_expires_at": nil,
				})
			if res.Error != nil {
				zap.L().Error("Failed to cleanup expired verification codes", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Debug("Cleaned up expired verification codes", zap.Int64("cleaned", res.RowsAffected))
			}
		}
	}()
}
