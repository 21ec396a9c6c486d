// Package service contains business logic shared between handlers
// and background jobs
package service

import (
	"errors"
	"time"

	"flowmind/core-api/config"
	"flowmind/core-api/internal/model"
	"flowmind/core-api/pkg/security"

	"gorm.io/gorm"
)

var (
	ErrNoPendingCode   = errors.New("no verification is pending for this account")
	ErrAlreadyVerified = errors.New("account is already verified")
	ErrCodeMismatch    = errors.New("verification code does not match")
	ErrCodeExpired     = errors.New("verification code has expired")
	ErrResendCooldown  = errors.New("a verification code was issued too recently")
)

// Verification issues and redeems the pending code on an account.
type Verification struct {
	DB         *gorm.DB
	CodeLength int
	TTL        time.Duration
	Cooldown   time.Duration
}

func NewVerification(db *gorm.DB, cfg *config.Config) *Verification {
	return &Verification{
		DB:         db,
		CodeLength: cfg.CodeLength,
		TTL:        cfg.CodeTTL,
		Cooldown:   cfg.ResendCooldown,
	}
}

// Issue mints a fresh code and stamps the code, issue time and expiry
// on u. The caller persists u afterwards and delivers the returned
// code. The issue time is stored rather than derived from the expiry
// so the cooldown keeps working when the TTL is reconfigured while
// codes are outstanding.
func (v *Verification) Issue(u *model.User) (string, error) {
	code, err := security.MakeVerificationCode(v.CodeLength)
	if err != nil {
		return "", err
	}

	now := time.Now()
	expiry := now.Add(v.TTL)

	u.VerificationCode = &code
	u.VerificationIssuedAt = &now
	u.VerificationExpiresAt = &expiry

	return code, nil
}

// IssuedAt returns when the pending code was minted. Used for the
// resend cooldown.
func (v *Verification) IssuedAt(u *model.User) (time.Time, bool) {
	if u.VerificationIssuedAt == nil {
		return time.Time{}, false
	}

	return *u.VerificationIssuedAt, true
}

// Reissue replaces the pending code for the account behind email and
// restarts the expiry window. The cooldown check and the write happen
// in one transaction so two concurrent resends can't both pass the
// cooldown.
func (v *Verification) Reissue(email string, now time.Time) (*model.User, string, error) {
	var user model.User
	var code string

	err := v.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoPendingCode
			}

			return err
		}

		if user.IsEmailVerified {
			return ErrAlreadyVerified
		}

		if issuedAt, ok := v.IssuedAt(&user); ok && now.Sub(issuedAt) < v.Cooldown {
			return ErrResendCooldown
		}

		var err error
		if code, err = v.Issue(&user); err != nil {
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]any{
				"verification_code":       user.VerificationCode,
				"verification_issued_at":  user.VerificationIssuedAt,
				"verification_expires_at": user.VerificationExpiresAt,
			}).Error
	})
	if err != nil {
		return nil, "", err
	}

	return &user, code, nil
}

// Redeem validates the submitted code for the account behind email
// and, on success, clears the pending fields and marks the account
// verified in a single transaction. The guarded update means only one
// of several concurrent requests can spend a given code. An expired
// code is left in place for the cleanup job.
func (v *Verification) Redeem(email, code string, now time.Time) (*model.User, error) {
	var user model.User

	err := v.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Same kind as "no code pending" so the endpoint
				// doesn't leak which addresses exist
				return ErrNoPendingCode
			}

			return err
		}

		if user.IsEmailVerified {
			return ErrAlreadyVerified
		}

		if user.VerificationCode == nil || user.VerificationExpiresAt == nil {
			return ErrNoPendingCode
		}

		if *user.VerificationCode != code {
			return ErrCodeMismatch
		}

		if now.After(*user.VerificationExpiresAt) {
			return ErrCodeExpired
		}

		res := tx.Model(&model.User{}).
			Where("id = ? AND verification_code = ?", user.ID, code).
			Updates(map[string]any{
				"is_email_verified":       true,
				"verification_code":       nil,
				"verification_issued_at":  nil,
				"verification_expires_at": nil,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Another request spent the code first
			return ErrAlreadyVerified
		}

		user.IsEmailVerified = true
		user.VerificationCode = nil
		user.VerificationIssuedAt = nil
		user.VerificationExpiresAt = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}
