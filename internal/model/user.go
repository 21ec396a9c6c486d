package model

import "time"

// User is the persisted account record. The three verification
// fields are either all set (a verification is pending) or all null;
// the issue, reissue and redeem paths keep them in sync.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string `json:"fullName"`
	PasswordHash string `gorm:"not null" json:"-"`

	IsActive        bool `json:"isActive"`
	IsEmailVerified bool `gorm:"default:false" json:"isEmailVerified"`

	VerificationCode      *string    `json:"-"`
	VerificationIssuedAt  *time.Time `json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`

	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`

	Workflows []Workflow `gorm:"foreignKey:OwnerID" json:"-"`
}
