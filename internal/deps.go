package internal

import (
	"flowmind/core-api/config"
	"flowmind/core-api/internal/service"
	"flowmind/core-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB           *gorm.DB
	Config       *config.Config
	Argon        *security.ArgonHash
	Tokens       *security.TokenIssuer
	Verification *service.Verification
	Mailer       *service.Mailer
}
