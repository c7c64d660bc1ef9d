package member

import (
	"encoding/json"
	"time"

	"classfit/internal/profile"
)

type User struct {
	ID             int             `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Email          string          `db:"email" json:"email"`
	PasswordHash   string          `db:"password_hash" json:"-"`
	Role           string          `db:"role" json:"role"`
	SignupMetadata json.RawMessage `db:"signup_metadata" json:"-" swaggerignore:"true"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Metadata decodes the onboarding form stored at sign-up. A missing or
// malformed blob yields nil: the reconciler treats that as "no stored
// metadata".
func (u *User) Metadata() *profile.OnboardingForm {
	if len(u.SignupMetadata) == 0 {
		return nil
	}
	var form profile.OnboardingForm
	if err := json.Unmarshal(u.SignupMetadata, &form); err != nil {
		return nil
	}
	return &form
}

type RegisterRequest struct {
	Name       string                  `json:"name" binding:"required,min=2,max=100"`
	Email      string                  `json:"email" binding:"required,email"`
	Password   string                  `json:"password" binding:"required,min=8"`
	Onboarding *profile.OnboardingForm `json:"onboarding,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
