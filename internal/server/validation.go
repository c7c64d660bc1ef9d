package server

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"classfit/internal/profile"
)

// RegisterValidators installs custom validations on gin's binding
// engine. Safe to call more than once.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Tier is normalized to lowercase downstream, so "Premium" is as
	// valid as "premium" here.
	v.RegisterValidation("membership_tier", func(fl validator.FieldLevel) bool {
		return profile.ValidTier(strings.ToLower(fl.Field().String()))
	})
}
