package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// validUsername accepts letters, digits, underscore, dot and dash.
func validUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// ValidUsername applies the signup username rules outside request binding.
func ValidUsername(s string) bool {
	return len(s) >= 3 && len(s) <= 64 && usernamePattern.MatchString(s)
}

// RegisterValidators installs the "username" tag on gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("username", validUsername)
}
