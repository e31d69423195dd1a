// Package validator holds the account password policy.
package validator

import (
	"unicode"

	platformvalidator "capstone_backend/platform/validator"

	"github.com/go-playground/validator/v10"
)

// TagStrongPassword is the struct tag enforcing PasswordPolicy.
const TagStrongPassword = "strongpassword"

// PasswordPolicy describes the password requirements for API error messages.
const PasswordPolicy = "Password must be at least 8 characters long, contain a number, and an uppercase letter."

// Register adds the strongpassword tag to v.
func Register(v *platformvalidator.Validator) error {
	return v.RegisterValidation(TagStrongPassword, validateStrongPassword)
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword checks for password complexity:
// - At least 8 characters
// - At least one uppercase letter
// - At least one digit
func IsStrongPassword(password string) bool {
	var (
		count    int
		hasUpper bool
		hasDigit bool
	)

	for _, char := range password {
		count++
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	return count >= 8 && hasUpper && hasDigit
}
