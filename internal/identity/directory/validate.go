package directory

import (
	"regexp"
	"strings"

	dErrors "shopfolio/pkg/domain-errors"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the address shape used across registration and reset.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword enforces the account password policy: at least 8
// characters with upper, lower, digit and special characters.
func ValidatePassword(password string) error {
	var problems []string
	if len(password) < 8 {
		problems = append(problems, "at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		problems = append(problems, "an uppercase letter")
	}
	if !hasLower {
		problems = append(problems, "a lowercase letter")
	}
	if !hasDigit {
		problems = append(problems, "a number")
	}
	if !hasSpecial {
		problems = append(problems, "a special character")
	}
	if len(problems) > 0 {
		return dErrors.New(dErrors.CodeValidation, "password must contain "+strings.Join(problems, ", "))
	}
	return nil
}
