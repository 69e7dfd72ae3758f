package api

import (
	"fmt"
	"strings"
)

// DefaultAllowedDomains is the corporate email allow-list used when no
// override is configured.
var DefaultAllowedDomains = []string{
	"@lmi-ghana.com",
	"@lmi-shamrock.com",
	"@lmi-homes.com",
	"@lmi-utilities.com",
	"@gmail.com",
}

// MinPasswordLength is the shortest password the auth flows accept.
const MinPasswordLength = 6

// ValidateEmailDomain checks an address against the corporate allow-list.
// The check happens client-side before any request is sent.
func ValidateEmailDomain(email string, allowedDomains []string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(allowedDomains) == 0 {
		allowedDomains = DefaultAllowedDomains
	}
	for _, domain := range allowedDomains {
		if strings.HasSuffix(email, strings.ToLower(domain)) {
			return nil
		}
	}
	return fmt.Errorf("please use a corporate email ending in %s", strings.Join(allowedDomains, ", "))
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	return nil
}

// ValidatePasswordReset enforces the reset-form rules: matching confirmation
// first, then length.
func ValidatePasswordReset(newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return fmt.Errorf("passwords do not match")
	}
	return ValidatePassword(newPassword)
}
