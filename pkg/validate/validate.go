// Package validate holds the synchronous field validators screens run
// before any primary action. Validation failures never reach the gateway.
package validate

import (
	"regexp"
	"strings"
)

const (
	// MinLoginPasswordLen applies at sign-in.
	MinLoginPasswordLen = 6
	// MinNewPasswordLen applies when changing the password in settings.
	MinNewPasswordLen = 8
)

// emailRe requires local@domain.tld with no whitespace.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email checks the address and returns a field message, empty when valid.
func Email(email string) string {
	if strings.TrimSpace(email) == "" {
		return "Email is required"
	}
	if !emailRe.MatchString(email) {
		return "Please enter a valid email address"
	}
	return ""
}

// LoginPassword checks the sign-in password field.
func LoginPassword(password string) string {
	if strings.TrimSpace(password) == "" {
		return "Password is required"
	}
	if len(password) < MinLoginPasswordLen {
		return "Password must be at least 6 characters"
	}
	return ""
}

// NewPassword checks a settings password change: all fields present, new
// password long enough, confirmation matching.
func NewPassword(current, next, confirm string) string {
	if current == "" || next == "" || confirm == "" {
		return "Please fill in all password fields"
	}
	if next != confirm {
		return "New password and confirmation do not match"
	}
	if len(next) < MinNewPasswordLen {
		return "Password must be at least 8 characters long"
	}
	return ""
}
