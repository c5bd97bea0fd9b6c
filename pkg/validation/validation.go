package validation

import (
	"regexp"
	"strings"
)

const (
	maxNameLength    = 60
	maxAddressLength = 400
	minPasswordLen   = 8
	maxPasswordLen   = 16
)

var (
	emailRe       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperRe       = regexp.MustCompile(`[A-Z]`)
	lowerRe       = regexp.MustCompile(`[a-z]`)
	digitRe       = regexp.MustCompile(`[0-9]`)
	specialCharRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// Name accepts non-empty names up to 60 characters.
func Name(name string) bool {
	return name != "" && len(name) <= maxNameLength
}

// Email accepts addresses of the shape local@domain.tld without whitespace.
func Email(email string) bool {
	return emailRe.MatchString(email)
}

// Password requires 8-16 characters (after trimming) with at least one
// uppercase letter, one lowercase letter, one digit and one special
// character from the accepted set.
func Password(password string) bool {
	if password == "" {
		return false
	}

	trimmed := strings.TrimSpace(password)
	if len(trimmed) < minPasswordLen || len(trimmed) > maxPasswordLen {
		return false
	}

	return upperRe.MatchString(password) &&
		lowerRe.MatchString(password) &&
		digitRe.MatchString(password) &&
		specialCharRe.MatchString(password)
}

// Address accepts empty addresses and anything up to 400 characters.
func Address(address string) bool {
	return len(address) <= maxAddressLength
}

// Rating accepts whole star values between 1 and 5.
func Rating(rating int) bool {
	return rating >= 1 && rating <= 5
}
