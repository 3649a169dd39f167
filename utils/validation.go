package utils

import (
	"regexp"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidatePhone checks a phone number in international format: optional +,
// then 7 to 15 digits. Spaces, dashes and parentheses are ignored.
func ValidatePhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	return phonePattern.MatchString(cleaned)
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}
