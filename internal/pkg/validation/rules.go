package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Phone validation pattern, applied after stripping spaces and dashes
	PhonePattern = `^\+?1?\d{9,15}$`

	// Username pattern: letters, digits, dots, underscores
	UsernamePattern = `^[a-zA-Z0-9._]{3,50}$`

	// Password min length
	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	Phone    *regexp.Regexp
	Username *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	Phone:    regexp.MustCompile(PhonePattern),
	Username: regexp.MustCompile(UsernamePattern),
}

// ValidGenders is the accepted set for the optional gender field.
var ValidGenders = []string{"Male", "Female", "Other"}

// ValidateEmail checks email format.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !CompiledPatterns.Email.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUsername checks username format.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if !CompiledPatterns.Username.MatchString(username) {
		return fmt.Errorf("username must be 3-50 characters of letters, digits, dots or underscores")
	}
	return nil
}

// ValidatePassword checks password strength: at least 8 characters with at
// least one letter and one digit.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < PasswordMinLength {
		return fmt.Errorf("password must be at least %d characters long", PasswordMinLength)
	}

	hasLetter := false
	hasDigit := false
	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		}
		if unicode.IsDigit(char) {
			hasDigit = true
		}
	}
	if !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}

	return nil
}

// ValidatePhone checks phone number format, ignoring spaces and dashes.
func ValidatePhone(phone string) error {
	normalized := strings.NewReplacer("-", "", " ", "").Replace(phone)
	if !CompiledPatterns.Phone.MatchString(normalized) {
		return fmt.Errorf("invalid phone number format")
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date string.
func ValidateDate(value string) error {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("invalid date format, expected YYYY-MM-DD")
	}
	return nil
}

// ValidateGender checks the gender value against the accepted set.
func ValidateGender(gender string) error {
	for _, g := range ValidGenders {
		if gender == g {
			return nil
		}
	}
	return fmt.Errorf("gender must be one of: %s", strings.Join(ValidGenders, ", "))
}

// SanitizeString trims whitespace and truncates to maxLength (0 = unlimited).
func SanitizeString(text string, maxLength int) string {
	text = strings.TrimSpace(text)
	if maxLength > 0 && len(text) > maxLength {
		text = text[:maxLength]
	}
	return text
}
