package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	DisplayNameMaxLength = 32
	TeamNameMinLength    = 3
	TeamNameMaxLength    = 40
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	phoneRegex    = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)
)

// FieldError is a validation failure shown next to the offending field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldError(field, msg string) *FieldError {
	return &FieldError{Field: field, Message: msg}
}

// DisplayName is required and must be a single word.
func DisplayName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fieldError("display_name", "Display name is required")
	}
	if strings.ContainsAny(name, " \t\n") {
		return fieldError("display_name", "Display name should not contain spaces")
	}
	if utf8.RuneCountInString(name) > DisplayNameMaxLength {
		return fieldError("display_name", fmt.Sprintf("Display name must be at most %d characters", DisplayNameMaxLength))
	}
	return nil
}

// Email is optional; when present it must look like an address.
func Email(email string) error {
	if email == "" {
		return nil
	}
	if !emailRegex.MatchString(email) {
		return fieldError("email", "Please enter a valid email address")
	}
	return nil
}

func Username(username string) error {
	if !usernameRegex.MatchString(username) {
		return fieldError("username", "Username must be 3-20 letters, digits or underscores")
	}
	return nil
}

// Phone accepts E.164 numbers, e.g. +919876543210.
func Phone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fieldError("phone", "Phone must be in international format, e.g. +919876543210")
	}
	return nil
}

func TeamName(name string) error {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < TeamNameMinLength {
		return fieldError("team_name", fmt.Sprintf("Team name must be at least %d characters", TeamNameMinLength))
	}
	if n > TeamNameMaxLength {
		return fieldError("team_name", fmt.Sprintf("Team name must be at most %d characters", TeamNameMaxLength))
	}
	return nil
}
