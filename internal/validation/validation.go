package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	// MaxRewardNameLength bounds parent-entered reward names
	MaxRewardNameLength = 60
	// MaxRewardCost bounds the gold price of a single reward
	MaxRewardCost = 1000000
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateRewardName checks a parent-entered reward name
func ValidateRewardName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "reward name is required"}
	}
	if utf8.RuneCountInString(name) > MaxRewardNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("reward name must be at most %d characters", MaxRewardNameLength)}
	}
	return nil
}

// ValidateRewardCost checks a parent-entered reward cost in gold
func ValidateRewardCost(cost int) error {
	if cost <= 0 {
		return ValidationError{Field: "cost", Message: "reward cost must be positive"}
	}
	if cost > MaxRewardCost {
		return ValidationError{Field: "cost", Message: fmt.Sprintf("reward cost must be at most %d", MaxRewardCost)}
	}
	return nil
}
