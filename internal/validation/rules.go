package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Shared rules for the forms the application renders.
var (
	Email = Rule{
		Pattern: emailPattern,
		Custom: func(value string) error {
			if value == "" || emailPattern.MatchString(value) {
				return nil
			}
			return errors.New("enter a valid email address")
		},
	}

	Password = Rule{
		MinLength: 6,
		Custom: func(value string) error {
			if value != "" && utf8.RuneCountInString(value) < 6 {
				return errors.New("password must be at least 6 characters")
			}
			return nil
		},
	}

	Required = Rule{Required: true}

	TodoTitle = Rule{
		Required:  true,
		MinLength: 1,
		MaxLength: 200,
		Custom:    trimmedLimit("enter a todo title", "title must be at most 200 characters", 200),
	}

	TodoDescription = Rule{
		MaxLength: 1000,
		Custom: func(value string) error {
			if utf8.RuneCountInString(value) > 1000 {
				return errors.New("description must be at most 1000 characters")
			}
			return nil
		},
	}

	CategoryName = Rule{
		Required:  true,
		MinLength: 1,
		MaxLength: 50,
		Custom:    trimmedLimit("enter a category name", "name must be at most 50 characters", 50),
	}
)

// trimmedLimit rejects values that are blank after trimming or whose trimmed
// length exceeds max.
func trimmedLimit(emptyMsg, longMsg string, max int) func(string) error {
	return func(value string) error {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return errors.New(emptyMsg)
		}
		if utf8.RuneCountInString(trimmed) > max {
			return errors.New(longMsg)
		}
		return nil
	}
}
