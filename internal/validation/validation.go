// Package validation evaluates form values against declarative rule sets.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule declares the checks applied to a single field. Zero-value fields are
// skipped. Custom returns nil to accept the value; a non-nil error supplies
// the message shown to the user.
type Rule struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	Custom    func(value string) error
}

// Result is the outcome of validating one value.
type Result struct {
	Valid  bool
	Errors []string
}

// Validate checks value against rule. A required empty value fails
// immediately with a single error; an optional empty value passes without
// evaluating the remaining checks. Otherwise every remaining check runs and
// contributes its own error. Lengths are counted in runes.
func Validate(value string, rule Rule) Result {
	if strings.TrimSpace(value) == "" {
		if rule.Required {
			return Result{Valid: false, Errors: []string{"this field is required"}}
		}
		return Result{Valid: true}
	}

	var errs []string
	length := utf8.RuneCountInString(value)

	if rule.MinLength > 0 && length < rule.MinLength {
		errs = append(errs, fmt.Sprintf("must be at least %d characters", rule.MinLength))
	}
	if rule.MaxLength > 0 && length > rule.MaxLength {
		errs = append(errs, fmt.Sprintf("must be at most %d characters", rule.MaxLength))
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
		errs = append(errs, "invalid format")
	}
	if rule.Custom != nil {
		if err := rule.Custom(value); err != nil {
			msg := err.Error()
			if msg == "" {
				msg = "validation failed"
			}
			errs = append(errs, msg)
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ValidateAll runs Validate for every declared rule against the matching
// entry in data. Fields present in data but absent from rules are ignored.
func ValidateAll(data map[string]string, rules map[string]Rule) map[string]Result {
	results := make(map[string]Result, len(rules))
	for field, rule := range rules {
		results[field] = Validate(data[field], rule)
	}
	return results
}

// AllValid reports whether every result in the set passed.
func AllValid(results map[string]Result) bool {
	for _, res := range results {
		if !res.Valid {
			return false
		}
	}
	return true
}
