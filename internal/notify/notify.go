// Package notify turns arbitrary failure values into user-facing messages.
package notify

import "log"

const fallback = "an unexpected error occurred"

// Notification is a transient message shown to the user.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Message normalizes a thrown value (error, string, or anything else) into a
// display message, falling back to a generic one when nothing informative is
// available.
func Message(v any) string {
	switch val := v.(type) {
	case nil:
		return fallback
	case error:
		if msg := val.Error(); msg != "" {
			return msg
		}
		return fallback
	case string:
		if val != "" {
			return val
		}
		return fallback
	default:
		return fallback
	}
}

// FromError logs the raw value under the given context tag and returns the
// notification to display.
func FromError(context string, v any) Notification {
	if context == "" {
		context = "global"
	}
	log.Printf("[%s] error: %v", context, v)
	return Notification{Title: "Error", Message: Message(v)}
}
