package telegram

import (
	"errors"
	"fmt"
)

// Common errors returned by the Telegram client.
var (
	// ErrAuthError indicates a missing or rejected bot token.
	ErrAuthError = errors.New("telegram authentication error")

	// ErrRateLimited indicates Telegram asked the bot to slow down.
	ErrRateLimited = errors.New("telegram rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with telegram")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from telegram")
)

// APIError represents an error reported by the Bot API.
type APIError struct {
	StatusCode  int
	Method      string
	Description string
	RetryAfter  int // seconds, set on 429
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s failed (status %d): %s", e.Method, e.StatusCode, e.Description)
}

// Unwrap maps well-known status codes onto the sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 401, 403:
		return ErrAuthError
	case 429:
		return ErrRateLimited
	}
	return nil
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthError)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
