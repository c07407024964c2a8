package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTime indicates that a raw timing is not a valid HH:MM value.
	ErrInvalidTime = errors.New("time must be HH:MM with hour 0-23 and minute 0-59")

	// ErrMissingTime indicates that a timing is absent from the payload.
	ErrMissingTime = errors.New("time is missing")

	// ErrNotConfigured indicates that city or country has not been set yet.
	ErrNotConfigured = errors.New("city and country are not configured")

	// ErrInvalidInterval indicates that the refresh interval is too short.
	ErrInvalidInterval = errors.New("refresh interval must be at least 1 minute")

	// ErrUnknownLanguage indicates a language with no label table.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrUnknownTheme indicates a theme the renderer does not provide.
	ErrUnknownTheme = errors.New("unknown theme")
)

// ParseError reports the timing field that could not be parsed.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("parse %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
