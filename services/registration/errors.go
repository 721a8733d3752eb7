package registration

import (
	"errors"
	"strings"
)

var (
	ErrUnknownCategory   = errors.New("unknown category")
	ErrInvalidTransition = errors.New("invalid wizard transition")
	ErrInvalidCycle      = errors.New("billing cycle must be monthly or yearly")
	ErrSessionNotFound   = errors.New("registration session not found")
)

// ValidationError lists the detail fields that are missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid registration details: " + strings.Join(e.Fields, ", ")
}
