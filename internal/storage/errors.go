package storage

import (
	"errors"
	"fmt"
)

// ErrMalformedInput indicates the catalog text could not be decoded.
var ErrMalformedInput = errors.New("malformed catalog input")

// ParseError reports where decoding failed.
type ParseError struct {
	Line   int // 1-based
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedInput.
func (e *ParseError) Unwrap() error {
	return ErrMalformedInput
}

// IsMalformed returns true if err was caused by undecodable catalog text.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}
