package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig matches every *ConfigError.
	ErrConfig = errors.New("invalid configuration")
	// ErrEncoding matches every *EncodingError.
	ErrEncoding = errors.New("invalid text encoding")
)

// ConfigError reports mutually exclusive or out-of-range options.
type ConfigError struct {
	Field  string
	Reason string
}

// NewConfigError creates a ConfigError for the given field.
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrConfig) hold.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// EncodingError reports input bytes that do not decode to valid text.
type EncodingError struct {
	// Offset is the byte offset of the first ill-formed sequence, or -1 when unknown.
	Offset  int
	Charset string
	Reason  string
}

func (e *EncodingError) Error() string {
	charset := e.Charset
	if charset == "" {
		charset = "utf-8"
	}
	if e.Offset < 0 {
		return fmt.Sprintf("encoding: %s: %s", charset, e.Reason)
	}
	return fmt.Sprintf("encoding: %s: %s at byte %d", charset, e.Reason, e.Offset)
}

// Is makes errors.Is(err, ErrEncoding) hold.
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}
