package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidSetting indicates a setting has an unusable value.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrFileNotFound indicates an explicitly requested config file is missing.
	ErrFileNotFound = errors.New("config file not found")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string

	// Err is the underlying error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SettingError describes a setting that failed validation.
type SettingError struct {
	Key    string
	Value  any
	Reason string
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("setting %s = %v: %s", e.Key, e.Value, e.Reason)
}

func (e *SettingError) Is(target error) bool {
	return target == ErrInvalidSetting
}
