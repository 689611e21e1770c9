package core

import (
	"fmt"
)

// StorageReadError reports a history file that exists but cannot be decoded.
type StorageReadError struct {
	Key  string
	Path string
	Err  error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("read history %s (%s): %v", e.Key, e.Path, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// ConfigurationError is returned when the environment lacks a required value.
type ConfigurationError struct {
	Section string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s configuration: %v", e.Section, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// GeneratorError is returned when the reply generator could not produce a reply.
type GeneratorError struct {
	Op       string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *GeneratorError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed (exit %d): %v: %s", e.Op, e.ExitCode, e.Err, e.Stderr)
	}
	if e.ExitCode != 0 {
		return fmt.Sprintf("%s failed (exit %d): %v", e.Op, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *GeneratorError) Unwrap() error { return e.Err }
