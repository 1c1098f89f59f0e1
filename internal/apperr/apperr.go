package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes callers branch on with errors.Is.
var (
	// ErrMissingCredentials is returned when the s3 rendezvous is requested
	// but no object-store credentials can be resolved from attributes or
	// the environment.
	ErrMissingCredentials = errors.New("missing object store credentials")

	// ErrNoAddresses is returned when a static address list resolves to
	// nothing usable.
	ErrNoAddresses = errors.New("no addresses in join descriptor")
)

// ConfigError is the standard error type for configuration-build failures.
// It is fatal: the build aborts and the error surfaces to the caller
// unmodified.
type ConfigError struct {
	// Attribute names the offending configuration attribute, when known.
	Attribute string

	// Message is a human-readable description of what went wrong.
	Message string

	// Err is the underlying wrapped error, if any.
	Err error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Attribute != "" {
		msg = fmt.Sprintf("attribute %q: %s", e.Attribute, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// New creates a new ConfigError without a wrapped error.
func New(msg string) *ConfigError {
	return &ConfigError{Message: msg}
}

// Newf creates a new ConfigError with a formatted message.
func Newf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new ConfigError that wraps an existing error.
func Wrap(msg string, err error) *ConfigError {
	return &ConfigError{Message: msg, Err: err}
}

// ForAttribute creates a ConfigError tied to a named attribute. Used by the
// attribute binder so that typos in tuning keys surface with the exact key
// that caused them.
func ForAttribute(attribute, msg string) *ConfigError {
	return &ConfigError{Attribute: attribute, Message: msg}
}

// WrapAttribute ties an underlying error (typically a coercion failure) to
// the attribute it came from.
func WrapAttribute(attribute, msg string, err error) *ConfigError {
	return &ConfigError{Attribute: attribute, Message: msg, Err: err}
}
