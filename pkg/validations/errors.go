package validations

import (
	"errors"
	"fmt"
)

var (
	// ErrHalted is returned by pre-persist hooks when validation failed and the
	// persistence operation must not run.
	ErrHalted = errors.New("validations: persistence halted by failed validation")

	// ErrUnknownContext is matched by every ConfigurationError raised for a
	// validation context that has no rules registered.
	ErrUnknownContext = errors.New("validations: unknown validation context")

	// ErrNoActiveContext is returned when the current validation context is
	// requested outside of any validating call.
	ErrNoActiveContext = errors.New("validations: no active validation context")

	// ErrNotRegistered is returned when a type has no rule registry.
	ErrNotRegistered = errors.New("validations: type has no registered rules")

	// ErrMethodNotFound is returned when a method rule references a method the
	// target does not expose.
	ErrMethodNotFound = errors.New("validations: validation method not found")

	// ErrInvalidMethod is returned when a method rule references a method with
	// an unsupported signature.
	ErrInvalidMethod = errors.New("validations: validation method has invalid signature")

	// ErrNoUniquenessChecker is returned when a uniqueness rule is evaluated
	// without a storage-backed checker.
	ErrNoUniquenessChecker = errors.New("validations: uniqueness checker is not configured")

	// ErrUniquenessCheckFailed wraps storage failures raised by a UniquenessChecker.
	ErrUniquenessCheckFailed = errors.New("validations: uniqueness check failed")

	// ErrUnknownAttribute is returned when an attribute cannot be assigned.
	ErrUnknownAttribute = errors.New("validations: unknown attribute")

	// ErrNilTarget is returned when nil is passed as validation target.
	ErrNilTarget = errors.New("validations: validation target is nil")
)

// ConfigurationError reports a misconfigured validation setup. It is fatal for
// the operation that triggered it and is never converted into violations.
type ConfigurationError struct {
	Model   string
	Context string
	Known   []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("validations: context %q is not defined for %s (known: %v)", e.Context, e.Model, e.Known)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrUnknownContext
}

// HaltError carries the violations that stopped a persistence operation.
// errors.Is(err, ErrHalted) reports true for it.
type HaltError struct {
	Errors *ErrorSet
}

func (e *HaltError) Error() string {
	if e.Errors == nil || e.Errors.Empty() {
		return ErrHalted.Error()
	}
	return ErrHalted.Error() + ": " + e.Errors.Error()
}

func (e *HaltError) Unwrap() error {
	return ErrHalted
}

// IsHalted reports whether err stopped persistence because of failed validation.
func IsHalted(err error) bool {
	return errors.Is(err, ErrHalted)
}

// IsConfigurationError reports whether err is caused by a misconfigured context.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
