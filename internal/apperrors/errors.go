package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is being modified concurrently.
var ErrConflict = errors.New("conflicting operation in progress")

// ErrInvalidState indicates that an entity is not in a state that allows the requested operation.
var ErrInvalidState = errors.New("invalid state")

// ErrForbidden indicates that the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal fault.
var ErrInternal = errors.New("internal error")

// ErrGateway indicates that the external payment gateway did not accept a dispatch.
var ErrGateway = errors.New("payment gateway error")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// GatewayError describes a failed dispatch. Retryable failures (network, timeout,
// upstream 5xx) may be retried with the same idempotency key; terminal ones may not.
type GatewayError struct {
	Retryable bool
	Reason    string
	Err       error
}

// NewRetryableGatewayError wraps a transient gateway failure.
func NewRetryableGatewayError(reason string, err error) *GatewayError {
	return &GatewayError{Retryable: true, Reason: reason, Err: err}
}

// NewTerminalGatewayError wraps a gateway rejection.
func NewTerminalGatewayError(reason string, err error) *GatewayError {
	return &GatewayError{Retryable: false, Reason: reason, Err: err}
}

func (e *GatewayError) Error() string {
	kind := "terminal"
	if e.Retryable {
		kind = "retryable"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s (%s): %s", ErrGateway.Error(), kind, e.Reason)
	}
	return fmt.Sprintf("%s (%s): %s: %v", ErrGateway.Error(), kind, e.Reason, e.Err)
}

// Is makes errors.Is(err, ErrGateway) hold for every GatewayError.
func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsRetryableGatewayError reports whether err contains a retryable GatewayError.
func IsRetryableGatewayError(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Retryable
}
