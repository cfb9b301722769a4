package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type for initkit.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// --- Common Error Constructors ---

// ChannelClosed creates an error for a publish on a closed channel.
func ChannelClosed(channel string) *AppError {
	return &AppError{
		Code: ErrCodeChannelClosed, Message: fmt.Sprintf("channel %s is already closed", channel),
		Details: map[string]any{"channel": channel},
	}
}

// InitializationFailed creates an error describing a failed subsystem.
// Processors never return this to Initialize callers; the captured error
// is returned as-is. It is used where a summary across many subsystems is
// reported, such as component.Registry.InitializeAll.
func InitializationFailed(owner string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInitializationFailed, Message: fmt.Sprintf("%s failed to initialize", owner),
		Details: map[string]any{"owner": owner}, Cause: cause,
	}
}

// DependencyCycle creates an error for a dependency graph containing a cycle.
func DependencyCycle(members []string) *AppError {
	return &AppError{
		Code: ErrCodeDependencyCycle, Message: fmt.Sprintf("dependency cycle among %v", members),
		Details: map[string]any{"members": members},
	}
}

// UnknownDependency creates an error for a dependency that was never registered.
func UnknownDependency(owner, dependency string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownDependency, Message: fmt.Sprintf("%s depends on unregistered %s", owner, dependency),
		Details: map[string]any{"owner": owner, "dependency": dependency},
	}
}

// AlreadyRegistered creates an error for a duplicate registration.
func AlreadyRegistered(name string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyRegistered, Message: fmt.Sprintf("component %s already registered", name),
		Details: map[string]any{"component": name},
	}
}

// NotFound creates an error for a component that was not found.
func NotFound(name string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("component %s not found", name),
		Details: map[string]any{"component": name},
	}
}

// SchedulerStopped creates an error for work submitted after shutdown.
func SchedulerStopped() *AppError {
	return &AppError{Code: ErrCodeSchedulerStopped, Message: "scheduler is stopped"}
}

// InvalidConfig creates an error for a configuration that failed validation.
func InvalidConfig(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfig, Message: message}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected internal error occurred", Cause: cause,
	}
}

// Panic creates an error from a recovered panic value. If the value is an
// error it becomes the cause so errors.Is still matches it.
func Panic(value any, stack []byte) *AppError {
	e := &AppError{
		Code: ErrCodePanic, Message: fmt.Sprintf("panic: %v", value),
		Details: map[string]any{"stack": string(stack)},
	}
	if err, ok := value.(error); ok {
		e.Cause = err
	}
	return e
}
