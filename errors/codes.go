package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Channel errors
const (
	// ErrCodeChannelClosed indicates a publish was attempted on a closed channel.
	ErrCodeChannelClosed ErrorCode = "CHANNEL_CLOSED"
)

// Initialization errors
const (
	// ErrCodeInitializationFailed indicates a subsystem failed to come up.
	ErrCodeInitializationFailed ErrorCode = "INITIALIZATION_FAILED"
	// ErrCodePanic indicates initialization logic panicked.
	ErrCodePanic ErrorCode = "PANIC"
)

// Composition errors
const (
	// ErrCodeDependencyCycle indicates the declared dependencies form a cycle.
	ErrCodeDependencyCycle ErrorCode = "DEPENDENCY_CYCLE"
	// ErrCodeUnknownDependency indicates a dependency name was never registered.
	ErrCodeUnknownDependency ErrorCode = "UNKNOWN_DEPENDENCY"
	// ErrCodeAlreadyRegistered indicates a duplicate component name.
	ErrCodeAlreadyRegistered ErrorCode = "ALREADY_REGISTERED"
	// ErrCodeNotFound indicates the requested component was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Runtime errors
const (
	// ErrCodeSchedulerStopped indicates work was submitted to a stopped scheduler.
	ErrCodeSchedulerStopped ErrorCode = "SCHEDULER_STOPPED"
	// ErrCodeInvalidConfig indicates the configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
