package initialization

import "time"

// Status is the lifecycle position of a Processor.
type Status int32

const (
	StatusUninitialized Status = iota
	StatusInitializing
	StatusSucceeded
	StatusFailed
)

// String returns the status name used in logs and metrics.
func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusInitializing:
		return "initializing"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// State is an immutable snapshot of a Processor. Err is set only when
// Status is StatusFailed.
type State struct {
	Status  Status
	Err     error
	Attempt string
	At      time.Time
}
