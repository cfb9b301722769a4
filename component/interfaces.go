package component

import (
	"context"

	"github.com/kbukum/initkit/scheduler"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a subsystem that knows its own name and dependencies.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// DependsOn lists the names that must be initialized first.
	DependsOn() []string

	// Start runs the one-time initialization. It is called at most once.
	Start(ctx context.Context, sched scheduler.Scheduler) error

	// Stop releases resources. It is only called after Start succeeded.
	Stop(ctx context.Context) error
}

// Stopper releases what a successfully initialized subsystem acquired.
type Stopper func(ctx context.Context) error

// Description holds summary information for the bootstrap display.
type Description struct {
	// Name is the human-readable display name. If empty, the registered
	// name is used.
	Name string
	// Type categorizes the component: "database", "cache", "broker", etc.
	Type string
	// Details is a one-liner shown in the startup summary.
	Details string
}

// Describable is optionally implemented by Components to appear with a
// description in the startup summary.
type Describable interface {
	Describe() Description
}
