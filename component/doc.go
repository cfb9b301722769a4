// Package component composes named subsystems into a dependency graph of
// initialization processors.
//
// Subsystems are registered by name together with the names they depend
// on. Build validates the graph, rejecting unknown names and cycles, and
// creates one initialization.Processor per subsystem wired to the
// processors of its dependencies. InitializeAll then brings every
// subsystem up concurrently; each one runs only after its own dependencies
// have succeeded.
//
// # Interfaces
//
//   - Component: named subsystem with start and stop logic
//   - Stopper: optional teardown for subsystems registered by callback
//   - Describable: bootstrap summary descriptions
package component
