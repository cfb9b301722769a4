package logger

import (
	"sort"
	"sync"
)

// Names under which the toolkit's packages look up their loggers.
const (
	NameInitialization = "initialization"
	NameEventChannel   = "eventchannel"
	NameScheduler      = "scheduler"
	NameComponent      = "component"
)

// packageNames are adopted by Adopt when called without names.
var packageNames = []string{NameInitialization, NameEventChannel, NameScheduler, NameComponent}

var (
	registryMu sync.RWMutex
	registered = make(map[string]*Logger)
)

// Register stores l under name. Later lookups through Get return it.
func Register(name string, l *Logger) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registered[name] = l
}

// Get returns the logger registered under name. An unregistered name
// resolves to the global logger tagged with name, so packages constructed
// before Adopt still log somewhere sensible.
func Get(name string) *Logger {
	registryMu.RLock()
	l, ok := registered[name]
	registryMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// Adopt registers l, tagged with each name, for the given names or for
// every toolkit package when none are given. Processors, channels and
// dispatchers created afterwards log through l.
func Adopt(l *Logger, names ...string) {
	if len(names) == 0 {
		names = packageNames
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, name := range names {
		registered[name] = l.WithComponent(name)
	}
}

// Registered returns the registered names in order.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset drops every registered logger.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registered = make(map[string]*Logger)
}
