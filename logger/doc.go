// Package logger provides structured logging for initkit using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers with map fields. A *Logger also satisfies
// Sink, the two-level diagnostic interface used by the initialization
// and eventchannel packages:
//
//   - Verbose messages are emitted at debug level and disappear under the
//     default "info" configuration.
//   - Always messages are emitted without a level and are written under any
//     configured level except "disabled".
//
// # Usage
//
//	log := logger.Get("storage")
//	log.Info("opened", logger.Fields("path", p))
//	log.Always("storage", "initialization failed", logger.Fields("error", err.Error()))
package logger
