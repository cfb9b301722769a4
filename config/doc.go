// Package config loads application configuration from YAML files, .env
// files and environment variables.
//
// Files are discovered in standard locations (./cmd/<service>/config.yml,
// ./config/config.yml, ./config.yml) unless given explicitly. Environment
// variables override file values; nested keys are matched by splitting the
// variable name on underscores.
//
// # Usage
//
//	cfg, err := config.Load("orders", config.WithEnvPrefix("ORDERS"))
//
// With the prefix above, ORDERS_SCHEDULER_WORKERS=16 sets
// scheduler.workers.
package config
