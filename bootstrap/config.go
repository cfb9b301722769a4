package bootstrap

import (
	"github.com/kbukum/initkit/config"
	"github.com/kbukum/initkit/observability"
	"github.com/kbukum/initkit/scheduler"
)

// Config is the interface constraint for application configuration types.
// Any struct embedding config.Config (value embedding) satisfies it via
// promoted methods.
//
// Example:
//
//	type MyConfig struct {
//	    config.Config `yaml:",inline" mapstructure:",squash"`
//	    Orders OrdersConfig `yaml:"orders" mapstructure:"orders"`
//	}
//
//	app, err := bootstrap.NewApp[*MyConfig](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	GetSchedulerConfig() scheduler.Config
	GetObservabilityConfig() observability.Config
	ApplyDefaults()
	Validate() error
}
