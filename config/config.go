package config

import (
	"github.com/kbukum/initkit/observability"
	"github.com/kbukum/initkit/scheduler"
	"github.com/kbukum/initkit/validation"
)

// Config is the complete configuration of an initkit application.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Scheduler     scheduler.Config     `yaml:"scheduler" mapstructure:"scheduler"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills unset values. Observability inherits the service
// identity when it has none of its own.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Scheduler.ApplyDefaults()

	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = c.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	v := validation.New()
	v.Merge("", c.ServiceConfig.Validate()).
		Merge("scheduler", c.Scheduler.Validate()).
		Merge("observability", c.Observability.Validate())
	return v.Validate()
}

// Load reads, defaults and validates the configuration of serviceName.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetSchedulerConfig returns the scheduler section.
func (c *Config) GetSchedulerConfig() scheduler.Config {
	return c.Scheduler
}

// GetObservabilityConfig returns the observability section.
func (c *Config) GetObservabilityConfig() observability.Config {
	return c.Observability
}
