package scheduler

import "github.com/kbukum/initkit/validation"

// Config configures a Dispatcher.
type Config struct {
	// Workers is the maximum number of background jobs running at once.
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=1"`
	// ForegroundQueue is the buffer of the foreground job queue.
	ForegroundQueue int `yaml:"foreground_queue" mapstructure:"foreground_queue" validate:"gte=0"`
}

// ApplyDefaults applies default values to scheduler configuration.
func (c *Config) ApplyDefaults() {
	if c.Workers <= 0 {
		c.Workers = 8
	}
	if c.ForegroundQueue < 0 {
		c.ForegroundQueue = 0
	}
}

// Validate validates scheduler configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
