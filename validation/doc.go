// Package validation checks configuration values and reports problems as
// INVALID_CONFIG application errors.
//
// Struct tag validation uses go-playground/validator, with field names
// taken from mapstructure tags so messages match the config file keys:
//
//	type Config struct {
//	    Workers int `mapstructure:"workers" validate:"gte=1"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects errors from explicit checks:
//
//	v := validation.New()
//	v.Required("name", cfg.Name).OneOf("environment", cfg.Environment, envs)
//	err := v.Validate()
package validation
