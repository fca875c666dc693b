// Package validation validates tagged structs with go-playground/validator
// and reports failures as INVALID_INPUT application errors.
//
//	type Config struct {
//	    Workers int    `mapstructure:"workers" validate:"gte=1"`
//	    Backend string `mapstructure:"backend" validate:"required"`
//	}
//	if err := validation.Validate(cfg); err != nil { ... }
//
// Field names in messages follow the mapstructure (or json) tag, so they
// match the configuration keys users write.
package validation
