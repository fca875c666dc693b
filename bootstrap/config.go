package bootstrap

import (
	"github.com/kbukum/memoscribe/config"
)

// Config is the constraint for application configuration types. Structs
// embedding config.ServiceConfig satisfy it through promoted methods.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
