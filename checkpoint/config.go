package checkpoint

import (
	"code.stakewire.io/stakewire/config/encoding"
	"code.stakewire.io/stakewire/logging"
)

const namedLogger = "checkpoint"

// Config represents the configuration of the checkpoint engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
