package instantpool

import (
	"time"

	"code.stakewire.io/stakewire/config/encoding"
	"code.stakewire.io/stakewire/logging"
)

const namedLogger = "instantpool"

// Config holds the instant pool parameters.
type Config struct {
	Level           encoding.LogLevel `long:"log-level"`
	FeeBps          uint64            `long:"fee-bps" description:"swap fee in basis points"`
	LocalLockPeriod encoding.Duration `long:"local-lock-period" description:"lock applied to share swap requests"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:           encoding.LogLevel{Level: logging.InfoLevel},
		FeeBps:          10,
		LocalLockPeriod: encoding.Duration{Duration: 48 * time.Hour},
	}
}
