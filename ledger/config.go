package ledger

import (
	"code.stakewire.io/stakewire/config/encoding"
	"code.stakewire.io/stakewire/logging"
)

const namedLogger = "ledger"

// Config represents the configuration of the ledger engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	// FeeBps is the protocol fee skimmed off accrued rewards, in basis points.
	FeeBps uint64 `long:"fee-bps" description:"protocol fee on rewards in basis points"`
	// Treasury receives the skimmed fee, minted as shares.
	Treasury string `long:"treasury" description:"treasury address receiving the protocol fee"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:  encoding.LogLevel{Level: logging.InfoLevel},
		FeeBps: 500,
	}
}
