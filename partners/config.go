package partners

import (
	"code.stakewire.io/stakewire/config/encoding"
	"code.stakewire.io/stakewire/logging"
)

const namedLogger = "partners"

// Config represents the configuration of the partner batch engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	// PoolAccount is the ledger account holding the shares of all partner
	// positions. Partners own slices of it, tracked by the engine.
	PoolAccount string `long:"pool-account" description:"ledger account holding the pooled partner shares"`
	// ReimbursementPct is the share of the protocol fee handed back to
	// partners on disbursal, in percent.
	ReimbursementPct uint64 `long:"reimbursement-pct" description:"fee reimbursement percentage"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:            encoding.LogLevel{Level: logging.InfoLevel},
		PoolAccount:      "partner-staking-pool",
		ReimbursementPct: 0,
	}
}
