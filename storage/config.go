package storage

import (
	"code.stakewire.io/stakewire/config/encoding"
	"code.stakewire.io/stakewire/logging"
)

const namedLogger = "storage"

// Config represents the configuration of the checkpoint store.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	// Directory holds the badger database files. Relative paths are
	// resolved against the node home.
	Directory  string `long:"directory" description:"path of the badger checkpoint database"`
	SyncWrites bool   `long:"sync-writes" description:"fsync every write"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:      encoding.LogLevel{Level: logging.InfoLevel},
		Directory:  "checkpoints",
		SyncWrites: true,
	}
}
