package config

import (
	"os"
	"path/filepath"

	"code.stakewire.io/stakewire/broker"
	"code.stakewire.io/stakewire/checkpoint"
	"code.stakewire.io/stakewire/instantpool"
	"code.stakewire.io/stakewire/ledger"
	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/partners"
	"code.stakewire.io/stakewire/storage"
	"code.stakewire.io/stakewire/withdrawal"

	"github.com/BurntSushi/toml"
)

// Config ties together all other application configuration types.
type Config struct {
	Logging     logging.Config     `group:"Logging" namespace:"logging"`
	Broker      broker.Config      `group:"Broker" namespace:"broker"`
	Ledger      ledger.Config      `group:"Ledger" namespace:"ledger"`
	Withdrawal  withdrawal.Config  `group:"Withdrawal" namespace:"withdrawal"`
	Partners    partners.Config    `group:"Partners" namespace:"partners"`
	InstantPool instantpool.Config `group:"InstantPool" namespace:"instantpool"`
	Checkpoint  checkpoint.Config  `group:"Checkpoint" namespace:"checkpoint"`
	Storage     storage.Config     `group:"Storage" namespace:"storage"`
}

// NewDefaultConfig returns the default configuration of every package, as
// specified at the per package config level.
func NewDefaultConfig() Config {
	return Config{
		Logging:     logging.NewDefaultConfig(),
		Broker:      broker.NewDefaultConfig(),
		Ledger:      ledger.NewDefaultConfig(),
		Withdrawal:  withdrawal.NewDefaultConfig(),
		Partners:    partners.NewDefaultConfig(),
		InstantPool: instantpool.NewDefaultConfig(),
		Checkpoint:  checkpoint.NewDefaultConfig(),
		Storage:     storage.NewDefaultConfig(),
	}
}

// Read loads the configuration file under the given home, layered over the
// defaults so new fields pick up their default value.
func Read(home string) (*Config, error) {
	buf, err := os.ReadFile(filepath.Join(home, configFileName))
	if err != nil {
		return nil, err
	}
	cfg := NewDefaultConfig()
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write saves the given configuration under the given home.
func Write(home string, cfg Config) error {
	if err := os.MkdirAll(home, 0o700); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(home, configFileName))
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
