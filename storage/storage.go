package storage

import (
	"fmt"

	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/types"

	"github.com/dgraph-io/badger/v2"
)

// Store persists checkpoint payloads in a badger database, one entry per
// engine, overwritten on every save. Only the latest checkpoint is kept.
type Store struct {
	config Config
	log    *logging.Logger
	db     *badger.DB
}

// New opens the badger database under the configured directory.
func New(log *logging.Logger, config Config) (*Store, error) {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	opts := badger.DefaultOptions(config.Directory).
		WithSyncWrites(config.SyncWrites).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("couldn't open badger checkpoint database: %w", err)
	}
	return &Store{
		config: config,
		log:    log,
		db:     db,
	}, nil
}

// ReloadConf updates the store configuration.
func (s *Store) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}
	s.config = cfg
}

// Save writes the payload for the named engine, replacing any previous one.
func (s *Store) Save(name types.CheckpointName, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(checkpointKey(name), data)
	})
	if err != nil {
		s.log.Error("unable to save checkpoint",
			logging.String("name", string(name)),
			logging.Error(err),
		)
		return err
	}
	return nil
}

// Get returns the stored payload for the named engine, or nil when no
// checkpoint has been saved yet.
func (s *Store) Get(name types.CheckpointName) ([]byte, error) {
	var buf []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(checkpointKey(name))
		if err != nil {
			return err
		}
		buf, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		s.log.Error("unable to read checkpoint",
			logging.String("name", string(name)),
			logging.Error(err),
		)
		return nil, err
	}
	return buf, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func checkpointKey(name types.CheckpointName) []byte {
	return []byte(fmt.Sprintf("CP:%s", name))
}
