package checkpoint

import (
	"context"

	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/types"

	"github.com/pkg/errors"
)

var (
	// ErrComponentWithDuplicateName is returned when two components register
	// under the same checkpoint name.
	ErrComponentWithDuplicateName = errors.New("multiple components with the same name")
)

// State is a component whose state is checkpointed and restored.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/state_mock.go -package mocks code.stakewire.io/stakewire/checkpoint State
type State interface {
	Name() types.CheckpointName
	Checkpoint() ([]byte, error)
	Load(ctx context.Context, checkpoint []byte) error
}

// Store persists and retrieves per-component payloads.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/store_mock.go -package mocks code.stakewire.io/stakewire/checkpoint Store
type Store interface {
	Save(name types.CheckpointName, data []byte) error
	Get(name types.CheckpointName) ([]byte, error)
}

// Engine collects checkpoints from all registered components and restores
// them after a restart.
type Engine struct {
	log        *logging.Logger
	config     Config
	store      Store
	components map[types.CheckpointName]State
	// order keeps restore deterministic, the ledger goes first so the
	// dependent engines load against restored totals
	order []types.CheckpointName
}

// New instantiates a new checkpoint engine.
func New(log *logging.Logger, config Config, store Store, components ...State) (*Engine, error) {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	e := &Engine{
		log:        log,
		config:     config,
		store:      store,
		components: make(map[types.CheckpointName]State, len(components)),
	}
	for _, c := range components {
		if err := e.addComponent(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Add registers components after the engine has been instantiated.
func (e *Engine) Add(comps ...State) error {
	for _, c := range comps {
		if err := e.addComponent(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) addComponent(comp State) error {
	name := comp.Name()
	c, ok := e.components[name]
	if !ok {
		e.components[name] = comp
		e.order = append(e.order, name)
		return nil
	}
	if c != comp {
		return ErrComponentWithDuplicateName
	}
	return nil
}

// SaveAll checkpoints every registered component. A failing component
// aborts the save, already written payloads stay valid individually.
func (e *Engine) SaveAll() error {
	for _, name := range e.order {
		comp := e.components[name]
		data, err := comp.Checkpoint()
		if err != nil {
			return errors.Wrapf(err, "couldn't checkpoint %s", name)
		}
		if err := e.store.Save(name, data); err != nil {
			return errors.Wrapf(err, "couldn't persist checkpoint %s", name)
		}
		e.log.Debug("checkpoint saved", logging.String("name", string(name)))
	}
	return nil
}

// RestoreAll loads every registered component from its stored checkpoint,
// in registration order. Components with no stored payload are skipped.
func (e *Engine) RestoreAll(ctx context.Context) error {
	for _, name := range e.order {
		comp := e.components[name]
		data, err := e.store.Get(name)
		if err != nil {
			return errors.Wrapf(err, "couldn't read checkpoint %s", name)
		}
		if data == nil {
			continue
		}
		if err := comp.Load(ctx, data); err != nil {
			return errors.Wrapf(err, "couldn't restore checkpoint %s", name)
		}
		e.log.Info("checkpoint restored", logging.String("name", string(name)))
	}
	return nil
}
