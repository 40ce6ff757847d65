package node

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"code.stakewire.io/stakewire/broker"
	"code.stakewire.io/stakewire/checkpoint"
	"code.stakewire.io/stakewire/config"
	"code.stakewire.io/stakewire/instantpool"
	"code.stakewire.io/stakewire/ledger"
	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/partners"
	"code.stakewire.io/stakewire/storage"
	"code.stakewire.io/stakewire/types"
	"code.stakewire.io/stakewire/withdrawal"
)

// Operator is the party granted every administrative role on a standalone
// node.
const Operator = "operator"

// Command assembles and runs all the engines of a stakewire node.
type Command struct {
	Log *logging.Logger

	confWatcher *config.Watcher
	cfg         config.Config

	store          *storage.Store
	broker         *broker.Broker
	ledgerEngine   *ledger.Engine
	withdrawals    *withdrawal.Engine
	partnersEngine *partners.Engine
	pool           *instantpool.Engine
	checkpoints    *checkpoint.Engine
}

// Run starts the node and blocks until it is signalled to stop. State is
// restored from the last checkpoint on startup and saved on shutdown.
func (c *Command) Run(confWatcher *config.Watcher, home string, _ []string) error {
	c.confWatcher = confWatcher
	c.cfg = confWatcher.Get()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.startServices(ctx, home); err != nil {
		return err
	}
	defer c.store.Close()

	c.confWatcher.OnConfigUpdate(func(cfg config.Config) {
		c.store.ReloadConf(cfg.Storage)
		c.cfg = cfg
	})
	go c.pollConfig(ctx)

	c.Log.Info("node started, all engines restored",
		logging.String("home", home),
	)

	c.wait()

	c.Log.Info("shutting down, saving checkpoints")
	if err := c.checkpoints.SaveAll(); err != nil {
		c.Log.Error("unable to save checkpoints", logging.Error(err))
		return err
	}
	return nil
}

func (c *Command) startServices(ctx context.Context, home string) error {
	storageCfg := c.cfg.Storage
	if !filepath.IsAbs(storageCfg.Directory) {
		storageCfg.Directory = filepath.Join(home, storageCfg.Directory)
	}
	store, err := storage.New(c.Log, storageCfg)
	if err != nil {
		return err
	}
	c.store = store

	c.broker = broker.New(c.Log, c.cfg.Broker)

	auth := newStaticAuthorizer()
	auth.Grant(types.RoleAdmin, Operator)
	auth.Grant(types.RoleBot, Operator)
	auth.Grant(types.RoleTreasury, Operator)
	auth.Grant(types.RoleInstantPoolOwner, Operator)

	clock := wallClock{}
	backend := newLocalBackend(c.Log)
	collateral := &localCollateral{log: c.Log}
	selector := &localSelector{validator: "validator-1"}

	c.withdrawals = withdrawal.New(c.Log, c.cfg.Withdrawal, c.broker, backend, collateral)
	c.ledgerEngine = ledger.New(c.Log, c.cfg.Ledger, c.broker, backend, selector, c.withdrawals, auth)
	c.partnersEngine = partners.New(c.Log, c.cfg.Partners, c.broker, c.ledgerEngine, c.withdrawals, collateral, auth, clock)
	c.pool = instantpool.New(c.Log, c.cfg.InstantPool, c.broker, collateral, auth, clock)

	c.checkpoints, err = checkpoint.New(c.Log, c.cfg.Checkpoint, c.store,
		c.ledgerEngine,
		c.withdrawals,
		c.partnersEngine,
		c.pool,
	)
	if err != nil {
		return err
	}
	if err := c.checkpoints.RestoreAll(ctx); err != nil {
		return err
	}

	// the relay carrying rate snapshots to the instant pool runs over the
	// broker when everything lives in one process
	c.broker.Subscribe(instantpool.NewRelaySubscriber(c.pool))
	return nil
}

func (c *Command) pollConfig(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case t := <-ticker.C:
			c.confWatcher.OnTimeUpdate(ctx, t)
		case <-ctx.Done():
			return
		}
	}
}

func (c *Command) wait() {
	gracefulStop := make(chan os.Signal, 1)
	signal.Notify(gracefulStop, syscall.SIGTERM, syscall.SIGINT)
	sig := <-gracefulStop
	c.Log.Info("caught signal", logging.String("name", sig.String()))
}
