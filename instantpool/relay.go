package instantpool

import (
	"code.stakewire.io/stakewire/events"
)

// RelaySubscriber forwards the primary ledger's rate snapshot events into
// the instant pool. It stands in for the cross-network relay: delivery is
// push-based and carries no ordering guarantee beyond what the pool's
// nonce deduplication provides.
type RelaySubscriber struct {
	pool *Engine
}

// NewRelaySubscriber returns a broker subscriber feeding the given pool.
func NewRelaySubscriber(pool *Engine) *RelaySubscriber {
	return &RelaySubscriber{pool: pool}
}

// Push applies every rate snapshot event to the pool, in order received.
func (r *RelaySubscriber) Push(evts ...events.Event) {
	for _, e := range evts {
		if snap, ok := e.(*events.RateSnapshotEvt); ok {
			r.pool.ApplySnapshot(snap.Snapshot())
		}
	}
}

// Types returns the event types the subscriber wants.
func (r *RelaySubscriber) Types() []events.Type {
	return []events.Type{events.RateSnapshotEvent}
}
