package broker

import (
	"sort"

	"code.stakewire.io/stakewire/events"
	"code.stakewire.io/stakewire/logging"
)

// Subscriber receives the events it subscribed to. Delivery happens inline
// on the sending goroutine: the core is single writer, so subscribers see
// events in the exact order operations committed them.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/subscriber_mock.go -package mocks code.stakewire.io/stakewire/broker Subscriber
type Subscriber interface {
	Push(evts ...events.Event)
	Types() []events.Type
}

// Interface is the broker as seen by the engines sending events.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.stakewire.io/stakewire/broker Interface
type Interface interface {
	Send(event events.Event)
	SendBatch(evts []events.Event)
	Subscribe(s Subscriber) int
	Unsubscribe(k int)
}

type subscription struct {
	Subscriber
	id int
}

// Broker is the base broker type, fanning events out to subscribers by
// event type.
type Broker struct {
	log *logging.Logger

	tSubs map[events.Type]map[int]*subscription
	subs  map[int]*subscription
	seqNo uint64
	idSeq int
}

// New creates a new base broker.
func New(log *logging.Logger, config Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	return &Broker{
		log:   log,
		tSubs: map[events.Type]map[int]*subscription{},
		subs:  map[int]*subscription{},
	}
}

// Subscribe registers a subscriber for the event types it declares, or for
// everything if it declares events.All. Returns the subscription key.
func (b *Broker) Subscribe(s Subscriber) int {
	b.idSeq++
	sub := &subscription{
		Subscriber: s,
		id:         b.idSeq,
	}
	b.subs[sub.id] = sub
	for _, t := range s.Types() {
		if _, ok := b.tSubs[t]; !ok {
			b.tSubs[t] = map[int]*subscription{}
		}
		b.tSubs[t][sub.id] = sub
	}
	return sub.id
}

// Unsubscribe removes the subscriber under the given key, unknown keys are
// a no-op.
func (b *Broker) Unsubscribe(k int) {
	sub, ok := b.subs[k]
	if !ok {
		return
	}
	for _, t := range sub.Types() {
		delete(b.tSubs[t], k)
	}
	delete(b.subs, k)
}

// Send passes a single event on to the relevant subscribers.
func (b *Broker) Send(event events.Event) {
	b.seqNo++
	if sb, ok := event.(interface{ SetSequence(uint64) }); ok {
		sb.SetSequence(b.seqNo)
	}
	for _, sub := range b.targets(event.Type()) {
		sub.Push(event)
	}
}

// SendBatch passes a batch of events on, all of them sharing the same type
// targets as the first event in the batch.
func (b *Broker) SendBatch(evts []events.Event) {
	if len(evts) == 0 {
		return
	}
	for _, e := range evts {
		b.seqNo++
		if sb, ok := e.(interface{ SetSequence(uint64) }); ok {
			sb.SetSequence(b.seqNo)
		}
	}
	for _, sub := range b.targets(evts[0].Type()) {
		sub.Push(evts...)
	}
}

// targets returns the subscribers for a type plus the catch-all ones, in
// stable subscription order so delivery is deterministic.
func (b *Broker) targets(t events.Type) []*subscription {
	keys := make([]int, 0, len(b.tSubs[t])+len(b.tSubs[events.All]))
	for k := range b.tSubs[t] {
		keys = append(keys, k)
	}
	if t != events.All {
		for k := range b.tSubs[events.All] {
			keys = append(keys, k)
		}
	}
	sort.Ints(keys)
	subs := make([]*subscription, 0, len(keys))
	for _, k := range keys {
		subs = append(subs, b.subs[k])
	}
	return subs
}
