package broker_test

import (
	"context"
	"testing"

	"code.stakewire.io/stakewire/broker"
	"code.stakewire.io/stakewire/events"
	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/types"
	"code.stakewire.io/stakewire/types/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSub struct {
	types []events.Type
	evts  []events.Event
}

func (s *stubSub) Push(evts ...events.Event) {
	s.evts = append(s.evts, evts...)
}

func (s *stubSub) Types() []events.Type {
	return s.types
}

func getBroker(t *testing.T) *broker.Broker {
	t.Helper()
	return broker.New(logging.NewTestLogger(), broker.NewDefaultConfig())
}

func depositEvt() events.Event {
	return events.NewDeposit(context.Background(), "alice", num.NewUint(100), num.NewUint(100), "validator-1")
}

func snapshotEvt(nonce uint64) events.Event {
	return events.NewRateSnapshot(context.Background(), types.RateSnapshot{
		TotalPooledCollateral: num.NewUint(1000),
		TotalShares:           num.NewUint(1000),
		Nonce:                 nonce,
	})
}

func TestBroker(t *testing.T) {
	t.Run("subscribers only see the types they declared", testTypedFanOut)
	t.Run("an All subscriber sees every event", testAllSubscriber)
	t.Run("events are stamped with increasing sequence numbers", testSequenceNumbers)
	t.Run("unsubscribed subscribers stop receiving", testUnsubscribe)
	t.Run("a batch is delivered in one push", testSendBatch)
}

func testTypedFanOut(t *testing.T) {
	b := getBroker(t)
	deposits := &stubSub{types: []events.Type{events.DepositEvent}}
	rates := &stubSub{types: []events.Type{events.RateSnapshotEvent}}
	b.Subscribe(deposits)
	b.Subscribe(rates)

	b.Send(depositEvt())
	b.Send(snapshotEvt(1))
	b.Send(snapshotEvt(2))

	require.Len(t, deposits.evts, 1)
	assert.Equal(t, events.DepositEvent, deposits.evts[0].Type())
	require.Len(t, rates.evts, 2)
	assert.Equal(t, events.RateSnapshotEvent, rates.evts[0].Type())
}

func testAllSubscriber(t *testing.T) {
	b := getBroker(t)
	all := &stubSub{types: []events.Type{events.All}}
	b.Subscribe(all)

	b.Send(depositEvt())
	b.Send(snapshotEvt(1))

	require.Len(t, all.evts, 2)
	assert.Equal(t, events.DepositEvent, all.evts[0].Type())
	assert.Equal(t, events.RateSnapshotEvent, all.evts[1].Type())
}

func testSequenceNumbers(t *testing.T) {
	b := getBroker(t)
	sub := &stubSub{types: []events.Type{events.All}}
	b.Subscribe(sub)

	b.Send(depositEvt())
	b.Send(snapshotEvt(1))
	b.Send(depositEvt())

	require.Len(t, sub.evts, 3)
	for i, e := range sub.evts {
		seq, ok := e.(interface{ Sequence() uint64 })
		require.True(t, ok)
		assert.Equal(t, uint64(i+1), seq.Sequence())
	}
}

func testUnsubscribe(t *testing.T) {
	b := getBroker(t)
	sub := &stubSub{types: []events.Type{events.DepositEvent}}
	key := b.Subscribe(sub)

	b.Send(depositEvt())
	b.Unsubscribe(key)
	b.Send(depositEvt())
	// unknown keys are a no-op
	b.Unsubscribe(key)
	b.Unsubscribe(12345)

	assert.Len(t, sub.evts, 1)
}

func testSendBatch(t *testing.T) {
	b := getBroker(t)
	sub := &stubSub{types: []events.Type{events.RateSnapshotEvent}}
	b.Subscribe(sub)

	b.SendBatch([]events.Event{snapshotEvt(1), snapshotEvt(2), snapshotEvt(3)})
	b.SendBatch(nil)

	require.Len(t, sub.evts, 3)
	last, ok := sub.evts[2].(interface{ Sequence() uint64 })
	require.True(t, ok)
	assert.Equal(t, uint64(3), last.Sequence())
}
