package events

import (
	"context"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

var (
	ErrUnsupportedEvent = errors.New("unknown payload for event")
)

type Type int

// Base is the common denominator all event-bus events share.
type Base struct {
	ctx     context.Context
	traceID string
	seq     uint64
	et      Type
}

type Event interface {
	Type() Type
	Context() context.Context
	TraceID() string
}

const (
	// All event type, used by subscribers that want to receive every event,
	// has no corresponding event payload.
	All Type = iota
	DepositEvent
	RewardsAccruedEvent
	FeeCollectedEvent
	WithdrawalRequestedEvent
	WithdrawalClaimedEvent
	PartnerRegisteredEvent
	PartnerStakedEvent
	RewardsHarvestedEvent
	BatchUndelegatedEvent
	BatchClaimedEvent
	RewardDisbursedEvent
	LiquidityProvidedEvent
	CollateralSwappedEvent
	SwapRequestedEvent
	SwapClaimedEvent
	RateSnapshotEvent
)

var eventStrings = map[Type]string{
	All:                      "ALL",
	DepositEvent:             "DepositEvent",
	RewardsAccruedEvent:      "RewardsAccruedEvent",
	FeeCollectedEvent:        "FeeCollectedEvent",
	WithdrawalRequestedEvent: "WithdrawalRequestedEvent",
	WithdrawalClaimedEvent:   "WithdrawalClaimedEvent",
	PartnerRegisteredEvent:   "PartnerRegisteredEvent",
	PartnerStakedEvent:       "PartnerStakedEvent",
	RewardsHarvestedEvent:    "RewardsHarvestedEvent",
	BatchUndelegatedEvent:    "BatchUndelegatedEvent",
	BatchClaimedEvent:        "BatchClaimedEvent",
	RewardDisbursedEvent:     "RewardDisbursedEvent",
	LiquidityProvidedEvent:   "LiquidityProvidedEvent",
	CollateralSwappedEvent:   "CollateralSwappedEvent",
	SwapRequestedEvent:       "SwapRequestedEvent",
	SwapClaimedEvent:         "SwapClaimedEvent",
	RateSnapshotEvent:        "RateSnapshotEvent",
}

type traceIDKey int

const traceIDK traceIDKey = 0

// WithTraceID returns a context carrying the given trace ID, the same ID
// ends up on every event emitted while handling one operation.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDK, traceID)
}

func traceIDFromContext(ctx context.Context) (context.Context, string) {
	if tID, ok := ctx.Value(traceIDK).(string); ok && tID != "" {
		return ctx, tID
	}
	tID := uuid.NewV4().String()
	return WithTraceID(ctx, tID), tID
}

func newBase(ctx context.Context, t Type) *Base {
	ctx, tID := traceIDFromContext(ctx)
	return &Base{
		ctx:     ctx,
		traceID: tID,
		et:      t,
	}
}

// TraceID returns the... trace ID.
func (b Base) TraceID() string {
	return b.traceID
}

// Sequence returns the event sequence number within its trace.
func (b Base) Sequence() uint64 {
	return b.seq
}

// Context returns the context carried by the event.
func (b Base) Context() context.Context {
	return b.ctx
}

// Type returns the event type.
func (b Base) Type() Type {
	return b.et
}

// SetSequence is called by the broker when the event is accepted.
func (b *Base) SetSequence(s uint64) {
	b.seq = s
}

func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}
