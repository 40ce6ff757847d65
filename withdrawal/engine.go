package withdrawal

import (
	"context"
	"errors"
	"fmt"

	"code.stakewire.io/stakewire/events"
	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/types"
	"code.stakewire.io/stakewire/types/num"
)

var (
	// ErrRequestNotFound is returned when no request lives at the given
	// index for the owner. Indexes are positional within the live list, a
	// claim shifts everything after it, so stale indexes must fail rather
	// than silently read another request.
	ErrRequestNotFound = errors.New("withdrawal request not found")
	// ErrNotYetClaimable is returned while the backend's current epoch is
	// still below the request's unlock epoch.
	ErrNotYetClaimable = errors.New("withdrawal not yet claimable")
	// ErrTransferFailed is returned when paying out the claim fails.
	ErrTransferFailed = errors.New("collateral payout failed")
)

// Broker sends events out of the engine.
type Broker interface {
	Send(event events.Event)
}

// EpochReporter reports the delegation backend's current epoch, the only
// guard on claims.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/epoch_reporter_mock.go -package mocks code.stakewire.io/stakewire/withdrawal EpochReporter
type EpochReporter interface {
	CurrentEpoch() uint64
}

// Collateral moves matured collateral to the claiming owner.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/collateral_mock.go -package mocks code.stakewire.io/stakewire/withdrawal Collateral
type Collateral interface {
	Transfer(ctx context.Context, to string, amount *num.Uint) error
}

// Engine holds the per owner lists of pending withdrawal requests and
// settles each exactly once.
type Engine struct {
	log        *logging.Logger
	config     Config
	broker     Broker
	epochs     EpochReporter
	collateral Collateral

	// positional per owner lists, the claim API is index based
	requests map[string][]*types.WithdrawalRequest
}

// New instantiates a new withdrawal queue engine.
func New(log *logging.Logger, config Config, broker Broker, epochs EpochReporter, collateral Collateral) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	return &Engine{
		log:        log,
		config:     config,
		broker:     broker,
		epochs:     epochs,
		collateral: collateral,
		requests:   map[string][]*types.WithdrawalRequest{},
	}
}

// Push appends a request to the owner's list and returns its index. Called
// by the ledger at request creation, the request is frozen from here on.
func (e *Engine) Push(owner string, req *types.WithdrawalRequest) int {
	e.requests[owner] = append(e.requests[owner], req)
	return len(e.requests[owner]) - 1
}

// Requests returns a copy of the owner's pending request list.
func (e *Engine) Requests(owner string) []*types.WithdrawalRequest {
	reqs := e.requests[owner]
	out := make([]*types.WithdrawalRequest, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Clone())
	}
	return out
}

// Claim settles the request at the given index for owner: pays out the
// frozen collateral amount and removes the request from the list. A request
// is claimable once the backend's epoch has reached its unlock epoch and
// stays claimable forever after. Returns the amount paid.
func (e *Engine) Claim(ctx context.Context, owner string, index int) (*num.Uint, error) {
	reqs, ok := e.requests[owner]
	if !ok || index < 0 || index >= len(reqs) {
		return nil, ErrRequestNotFound
	}
	req := reqs[index]

	epoch := e.epochs.CurrentEpoch()
	if epoch < req.UnlockEpoch {
		return nil, ErrNotYetClaimable
	}

	// remove before paying so a rail handing control back cannot settle the
	// same request twice; a rejected transfer moved nothing, so the request
	// is restored at its index and stays claimable
	e.remove(owner, index)
	amount := req.CollateralOwed.Clone()
	if err := e.collateral.Transfer(ctx, owner, amount.Clone()); err != nil {
		e.insert(owner, index, req)
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	req.Claimed = true

	e.log.Debug("withdrawal claimed",
		logging.String("owner", owner),
		logging.Int("index", index),
		logging.String("amount", amount.String()),
		logging.Uint64("epoch", epoch),
	)
	e.broker.Send(events.NewWithdrawalClaimed(ctx, owner, amount, epoch))
	return amount, nil
}

func (e *Engine) remove(owner string, index int) {
	reqs := e.requests[owner]
	reqs = append(reqs[:index], reqs[index+1:]...)
	if len(reqs) == 0 {
		delete(e.requests, owner)
		return
	}
	e.requests[owner] = reqs
}

func (e *Engine) insert(owner string, index int, req *types.WithdrawalRequest) {
	reqs := append(e.requests[owner], nil)
	copy(reqs[index+1:], reqs[index:])
	reqs[index] = req
	e.requests[owner] = reqs
}
