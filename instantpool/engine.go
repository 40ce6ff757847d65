package instantpool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.stakewire.io/stakewire/events"
	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/types"
	"code.stakewire.io/stakewire/types/num"
)

const maxFeeBps = 10000

var (
	// ErrInvalidAmount is returned when an operation is called with a zero amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientInstantLiquidity is returned when a buffer cannot cover a swap.
	ErrInsufficientInstantLiquidity = errors.New("not enough collateral in the instant pool")
	// ErrTooEarly is returned when a swap request is claimed before its local lock expires.
	ErrTooEarly = errors.New("request is still locked")
	// ErrInvalidIndex is returned when no swap request exists at the index for the owner.
	ErrInvalidIndex = errors.New("no swap request at this index for this owner")
	// ErrInvalidFee is returned when a fee above 100% is configured.
	ErrInvalidFee = errors.New("fee must not exceed 10000 basis points")
	// ErrTransferFailed is returned when the collateral payout is rejected.
	ErrTransferFailed = errors.New("collateral transfer rejected")
)

// Broker sends events out of the engine.
type Broker interface {
	Send(event events.Event)
}

// Collateral pays buffered collateral out of the pool.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/collateral_mock.go -package mocks code.stakewire.io/stakewire/instantpool Collateral
type Collateral interface {
	Transfer(ctx context.Context, to string, amount *num.Uint) error
}

// Authorizer is the externally managed role check.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/authorizer_mock.go -package mocks code.stakewire.io/stakewire/instantpool Authorizer
type Authorizer interface {
	RequireRole(role types.Role, caller string) error
}

// TimeService provides the current time for the local lock.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/time_service_mock.go -package mocks code.stakewire.io/stakewire/instantpool TimeService
type TimeService interface {
	GetTimeNow() time.Time
}

// Engine is the instant liquidity pool of the secondary network. It holds
// its own collateral and share buffers and prices swaps off the last rate
// snapshot relayed from the primary ledger, never off live ledger state.
type Engine struct {
	log        *logging.Logger
	config     Config
	broker     Broker
	collateral Collateral
	auth       Authorizer
	timeSvc    TimeService

	bufferedCollateral *num.Uint
	bufferedShares     *num.Uint
	accruedFees        *num.Uint
	feeBps             uint64
	lockPeriod         time.Duration

	lastNonce          uint64
	snapshotCollateral *num.Uint
	snapshotShares     *num.Uint

	requests []*types.SwapRequest
}

// New instantiates a new instant pool engine.
func New(log *logging.Logger, config Config, broker Broker, collateral Collateral, auth Authorizer, timeSvc TimeService) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	return &Engine{
		log:                log,
		config:             config,
		broker:             broker,
		collateral:         collateral,
		auth:               auth,
		timeSvc:            timeSvc,
		bufferedCollateral: num.UintZero(),
		bufferedShares:     num.UintZero(),
		accruedFees:        num.UintZero(),
		feeBps:             config.FeeBps,
		lockPeriod:         config.LocalLockPeriod.Get(),
		snapshotCollateral: num.UintZero(),
		snapshotShares:     num.UintZero(),
	}
}

// ApplySnapshot ingests a rate snapshot relayed from the primary ledger.
// The relay is at-least-once and unordered, so a snapshot whose nonce is
// not strictly greater than the last applied one is discarded without
// error, never re-applied.
func (e *Engine) ApplySnapshot(snapshot types.RateSnapshot) {
	if snapshot.Nonce <= e.lastNonce {
		e.log.Debug("stale rate snapshot discarded",
			logging.Uint64("nonce", snapshot.Nonce),
			logging.Uint64("lastNonce", e.lastNonce),
		)
		return
	}
	e.lastNonce = snapshot.Nonce
	e.snapshotCollateral = snapshot.TotalPooledCollateral.Clone()
	e.snapshotShares = snapshot.TotalShares.Clone()
}

// ProvideCollateral tops up the collateral buffer. Pool owner only.
func (e *Engine) ProvideCollateral(ctx context.Context, caller string, amount *num.Uint) error {
	if err := e.auth.RequireRole(types.RoleInstantPoolOwner, caller); err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	e.bufferedCollateral.AddSum(amount)
	e.broker.Send(events.NewLiquidityProvided(ctx, caller, amount, num.UintZero()))
	return nil
}

// ProvideShares tops up the share buffer. Pool owner only.
func (e *Engine) ProvideShares(ctx context.Context, caller string, amount *num.Uint) error {
	if err := e.auth.RequireRole(types.RoleInstantPoolOwner, caller); err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	e.bufferedShares.AddSum(amount)
	e.broker.Send(events.NewLiquidityProvided(ctx, caller, num.UintZero(), amount))
	return nil
}

// SwapCollateralForShares converts collateral to shares at the relayed
// rate, paying from the share buffer. The fee is taken off the collateral
// before conversion. Returns the shares paid out.
func (e *Engine) SwapCollateralForShares(ctx context.Context, party string, amount *num.Uint) (*num.Uint, error) {
	if amount == nil || amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	net, fee := e.AmountAfterFee(amount)
	shares := e.collateralToShares(net)
	if e.bufferedShares.LT(shares) {
		return nil, ErrInsufficientInstantLiquidity
	}

	e.bufferedCollateral.AddSum(net)
	e.accruedFees.AddSum(fee)
	e.bufferedShares.Sub(e.bufferedShares, shares)

	e.log.Debug("collateral swapped for shares",
		logging.String("party", party),
		logging.String("amountIn", amount.String()),
		logging.String("sharesOut", shares.String()),
		logging.String("fee", fee.String()),
	)
	e.broker.Send(events.NewCollateralSwapped(ctx, party, amount, shares, fee))
	return shares, nil
}

// RequestShareSwap converts shares to collateral at the relayed rate but
// holds the payout under the local lock instead of paying immediately. The
// collateral buffer must cover the net payout now, the amount is frozen in
// the request. The fee stays in the buffer: the pool took in shares worth
// the gross amount and only ever pays out the net, so no separate fee
// claim is recorded on this path.
func (e *Engine) RequestShareSwap(ctx context.Context, owner string, shareAmount *num.Uint) (*types.SwapRequest, error) {
	if shareAmount == nil || shareAmount.IsZero() {
		return nil, ErrInvalidAmount
	}
	collateralOut := e.sharesToCollateral(shareAmount)
	net, _ := e.AmountAfterFee(collateralOut)
	if e.bufferedCollateral.LT(net) {
		return nil, ErrInsufficientInstantLiquidity
	}

	now := e.timeSvc.GetTimeNow()
	req := &types.SwapRequest{
		Owner:          owner,
		Amount:         net,
		RequestTime:    now,
		WithdrawalTime: now.Add(e.lockPeriod),
	}
	e.bufferedCollateral.Sub(e.bufferedCollateral, net)
	e.bufferedShares.AddSum(shareAmount)
	e.requests = append(e.requests, req)

	e.log.Debug("share swap requested",
		logging.String("owner", owner),
		logging.String("sharesIn", shareAmount.String()),
		logging.String("collateralOut", net.String()),
		logging.Time("withdrawalTime", req.WithdrawalTime),
	)
	e.broker.Send(events.NewSwapRequested(ctx, owner, shareAmount, net, req.WithdrawalTime))
	return req.Clone(), nil
}

// ClaimShareSwap pays out a locked swap request once its withdrawal time
// has passed and removes it. The index is positional over all open
// requests; an index that is out of range or belongs to another owner is
// rejected the same way.
func (e *Engine) ClaimShareSwap(ctx context.Context, owner string, index int) (*num.Uint, error) {
	if index < 0 || index >= len(e.requests) || e.requests[index].Owner != owner {
		return nil, ErrInvalidIndex
	}
	req := e.requests[index]
	if e.timeSvc.GetTimeNow().Before(req.WithdrawalTime) {
		return nil, ErrTooEarly
	}
	// unlist before paying so a rail handing control back cannot claim the
	// same request twice; a rejected transfer moved nothing, so the request
	// is restored at its index and stays claimable
	e.requests = append(e.requests[:index], e.requests[index+1:]...)
	if err := e.collateral.Transfer(ctx, owner, req.Amount.Clone()); err != nil {
		e.requests = append(e.requests, nil)
		copy(e.requests[index+1:], e.requests[index:])
		e.requests[index] = req
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	e.log.Debug("share swap claimed",
		logging.String("owner", owner),
		logging.String("amount", req.Amount.String()),
	)
	e.broker.Send(events.NewSwapClaimed(ctx, owner, req.Amount))
	return req.Amount.Clone(), nil
}

// WithdrawFees pays the accrued swap fees to the caller. Pool owner only.
func (e *Engine) WithdrawFees(ctx context.Context, caller string) (*num.Uint, error) {
	if err := e.auth.RequireRole(types.RoleInstantPoolOwner, caller); err != nil {
		return nil, err
	}
	if e.accruedFees.IsZero() {
		return nil, ErrInvalidAmount
	}
	amount := e.accruedFees.Clone()
	if err := e.collateral.Transfer(ctx, caller, amount.Clone()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	e.accruedFees = num.UintZero()
	e.log.Info("instant pool fees withdrawn",
		logging.String("caller", caller),
		logging.String("amount", amount.String()),
	)
	return amount, nil
}

// SetFeeBps updates the swap fee. Admin only, capped at 100%.
func (e *Engine) SetFeeBps(caller string, bps uint64) error {
	if err := e.auth.RequireRole(types.RoleAdmin, caller); err != nil {
		return err
	}
	if bps > maxFeeBps {
		return ErrInvalidFee
	}
	e.feeBps = bps
	return nil
}

// AmountAfterFee splits an amount into the net payout and the swap fee,
// with the fee rounded down.
func (e *Engine) AmountAfterFee(amount *num.Uint) (*num.Uint, *num.Uint) {
	fee := num.MulDiv(amount, num.NewUint(e.feeBps), num.NewUint(maxFeeBps))
	net := num.UintZero().Sub(amount, fee)
	return net, fee
}

// BufferedCollateral returns the current collateral buffer.
func (e *Engine) BufferedCollateral() *num.Uint {
	return e.bufferedCollateral.Clone()
}

// BufferedShares returns the current share buffer.
func (e *Engine) BufferedShares() *num.Uint {
	return e.bufferedShares.Clone()
}

// AccruedFees returns the swap fees collected since the last withdrawal.
func (e *Engine) AccruedFees() *num.Uint {
	return e.accruedFees.Clone()
}

// FeeBps returns the swap fee in basis points.
func (e *Engine) FeeBps() uint64 {
	return e.feeBps
}

// LastNonce returns the nonce of the last applied rate snapshot.
func (e *Engine) LastNonce() uint64 {
	return e.lastNonce
}

// Requests returns all open swap requests in positional order.
func (e *Engine) Requests() []*types.SwapRequest {
	out := make([]*types.SwapRequest, 0, len(e.requests))
	for _, req := range e.requests {
		out = append(out, req.Clone())
	}
	return out
}

// collateralToShares prices at the relayed snapshot, 1:1 before the first
// snapshot arrives, matching the primary ledger's genesis rate.
func (e *Engine) collateralToShares(amount *num.Uint) *num.Uint {
	if e.snapshotShares.IsZero() {
		return amount.Clone()
	}
	return num.MulDiv(amount, e.snapshotShares, e.snapshotCollateral)
}

func (e *Engine) sharesToCollateral(shares *num.Uint) *num.Uint {
	if e.snapshotShares.IsZero() {
		return shares.Clone()
	}
	return num.MulDiv(shares, e.snapshotCollateral, e.snapshotShares)
}
