package ledger

import (
	"context"
	"errors"
	"fmt"

	"code.stakewire.io/stakewire/events"
	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/types"
	"code.stakewire.io/stakewire/types/num"
)

const maxFeeBps = 10000

var (
	// ErrInvalidAmount is returned when an operation is called with a zero amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientBalance is returned when the caller holds fewer shares than requested.
	ErrInsufficientBalance = errors.New("insufficient share balance")
	// ErrPaused is returned when a user operation is attempted while the ledger is paused.
	ErrPaused = errors.New("ledger is paused")
	// ErrTransferFailed is returned when the delegation backend rejects a collateral movement.
	ErrTransferFailed = errors.New("collateral transfer rejected by delegation backend")
	// ErrEmptyPool is returned when rewards are accrued while no shares exist.
	ErrEmptyPool = errors.New("no shares in the pool")
	// ErrInvalidFee is returned when a fee above 100% is configured.
	ErrInvalidFee = errors.New("fee must not exceed 10000 basis points")
)

// Broker sends events out of the engine.
type Broker interface {
	Send(event events.Event)
}

// StakingBackend is the validator delegation system the pool stakes
// through. Calls look synchronous but may be long-running externally, the
// core only relies on the returned epochs.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/staking_backend_mock.go -package mocks code.stakewire.io/stakewire/ledger StakingBackend
type StakingBackend interface {
	Delegate(ctx context.Context, validator types.ValidatorRef, amount *num.Uint) error
	Undelegate(ctx context.Context, validator types.ValidatorRef, amount *num.Uint) (uint64, error)
	CurrentEpoch() uint64
}

// ValidatorSelector picks the validator a deposit or withdrawal request is
// bound to. Pure lookups, read exactly once per operation.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/validator_selector_mock.go -package mocks code.stakewire.io/stakewire/ledger ValidatorSelector
type ValidatorSelector interface {
	PreferredDepositValidator() types.ValidatorRef
	PreferredWithdrawalValidator() types.ValidatorRef
}

// WithdrawalQueue receives the requests created when shares are burned.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/withdrawal_queue_mock.go -package mocks code.stakewire.io/stakewire/ledger WithdrawalQueue
type WithdrawalQueue interface {
	Push(owner string, req *types.WithdrawalRequest) int
}

// Authorizer is the externally managed role check. Failures propagate to
// the caller verbatim.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/authorizer_mock.go -package mocks code.stakewire.io/stakewire/ledger Authorizer
type Authorizer interface {
	RequireRole(role types.Role, caller string) error
}

// Engine is the exchange rate ledger. It owns the share balances and the
// two pool totals, everything else reads them through accessors that hand
// out clones.
type Engine struct {
	log      *logging.Logger
	config   Config
	broker   Broker
	backend  StakingBackend
	selector ValidatorSelector
	queue    WithdrawalQueue
	auth     Authorizer

	balances              map[string]*num.Uint
	totalShares           *num.Uint
	totalPooledCollateral *num.Uint
	feeBps                uint64
	treasury              string
	paused                bool
	snapshotNonce         uint64
}

// New instantiates a new ledger engine.
func New(log *logging.Logger, config Config, broker Broker, backend StakingBackend, selector ValidatorSelector, queue WithdrawalQueue, auth Authorizer) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	return &Engine{
		log:                   log,
		config:                config,
		broker:                broker,
		backend:               backend,
		selector:              selector,
		queue:                 queue,
		auth:                  auth,
		balances:              map[string]*num.Uint{},
		totalShares:           num.UintZero(),
		totalPooledCollateral: num.UintZero(),
		feeBps:                config.FeeBps,
		treasury:              config.Treasury,
	}
}

// Deposit locks collateral into the pool and mints shares to party at the
// current exchange rate, rounding down. The very first deposit establishes
// a 1:1 genesis rate. Returns the number of shares minted.
func (e *Engine) Deposit(ctx context.Context, party string, amount *num.Uint) (*num.Uint, error) {
	if amount == nil || amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	if e.paused {
		return nil, ErrPaused
	}

	validator := e.selector.PreferredDepositValidator()
	// hand the collateral to the backend before touching any state, a
	// rejected transfer aborts with nothing committed
	if err := e.backend.Delegate(ctx, validator, amount.Clone()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	shares := e.collateralToShares(amount)
	e.totalPooledCollateral.AddSum(amount)
	e.totalShares.AddSum(shares)
	e.credit(party, shares)

	e.log.Debug("deposit",
		logging.String("party", party),
		logging.String("amount", amount.String()),
		logging.String("sharesMinted", shares.String()),
	)
	e.broker.Send(events.NewDeposit(ctx, party, amount, shares, validator))
	e.emitRateSnapshot(ctx)
	return shares.Clone(), nil
}

// RequestWithdrawal burns shareAmount from owner immediately and creates a
// withdrawal request gated on the backend's unbonding epoch. Both pool
// totals are decremented now, not at claim time, so pending requests do not
// move the exchange rate.
func (e *Engine) RequestWithdrawal(ctx context.Context, owner string, shareAmount *num.Uint) (*types.WithdrawalRequest, error) {
	if shareAmount == nil || shareAmount.IsZero() {
		return nil, ErrInvalidAmount
	}
	if e.paused {
		return nil, ErrPaused
	}
	bal, ok := e.balances[owner]
	if !ok || bal.LT(shareAmount) {
		return nil, ErrInsufficientBalance
	}

	collateralOwed := e.sharesToCollateral(shareAmount)
	validator := e.selector.PreferredWithdrawalValidator()
	unlockEpoch, err := e.backend.Undelegate(ctx, validator, collateralOwed.Clone())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	e.debit(owner, shareAmount)
	e.totalShares.Sub(e.totalShares, shareAmount)
	e.totalPooledCollateral.Sub(e.totalPooledCollateral, collateralOwed)

	req := &types.WithdrawalRequest{
		Owner:          owner,
		SharesBurned:   shareAmount.Clone(),
		CollateralOwed: collateralOwed,
		Validator:      validator,
		RequestEpoch:   e.backend.CurrentEpoch(),
		UnlockEpoch:    unlockEpoch,
	}
	e.queue.Push(owner, req)

	e.log.Debug("withdrawal requested",
		logging.String("owner", owner),
		logging.String("sharesBurned", shareAmount.String()),
		logging.String("collateralOwed", collateralOwed.String()),
		logging.Uint64("unlockEpoch", unlockEpoch),
	)
	e.broker.Send(events.NewWithdrawalRequested(ctx, owner, shareAmount, collateralOwed, validator, unlockEpoch))
	e.emitRateSnapshot(ctx)
	return req.Clone(), nil
}

// Transfer moves shares between accounts. Shares are the unit of ownership
// and freely transferable.
func (e *Engine) Transfer(ctx context.Context, from, to string, amount *num.Uint) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	bal, ok := e.balances[from]
	if !ok || bal.LT(amount) {
		return ErrInsufficientBalance
	}
	e.debit(from, amount)
	e.credit(to, amount)
	return nil
}

// AccrueRewards records reward collateral realised from the backend. The
// protocol fee is skimmed and minted to the treasury as shares, the net
// amount raises the exchange rate. No fee event fires when the fee rounds
// to zero.
func (e *Engine) AccrueRewards(ctx context.Context, amount *num.Uint) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	if e.totalShares.IsZero() {
		return ErrEmptyPool
	}

	feeAmount := num.MulDiv(amount, num.NewUint(e.feeBps), num.NewUint(maxFeeBps))
	netAmount := num.UintZero().Sub(amount, feeAmount)

	e.totalPooledCollateral.AddSum(netAmount)
	if !feeAmount.IsZero() {
		// the fee enters the pool like a deposit by the treasury, priced
		// after the net amount has raised the rate
		feeShares := e.collateralToShares(feeAmount)
		e.totalPooledCollateral.AddSum(feeAmount)
		e.totalShares.AddSum(feeShares)
		e.credit(e.treasury, feeShares)
		e.broker.Send(events.NewFeeCollected(ctx, e.treasury, feeAmount))
	}

	e.log.Info("rewards accrued",
		logging.String("amount", amount.String()),
		logging.String("fee", feeAmount.String()),
		logging.String("exchangeRate", e.ExchangeRate().String()),
	)
	e.broker.Send(events.NewRewardsAccrued(ctx, amount, netAmount))
	e.emitRateSnapshot(ctx)
	return nil
}

// Pause stops deposits and withdrawal requests. Admin only.
func (e *Engine) Pause(caller string) error {
	if err := e.auth.RequireRole(types.RoleAdmin, caller); err != nil {
		return err
	}
	e.paused = true
	e.log.Info("ledger paused", logging.String("caller", caller))
	return nil
}

// Unpause resumes user operations. Admin only.
func (e *Engine) Unpause(caller string) error {
	if err := e.auth.RequireRole(types.RoleAdmin, caller); err != nil {
		return err
	}
	e.paused = false
	e.log.Info("ledger unpaused", logging.String("caller", caller))
	return nil
}

// SetFeeBps updates the protocol fee. Admin only, capped at 100%.
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

// SetTreasury updates the treasury address receiving fee shares. Admin only.
func (e *Engine) SetTreasury(caller, treasury string) error {
	if err := e.auth.RequireRole(types.RoleAdmin, caller); err != nil {
		return err
	}
	e.treasury = treasury
	return nil
}

// TotalShares returns the current share supply.
func (e *Engine) TotalShares() *num.Uint {
	return e.totalShares.Clone()
}

// TotalPooledCollateral returns the collateral currently delegated or
// buffered awaiting delegation.
func (e *Engine) TotalPooledCollateral() *num.Uint {
	return e.totalPooledCollateral.Clone()
}

// BalanceOf returns the share balance of the given party.
func (e *Engine) BalanceOf(party string) *num.Uint {
	if bal, ok := e.balances[party]; ok {
		return bal.Clone()
	}
	return num.UintZero()
}

// FeeBps returns the protocol fee in basis points.
func (e *Engine) FeeBps() uint64 {
	return e.feeBps
}

// Paused reports whether user operations are currently blocked.
func (e *Engine) Paused() bool {
	return e.paused
}

// ExchangeRate returns collateral per share as a decimal, 1 when the pool
// is empty. Reporting only, never feeds back into state.
func (e *Engine) ExchangeRate() num.Decimal {
	if e.totalShares.IsZero() {
		return num.DecimalOne()
	}
	return e.totalPooledCollateral.ToDecimal().Div(e.totalShares.ToDecimal())
}

// ConvertCollateralToShares returns how many shares the given collateral
// mints at the current rate, rounding down.
func (e *Engine) ConvertCollateralToShares(amount *num.Uint) *num.Uint {
	return e.collateralToShares(amount)
}

// ConvertSharesToCollateral returns how much collateral the given shares
// redeem for at the current rate, rounding down.
func (e *Engine) ConvertSharesToCollateral(shares *num.Uint) *num.Uint {
	return e.sharesToCollateral(shares)
}

func (e *Engine) collateralToShares(amount *num.Uint) *num.Uint {
	if e.totalShares.IsZero() {
		return amount.Clone()
	}
	return num.MulDiv(amount, e.totalShares, e.totalPooledCollateral)
}

func (e *Engine) sharesToCollateral(shares *num.Uint) *num.Uint {
	if e.totalShares.IsZero() {
		return shares.Clone()
	}
	return num.MulDiv(shares, e.totalPooledCollateral, e.totalShares)
}

func (e *Engine) credit(party string, amount *num.Uint) {
	if bal, ok := e.balances[party]; ok {
		bal.AddSum(amount)
		return
	}
	e.balances[party] = amount.Clone()
}

func (e *Engine) debit(party string, amount *num.Uint) {
	bal := e.balances[party]
	bal.Sub(bal, amount)
	if bal.IsZero() {
		delete(e.balances, party)
	}
}

// emitRateSnapshot publishes the current totals for relay consumers, the
// nonce strictly increases with every emission.
func (e *Engine) emitRateSnapshot(ctx context.Context) {
	e.snapshotNonce++
	e.broker.Send(events.NewRateSnapshot(ctx, types.RateSnapshot{
		TotalPooledCollateral: e.totalPooledCollateral.Clone(),
		TotalShares:           e.totalShares.Clone(),
		Nonce:                 e.snapshotNonce,
	}))
}
