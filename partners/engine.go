package partners

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"code.stakewire.io/stakewire/events"
	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/types"
	"code.stakewire.io/stakewire/types/num"
)

var (
	// ErrInvalidAmount is returned when an operation is called with a zero amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidPartnerID is returned when a partner id was never assigned.
	ErrInvalidPartnerID = errors.New("invalid partner id")
	// ErrInactivePartner is returned for operations on a deactivated partner.
	ErrInactivePartner = errors.New("partner is inactive")
	// ErrInvalidBatchID is returned when a batch id was never opened.
	ErrInvalidBatchID = errors.New("invalid batch id")
	// ErrEmptyBatch is returned when undelegating a batch with no harvested shares.
	ErrEmptyBatch = errors.New("current batch holds no shares")
	// ErrBatchNotClaimed is returned when disbursing before the batch proceeds arrived.
	ErrBatchNotClaimed = errors.New("batch proceeds not claimed yet")
	// ErrNoPartnerShare is returned when a partner has no row in the given batch.
	ErrNoPartnerShare = errors.New("no partner share for id in batch")
	// ErrAlreadyDisbursed is returned when a partner's batch slice was already paid.
	ErrAlreadyDisbursed = errors.New("partner share already disbursed")
	// ErrRequestNotFound is returned for an unknown unstake request index.
	ErrRequestNotFound = errors.New("unstake request not found")
	// ErrInvalidPct is returned when a percentage above 100 is configured.
	ErrInvalidPct = errors.New("percentage must not exceed 100")
	// ErrTransferFailed is returned when a partner payout is rejected.
	ErrTransferFailed = errors.New("partner payout failed")
)

// Broker sends events out of the engine.
type Broker interface {
	Send(event events.Event)
}

// Ledger is the exchange rate ledger the partner pool deposits into and
// undelegates from. Only values are read, the engine holds no alias into
// ledger state.
type Ledger interface {
	Deposit(ctx context.Context, party string, amount *num.Uint) (*num.Uint, error)
	RequestWithdrawal(ctx context.Context, owner string, shareAmount *num.Uint) (*types.WithdrawalRequest, error)
	TotalShares() *num.Uint
	TotalPooledCollateral() *num.Uint
	FeeBps() uint64
}

// Claimer settles the pool account's matured withdrawal requests.
type Claimer interface {
	Claim(ctx context.Context, owner string, index int) (*num.Uint, error)
}

// Collateral pays disbursed rewards out to partner wallets.
type Collateral interface {
	Transfer(ctx context.Context, to string, amount *num.Uint) error
}

// Authorizer is the externally managed role check.
type Authorizer interface {
	RequireRole(role types.Role, caller string) error
}

// TimeService provides the wall clock stamped on batches and disbursals.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/time_service_mock.go -package mocks code.stakewire.io/stakewire/partners TimeService
type TimeService interface {
	GetTimeNow() time.Time
}

// Engine aggregates partner positions sharing one pooled delegation
// account, harvests their rewards into batches and disburses matured
// batch proceeds pro rata.
//
// Harvesting tops partners down to their principal's share equivalent
// instead of tracking absolute reward amounts, so any number of partners
// can share a single backend position. Only the relative split has to be
// exact, which the per batch share rows guarantee.
type Engine struct {
	log        *logging.Logger
	config     Config
	broker     Broker
	ledger     Ledger
	claimer    Claimer
	collateral Collateral
	auth       Authorizer
	timeSvc    TimeService

	partners      map[uint64]*types.PartnerAccount
	nextPartnerID uint64

	batches        map[uint64]*types.UnstakeBatch
	currentBatchID uint64
	shares         map[types.PartnerShareKey]*types.PartnerShare
	// pendingClaims mirrors the pool account's withdrawal list positions,
	// entry i names the batch settled by queue index i
	pendingClaims []uint64

	reimbursementPool *num.Uint
	reimbursementPct  uint64
}

// New instantiates a new partner batch engine with batch 1 open.
func New(log *logging.Logger, config Config, broker Broker, ledger Ledger, claimer Claimer, collateral Collateral, auth Authorizer, timeSvc TimeService) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	e := &Engine{
		log:               log,
		config:            config,
		broker:            broker,
		ledger:            ledger,
		claimer:           claimer,
		collateral:        collateral,
		auth:              auth,
		timeSvc:           timeSvc,
		partners:          map[uint64]*types.PartnerAccount{},
		nextPartnerID:     1,
		batches:           map[uint64]*types.UnstakeBatch{},
		shares:            map[types.PartnerShareKey]*types.PartnerShare{},
		pendingClaims:     []uint64{},
		reimbursementPool: num.UintZero(),
		reimbursementPct:  config.ReimbursementPct,
	}
	e.openBatch()
	return e
}

func (e *Engine) openBatch() {
	e.currentBatchID++
	e.batches[e.currentBatchID] = &types.UnstakeBatch{
		ID:                 e.currentBatchID,
		SharesBurned:       num.UintZero(),
		Status:             types.BatchStatusPending,
		CollateralReceived: num.UintZero(),
	}
}

// RegisterPartner creates a new active partner account with zero stake.
// Admin only. disbursalCount seeds how many harvests the partner is
// entitled to.
func (e *Engine) RegisterPartner(ctx context.Context, caller, name, wallet string, disbursalCount uint64) (*types.PartnerAccount, error) {
	if err := e.auth.RequireRole(types.RoleAdmin, caller); err != nil {
		return nil, err
	}
	p := &types.PartnerAccount{
		ID:                    e.nextPartnerID,
		Name:                  name,
		Wallet:                wallet,
		Status:                types.PartnerStatusActive,
		TotalCollateralStaked: num.UintZero(),
		TotalShares:           num.UintZero(),
		DisbursalCount:        disbursalCount,
		DisbursalRemaining:    disbursalCount,
	}
	e.partners[p.ID] = p
	e.nextPartnerID++

	e.log.Info("partner registered",
		logging.Uint64("partnerID", p.ID),
		logging.String("wallet", wallet),
	)
	e.broker.Send(events.NewPartnerRegistered(ctx, p.ID, wallet))
	return p.Clone(), nil
}

// Stake deposits principal on the partner's behalf through the ledger,
// attributing the minted shares to the partner's claim. Admin only.
func (e *Engine) Stake(ctx context.Context, caller string, partnerID uint64, amount *num.Uint) error {
	if err := e.auth.RequireRole(types.RoleAdmin, caller); err != nil {
		return err
	}
	p, ok := e.partners[partnerID]
	if !ok {
		return ErrInvalidPartnerID
	}
	if p.Status != types.PartnerStatusActive {
		return ErrInactivePartner
	}

	sharesMinted, err := e.ledger.Deposit(ctx, e.config.PoolAccount, amount)
	if err != nil {
		return err
	}
	p.TotalCollateralStaked.AddSum(amount)
	p.TotalShares.AddSum(sharesMinted)

	e.broker.Send(events.NewPartnerStaked(ctx, partnerID, amount, sharesMinted))
	return nil
}

// AddDueRewardsToCurrentBatch harvests each partner's accrued rewards into
// the current batch. A partner's reward is everything above the shares
// needed today to cover pure principal at the current rate, rounded up.
// Zero reward partners are left untouched, emit nothing and do not consume
// a disbursal, but the call still succeeds. Bot only.
func (e *Engine) AddDueRewardsToCurrentBatch(ctx context.Context, caller string, partnerIDs []uint64) error {
	if err := e.auth.RequireRole(types.RoleBot, caller); err != nil {
		return err
	}
	// validate the whole list before mutating anything, the operation is
	// all or nothing
	for _, id := range partnerIDs {
		p, ok := e.partners[id]
		if !ok {
			return ErrInvalidPartnerID
		}
		if p.Status != types.PartnerStatusActive {
			return ErrInactivePartner
		}
	}

	totalShares := e.ledger.TotalShares()
	totalPooled := e.ledger.TotalPooledCollateral()
	if totalShares.IsZero() {
		// empty ledger, nobody can hold rewards
		return nil
	}

	batch := e.batches[e.currentBatchID]
	for _, id := range partnerIDs {
		p := e.partners[id]
		principalShares := num.MulDivUp(p.TotalCollateralStaked, totalShares, totalPooled)
		if !p.TotalShares.GT(principalShares) {
			continue
		}
		reward := num.UintZero().Sub(p.TotalShares, principalShares)
		p.TotalShares = principalShares.Clone()
		batch.SharesBurned.AddSum(reward)

		key := types.PartnerShareKey{BatchID: batch.ID, PartnerID: id}
		row, ok := e.shares[key]
		if !ok {
			row = &types.PartnerShare{
				BatchID:        batch.ID,
				PartnerID:      id,
				SharesUnstaked: num.UintZero(),
			}
			e.shares[key] = row
		}
		row.SharesUnstaked.AddSum(reward)

		if p.DisbursalRemaining > 0 {
			p.DisbursalRemaining--
		}

		e.log.Debug("partner rewards harvested",
			logging.Uint64("partnerID", id),
			logging.Uint64("batchID", batch.ID),
			logging.String("shares", reward.String()),
		)
		e.broker.Send(events.NewRewardsHarvested(ctx, id, batch.ID, reward))
	}
	return nil
}

// UndelegateCurrentBatch freezes the current batch, undelegates its shares
// through the ledger and opens a fresh empty batch. Bot only.
func (e *Engine) UndelegateCurrentBatch(ctx context.Context, caller string) error {
	if err := e.auth.RequireRole(types.RoleBot, caller); err != nil {
		return err
	}
	batch := e.batches[e.currentBatchID]
	if batch.SharesBurned.IsZero() {
		return ErrEmptyBatch
	}

	req, err := e.ledger.RequestWithdrawal(ctx, e.config.PoolAccount, batch.SharesBurned.Clone())
	if err != nil {
		return err
	}

	batch.Status = types.BatchStatusUndelegated
	batch.WithdrawalEpoch = req.UnlockEpoch
	batch.UndelegatedAt = e.timeSvc.GetTimeNow()
	e.pendingClaims = append(e.pendingClaims, batch.ID)
	e.openBatch()

	e.log.Info("batch undelegated",
		logging.Uint64("batchID", batch.ID),
		logging.String("sharesBurned", batch.SharesBurned.String()),
		logging.Uint64("withdrawalEpoch", batch.WithdrawalEpoch),
	)
	e.broker.Send(events.NewBatchUndelegated(ctx, batch.ID, batch.SharesBurned, batch.WithdrawalEpoch))
	return nil
}

// ClaimUnstakeRewards pulls the matured collateral for the unstake request
// at the given index and marks its batch claimed. Fails with the queue's
// not yet claimable error before the withdrawal epoch. Bot only.
func (e *Engine) ClaimUnstakeRewards(ctx context.Context, caller string, requestIndex int) error {
	if err := e.auth.RequireRole(types.RoleBot, caller); err != nil {
		return err
	}
	if requestIndex < 0 || requestIndex >= len(e.pendingClaims) {
		return ErrRequestNotFound
	}
	batchID := e.pendingClaims[requestIndex]

	amount, err := e.claimer.Claim(ctx, e.config.PoolAccount, requestIndex)
	if err != nil {
		return err
	}
	e.pendingClaims = append(e.pendingClaims[:requestIndex], e.pendingClaims[requestIndex+1:]...)

	batch := e.batches[batchID]
	batch.CollateralReceived = amount.Clone()
	batch.ClaimedAt = e.timeSvc.GetTimeNow()
	batch.Status = types.BatchStatusClaimed

	e.log.Info("batch proceeds claimed",
		logging.Uint64("batchID", batchID),
		logging.String("collateralReceived", amount.String()),
	)
	e.broker.Send(events.NewBatchClaimed(ctx, batchID, amount))
	return nil
}

// DisbursePartnersReward pays each listed partner its pro rata slice of a
// claimed batch plus a fee reimbursement bonus drawn from the pool. Every
// slice is paid exactly once: each partner's row is stamped before its
// payout and rolled back if the rail rejects it, so state always matches
// what was actually paid. A rejected payment aborts the call with the
// failing partner in the error; partners paid before it keep their stamp,
// the caller retries with the remaining ids. Bot only.
func (e *Engine) DisbursePartnersReward(ctx context.Context, caller string, batchID uint64, partnerIDs []uint64) error {
	if err := e.auth.RequireRole(types.RoleBot, caller); err != nil {
		return err
	}
	batch, ok := e.batches[batchID]
	if !ok {
		return ErrInvalidBatchID
	}
	if batch.Status != types.BatchStatusClaimed {
		return ErrBatchNotClaimed
	}

	// validate the whole list before paying anyone
	for _, id := range partnerIDs {
		p, ok := e.partners[id]
		if !ok {
			return ErrInvalidPartnerID
		}
		if p.Status != types.PartnerStatusActive {
			return ErrInactivePartner
		}
		row, ok := e.shares[types.PartnerShareKey{BatchID: batchID, PartnerID: id}]
		if !ok {
			return ErrNoPartnerShare
		}
		if !row.DisbursedAt.IsZero() {
			return ErrAlreadyDisbursed
		}
	}

	for _, id := range partnerIDs {
		p := e.partners[id]
		row := e.shares[types.PartnerShareKey{BatchID: batchID, PartnerID: id}]

		partnerCollateral := num.MulDiv(row.SharesUnstaked, batch.CollateralReceived, batch.SharesBurned)
		bonus := e.reimbursementBonus(partnerCollateral)
		total := num.Sum(partnerCollateral, bonus)

		// stamp before paying so a re-entrant call sees the row disbursed;
		// a rejected transfer moved nothing, roll the stamp back
		e.reimbursementPool.Sub(e.reimbursementPool, bonus)
		row.DisbursedAt = e.timeSvc.GetTimeNow()
		if err := e.collateral.Transfer(ctx, p.Wallet, total.Clone()); err != nil {
			e.reimbursementPool.AddSum(bonus)
			row.DisbursedAt = time.Time{}
			return fmt.Errorf("%w for partner %d: %v", ErrTransferFailed, id, err)
		}

		e.log.Info("partner reward disbursed",
			logging.Uint64("batchID", batchID),
			logging.Uint64("partnerID", id),
			logging.String("amount", partnerCollateral.String()),
			logging.String("bonus", bonus.String()),
		)
		e.broker.Send(events.NewRewardDisbursed(ctx, batchID, id, partnerCollateral, bonus))
	}
	return nil
}

// reimbursementBonus gives back a slice of the protocol fee the ledger
// skimmed off the partner's rewards: amount * pct / (100 - ledgerFeePct),
// capped by what the reimbursement pool still holds.
func (e *Engine) reimbursementBonus(amount *num.Uint) *num.Uint {
	if e.reimbursementPct == 0 || e.reimbursementPool.IsZero() {
		return num.UintZero()
	}
	ledgerFeePct := e.ledger.FeeBps() / 100
	if ledgerFeePct >= 100 {
		return num.UintZero()
	}
	bonus := num.MulDiv(amount, num.NewUint(e.reimbursementPct), num.NewUint(100-ledgerFeePct))
	return num.Min(bonus, e.reimbursementPool).Clone()
}

// FundReimbursementPool adds externally provided collateral to the fee
// reimbursement pool. Treasury only.
func (e *Engine) FundReimbursementPool(ctx context.Context, caller string, amount *num.Uint) error {
	if err := e.auth.RequireRole(types.RoleTreasury, caller); err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	e.reimbursementPool.AddSum(amount)
	return nil
}

// SetReimbursementPct updates the fee reimbursement percentage. Admin only.
func (e *Engine) SetReimbursementPct(caller string, pct uint64) error {
	if err := e.auth.RequireRole(types.RoleAdmin, caller); err != nil {
		return err
	}
	if pct > 100 {
		return ErrInvalidPct
	}
	e.reimbursementPct = pct
	return nil
}

// SetPartnerStatus activates or deactivates a partner. Accounts are never
// deleted. Admin only.
func (e *Engine) SetPartnerStatus(caller string, partnerID uint64, status types.PartnerStatus) error {
	if err := e.auth.RequireRole(types.RoleAdmin, caller); err != nil {
		return err
	}
	p, ok := e.partners[partnerID]
	if !ok {
		return ErrInvalidPartnerID
	}
	p.Status = status
	return nil
}

// ChangePartnerWallet rotates the wallet future disbursals are paid to.
// Admin only.
func (e *Engine) ChangePartnerWallet(caller string, partnerID uint64, wallet string) error {
	if err := e.auth.RequireRole(types.RoleAdmin, caller); err != nil {
		return err
	}
	p, ok := e.partners[partnerID]
	if !ok {
		return ErrInvalidPartnerID
	}
	p.Wallet = wallet
	return nil
}

// Partner returns a copy of the partner account for the given id.
func (e *Engine) Partner(partnerID uint64) (*types.PartnerAccount, error) {
	p, ok := e.partners[partnerID]
	if !ok {
		return nil, ErrInvalidPartnerID
	}
	return p.Clone(), nil
}

// Partners returns copies of all partner accounts ordered by id.
func (e *Engine) Partners() []*types.PartnerAccount {
	ids := make([]uint64, 0, len(e.partners))
	for id := range e.partners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*types.PartnerAccount, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.partners[id].Clone())
	}
	return out
}

// Batch returns a copy of the batch for the given id.
func (e *Engine) Batch(batchID uint64) (*types.UnstakeBatch, error) {
	b, ok := e.batches[batchID]
	if !ok {
		return nil, ErrInvalidBatchID
	}
	return b.Clone(), nil
}

// CurrentBatch returns a copy of the batch currently accepting harvests.
func (e *Engine) CurrentBatch() *types.UnstakeBatch {
	return e.batches[e.currentBatchID].Clone()
}

// PartnerShare returns a copy of a partner's contribution row in a batch.
func (e *Engine) PartnerShare(batchID, partnerID uint64) (*types.PartnerShare, error) {
	row, ok := e.shares[types.PartnerShareKey{BatchID: batchID, PartnerID: partnerID}]
	if !ok {
		return nil, ErrNoPartnerShare
	}
	return row.Clone(), nil
}

// ReimbursementPool returns the remaining fee reimbursement balance.
func (e *Engine) ReimbursementPool() *num.Uint {
	return e.reimbursementPool.Clone()
}
