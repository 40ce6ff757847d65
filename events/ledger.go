package events

import (
	"context"

	"code.stakewire.io/stakewire/types"
	"code.stakewire.io/stakewire/types/num"
)

// Deposit is emitted when collateral enters the pool and shares are minted.
type Deposit struct {
	*Base
	party        string
	amount       *num.Uint
	sharesMinted *num.Uint
	validator    types.ValidatorRef
}

func NewDeposit(ctx context.Context, party string, amount, sharesMinted *num.Uint, validator types.ValidatorRef) *Deposit {
	return &Deposit{
		Base:         newBase(ctx, DepositEvent),
		party:        party,
		amount:       amount.Clone(),
		sharesMinted: sharesMinted.Clone(),
		validator:    validator,
	}
}

func (d Deposit) Party() string                 { return d.party }
func (d Deposit) Amount() *num.Uint             { return d.amount.Clone() }
func (d Deposit) SharesMinted() *num.Uint       { return d.sharesMinted.Clone() }
func (d Deposit) Validator() types.ValidatorRef { return d.validator }

// RewardsAccrued is emitted when realised rewards are added to the pool.
type RewardsAccrued struct {
	*Base
	amount    *num.Uint
	netAmount *num.Uint
}

func NewRewardsAccrued(ctx context.Context, amount, netAmount *num.Uint) *RewardsAccrued {
	return &RewardsAccrued{
		Base:      newBase(ctx, RewardsAccruedEvent),
		amount:    amount.Clone(),
		netAmount: netAmount.Clone(),
	}
}

func (r RewardsAccrued) Amount() *num.Uint    { return r.amount.Clone() }
func (r RewardsAccrued) NetAmount() *num.Uint { return r.netAmount.Clone() }

// FeeCollected is emitted when a non zero protocol fee is skimmed off
// accrued rewards. No event fires for a zero fee.
type FeeCollected struct {
	*Base
	treasury string
	amount   *num.Uint
}

func NewFeeCollected(ctx context.Context, treasury string, amount *num.Uint) *FeeCollected {
	return &FeeCollected{
		Base:     newBase(ctx, FeeCollectedEvent),
		treasury: treasury,
		amount:   amount.Clone(),
	}
}

func (f FeeCollected) Treasury() string  { return f.treasury }
func (f FeeCollected) Amount() *num.Uint { return f.amount.Clone() }

// WithdrawalRequested is emitted when shares are burned into a pending
// withdrawal request.
type WithdrawalRequested struct {
	*Base
	owner          string
	sharesBurned   *num.Uint
	collateralOwed *num.Uint
	validator      types.ValidatorRef
	unlockEpoch    uint64
}

func NewWithdrawalRequested(ctx context.Context, owner string, sharesBurned, collateralOwed *num.Uint, validator types.ValidatorRef, unlockEpoch uint64) *WithdrawalRequested {
	return &WithdrawalRequested{
		Base:           newBase(ctx, WithdrawalRequestedEvent),
		owner:          owner,
		sharesBurned:   sharesBurned.Clone(),
		collateralOwed: collateralOwed.Clone(),
		validator:      validator,
		unlockEpoch:    unlockEpoch,
	}
}

func (w WithdrawalRequested) Owner() string                 { return w.owner }
func (w WithdrawalRequested) SharesBurned() *num.Uint       { return w.sharesBurned.Clone() }
func (w WithdrawalRequested) CollateralOwed() *num.Uint     { return w.collateralOwed.Clone() }
func (w WithdrawalRequested) Validator() types.ValidatorRef { return w.validator }
func (w WithdrawalRequested) UnlockEpoch() uint64           { return w.unlockEpoch }

// WithdrawalClaimed is emitted when a matured request is settled and
// removed from the owner's list.
type WithdrawalClaimed struct {
	*Base
	owner  string
	amount *num.Uint
	epoch  uint64
}

func NewWithdrawalClaimed(ctx context.Context, owner string, amount *num.Uint, epoch uint64) *WithdrawalClaimed {
	return &WithdrawalClaimed{
		Base:   newBase(ctx, WithdrawalClaimedEvent),
		owner:  owner,
		amount: amount.Clone(),
		epoch:  epoch,
	}
}

func (w WithdrawalClaimed) Owner() string     { return w.owner }
func (w WithdrawalClaimed) Amount() *num.Uint { return w.amount.Clone() }
func (w WithdrawalClaimed) Epoch() uint64     { return w.epoch }

// RateSnapshotEvt carries the ledger totals to instant pool consumers on
// the secondary network. The nonce increases with every emission.
type RateSnapshotEvt struct {
	*Base
	snapshot types.RateSnapshot
}

func NewRateSnapshot(ctx context.Context, snapshot types.RateSnapshot) *RateSnapshotEvt {
	return &RateSnapshotEvt{
		Base:     newBase(ctx, RateSnapshotEvent),
		snapshot: snapshot.Clone(),
	}
}

func (r RateSnapshotEvt) Snapshot() types.RateSnapshot { return r.snapshot.Clone() }
